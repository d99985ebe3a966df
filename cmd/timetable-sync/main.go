package main

import (
	"os"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
