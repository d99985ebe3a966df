package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/fetcher"
	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/parser"
)

var (
	flagFetchEveryone bool
	flagFetchInput    string
	flagFetchCaptures string
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [regNo...]",
		Short: "Fetch and parse timetables",
		Long: `Fetches raw timetable markup for the given students (or --all), parses
it into a normalized weekly schedule, and stores the result. Per-student
failures are collected; the batch never stops at the first error.

With --input, a single saved portal response is parsed instead of fetching.
With --captures, a pasted multi-student capture file is split on "user <N>"
delimiters and zipped positionally with the stored roster.`,
		RunE: runFetch,
	}

	cmd.Flags().BoolVar(&flagFetchEveryone, "all", false, "Fetch for every stored student")
	cmd.Flags().StringVar(&flagFetchInput, "input", "", "Parse a single saved response file")
	cmd.Flags().StringVar(&flagFetchCaptures, "captures", "", "Import a multi-student capture file")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.log.Sync()

	if flagFetchCaptures != "" {
		return importCaptures(a, flagFetchCaptures)
	}

	regNos := args
	if flagFetchEveryone {
		regNos = nil
		for _, r := range a.store.All() {
			regNos = append(regNos, r.RegNo)
		}
	}
	if len(regNos) == 0 {
		return fmt.Errorf("provide registration numbers, --all, or --captures")
	}

	var provider fetcher.Provider
	if flagFetchInput != "" {
		provider = fetcher.FileProvider{Path: flagFetchInput}
	} else {
		provider = fetcher.NewPortal(a.cfg.PortalURL, a.cfg.PortalCookie, a.log)
	}

	p := parser.New(a.log)
	fetched, failed := 0, 0

	for _, regNo := range regNos {
		if err := fetchOne(cmd.Context(), a, provider, p, regNo); err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", regNo, err)
			continue
		}
		fetched++
	}

	fmt.Printf("\nFetched %d, failed %d\n", fetched, failed)
	return nil
}

func fetchOne(ctx context.Context, a *app, provider fetcher.Provider, p *parser.Parser, regNo string) error {
	raw, err := provider.Fetch(ctx, regNo)
	if err != nil {
		return err
	}

	tt := p.Parse(raw, regNo)
	if tt.Error != "" {
		return fmt.Errorf("%s", tt.Error)
	}
	if !tt.HasClasses() {
		return fmt.Errorf("no classes found in timetable")
	}

	if _, ok := a.store.Get(regNo); ok {
		if err := a.store.UpdateTimetable(regNo, tt); err != nil {
			return err
		}
	}

	fmt.Printf("OK    %s: %d classes (section %s)\n", regNo, len(tt.Classes), orNA(tt.Section))
	return nil
}

// importCaptures parses a pasted multi-student capture file. Blocks are
// zipped positionally with the roster in import order; excess blocks or
// students are truncated to the shorter of the two.
func importCaptures(a *app, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading capture file: %w", err)
	}

	blocks := parser.SplitCaptureBlocks(string(raw))
	roster := a.store.All()
	if len(roster) == 0 {
		return fmt.Errorf("no students stored; import a roster first")
	}

	n := len(blocks)
	if len(roster) < n {
		n = len(roster)
	}
	a.log.Info("importing capture blocks",
		zap.Int("blocks", len(blocks)),
		zap.Int("students", len(roster)))

	p := parser.New(a.log)
	imported, failed := 0, 0

	for i := 0; i < n; i++ {
		regNo := roster[i].RegNo
		tt := p.Parse(blocks[i], regNo)
		if tt.Error != "" || !tt.HasClasses() {
			failed++
			fmt.Printf("FAIL  %s: no classes in block %d\n", regNo, i+1)
			continue
		}
		if err := a.store.UpdateTimetable(regNo, tt); err != nil {
			return err
		}
		imported++
		fmt.Printf("OK    %s: %d classes (section %s)\n", regNo, len(tt.Classes), orNA(tt.Section))
	}

	fmt.Printf("\nImported %d, failed %d (blocks %d, students %d)\n",
		imported, failed, len(blocks), len(roster))
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
