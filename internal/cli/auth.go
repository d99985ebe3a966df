package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/calendar"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Google Calendar authorization",
	}
	cmd.AddCommand(newAuthLoginCmd(), newAuthStatusCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize access to Google Calendar",
		Long: `Prints the Google consent URL, then exchanges the pasted
authorization code for tokens and caches them in the data directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.cfg.RequireGoogle(); err != nil {
				return err
			}

			tokens, err := newTokenManager(a)
			if err != nil {
				return err
			}

			fmt.Println("Open this URL in your browser and approve access:")
			fmt.Println()
			fmt.Println("  " + tokens.AuthURL("timetable-sync"))
			fmt.Println()
			fmt.Print("Enter authorization code: ")

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("authorization code is required")
			}

			if err := tokens.Exchange(cmd.Context(), code); err != nil {
				return err
			}
			fmt.Println("Authorized. Token cached.")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a calendar token is held",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			tokens, err := newTokenManager(a)
			if err != nil {
				return err
			}
			if tokens.Authenticated() {
				fmt.Println("Authenticated: a token is held.")
			} else {
				fmt.Println("Not authenticated. Run 'timetable-sync auth login'.")
			}
			return nil
		},
	}
}

func newTokenManager(a *app) (*calendar.TokenManager, error) {
	return calendar.NewTokenManager(
		a.cfg.GoogleClientID,
		a.cfg.GoogleClientSecret,
		a.cfg.GoogleRedirectURL,
		a.cfg.DataDir,
		a.cfg.TokenPassphrase,
	)
}
