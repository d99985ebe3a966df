// Package cli implements the timetable-sync command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/config"
	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/storage"
)

var (
	flagDataDir string
	flagVerbose bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timetable-sync",
		Short: "Extract university timetables and sync them to Google Calendar",
		Long: `Parses timetable markup scraped from the university portal into a
normalized weekly schedule and reconciles it against Google Calendar.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (overrides DATA_DIR)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(
		newAuthCmd(),
		newStudentsCmd(),
		newFetchCmd(),
		newSyncCmd(),
		newEventsCmd(),
		newDashboardCmd(),
	)

	return cmd
}

// app bundles the collaborators every command needs.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *storage.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening roster store: %w", err)
	}

	return &app{cfg: cfg, log: log, store: store}, nil
}

func newLogger() (*zap.Logger, error) {
	if flagVerbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
