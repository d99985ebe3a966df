package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/storage"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage synced calendar events",
	}
	cmd.AddCommand(newEventsDeleteCmd())
	return cmd
}

func newEventsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <regNo>",
		Short: "Delete all calendar events for a student",
		Long: `Removes every calendar event whose description carries the student's
registration number, then resets the stored sync status so the student can
be re-synced cleanly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			regNo := args[0]

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.log.Sync()
			if err := a.cfg.RequireGoogle(); err != nil {
				return err
			}

			rec, err := newReconciler(cmd, a)
			if err != nil {
				return err
			}

			deleted, err := rec.DeleteStudentEvents(cmd.Context(), regNo)
			if err != nil {
				return err
			}

			if _, ok := a.store.Get(regNo); ok {
				if err := a.store.UpdateSyncStatus(regNo, storage.StatusPending, 0); err != nil {
					return err
				}
			}

			fmt.Printf("Deleted %d event(s) for %s\n", deleted, regNo)
			return nil
		},
	}
}
