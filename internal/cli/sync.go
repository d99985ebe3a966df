package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/calendar"
	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/storage"
)

var flagSyncEveryone bool

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [regNo...]",
		Short: "Sync stored timetables to Google Calendar",
		Long: `Creates one weekly recurring calendar event per class for each given
student (or --all). Classes with incomplete day/time data are skipped;
per-class provider failures are recorded without stopping the run. Re-sync
is additive: delete a student's events first to avoid duplicates.`,
		RunE: runSync,
	}

	cmd.Flags().BoolVar(&flagSyncEveryone, "all", false, "Sync every student with a stored timetable")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.log.Sync()
	if err := a.cfg.RequireGoogle(); err != nil {
		return err
	}

	regNos := args
	if flagSyncEveryone {
		regNos = nil
		for _, r := range a.store.All() {
			if r.Timetable != nil {
				regNos = append(regNos, r.RegNo)
			}
		}
		if len(regNos) == 0 {
			return fmt.Errorf("no students with timetables found; fetch timetables first")
		}
	}
	if len(regNos) == 0 {
		return fmt.Errorf("provide registration numbers or --all")
	}

	rec, err := newReconciler(cmd, a)
	if err != nil {
		return err
	}

	synced, failed := 0, 0
	for _, regNo := range regNos {
		if err := syncOne(cmd, a, rec, regNo); err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", regNo, err)
			continue
		}
		synced++
	}

	fmt.Printf("\nSynced %d, failed %d\n", synced, failed)
	return nil
}

func syncOne(cmd *cobra.Command, a *app, rec *calendar.Reconciler, regNo string) error {
	record, ok := a.store.Get(regNo)
	if !ok {
		return fmt.Errorf("student not found")
	}
	if record.Timetable == nil {
		return fmt.Errorf("timetable not fetched; fetch it first")
	}

	result, err := rec.Sync(cmd.Context(), record.Timetable, record.Student)
	if err != nil {
		// The attempt died before completing (e.g. authentication); the
		// stored state still reflects that truthfully.
		if serr := a.store.UpdateSyncStatus(regNo, storage.StatusFailed, 0); serr != nil {
			return serr
		}
		return err
	}

	if err := a.store.UpdateSyncStatus(regNo, result.Status(), len(result.Success)); err != nil {
		return err
	}

	fmt.Printf("OK    %s: created %d, failed %d, skipped %d\n",
		regNo, len(result.Success), len(result.Failed), len(result.Skipped))
	return nil
}

func newReconciler(cmd *cobra.Command, a *app) (*calendar.Reconciler, error) {
	tokens, err := newTokenManager(a)
	if err != nil {
		return nil, err
	}
	if !tokens.Authenticated() {
		return nil, fmt.Errorf("not authenticated with Google; run 'timetable-sync auth login'")
	}

	client, err := calendar.NewClient(cmd.Context(), tokens)
	if err != nil {
		return nil, err
	}

	return calendar.NewReconciler(client, tokens, a.cfg.Location(), calendar.DefaultPacing, a.log), nil
}
