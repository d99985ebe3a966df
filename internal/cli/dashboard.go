package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/timetable"
)

var flagDashboardDay string

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show roster stats and the combined weekly schedule",
		RunE:  runDashboard,
	}

	cmd.Flags().StringVar(&flagDashboardDay, "day", "", "Limit the schedule to one weekday")

	return cmd
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	day := flagDashboardDay
	if day != "" {
		canonical, ok := timetable.MatchDay(day)
		if !ok {
			return fmt.Errorf("unknown day: %s", day)
		}
		day = canonical
	}

	stats := a.store.Stats()
	fmt.Printf("Students: %d  (synced %d, partial %d, pending %d, failed %d)\n",
		stats.TotalStudents, stats.Synced, stats.Partial, stats.Pending, stats.Failed)
	fmt.Printf("Events created: %d\n\n", stats.TotalEvents)

	for _, s := range stats.Students {
		fmt.Printf("%s  %-24s  section=%-6s  classes=%-3d  rooms=%s  status=%s\n",
			s.RegNo, s.Name, orNA(s.Section), s.TotalClasses,
			strings.Join(s.Rooms, ","), s.SyncStatus)
	}

	schedule := a.store.Schedule(day)
	days := timetable.Weekdays
	if day != "" {
		days = []string{day}
	}

	for _, d := range days {
		entries := schedule[d]
		if len(entries) == 0 {
			continue
		}
		fmt.Printf("\n%s\n", d)
		for _, e := range entries {
			fmt.Printf("  %s  %-8s  Room %-8s  %-9s  %s (%s)\n",
				e.Time, e.Course, e.Room, e.Type, e.Student, e.RegNo)
		}
	}

	return nil
}
