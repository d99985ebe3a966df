package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/student"
)

func newStudentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Manage the student roster",
	}
	cmd.AddCommand(newStudentsImportCmd(), newStudentsListCmd(), newStudentsRemoveCmd())
	return cmd
}

func newStudentsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <roster.json>",
		Short: "Import students from a JSON roster file",
		Long: `Imports an array of {"name", "regNo", "phone"} records, upserting by
registration number. The whole batch is validated before anything is written;
all violations are reported together.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading roster file: %w", err)
			}

			var students []student.Student
			if err := json.Unmarshal(raw, &students); err != nil {
				return fmt.Errorf("parsing roster file: %w", err)
			}

			if err := student.ValidateImport(students); err != nil {
				return fmt.Errorf("validation errors:\n%w", err)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			if _, err := a.store.Import(students); err != nil {
				return err
			}

			fmt.Printf("Imported %d student(s)\n", len(students))
			return nil
		},
	}
}

func newStudentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored students",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			records := a.store.All()
			if len(records) == 0 {
				fmt.Println("No students stored. Import a roster first.")
				return nil
			}

			for _, r := range records {
				classes := 0
				if r.Timetable != nil {
					classes = len(r.Timetable.Classes)
				}
				fmt.Printf("%s  %-24s  classes=%-3d  status=%s\n",
					r.RegNo, r.Name, classes, r.SyncStatus)
			}
			fmt.Printf("\n%d student(s)\n", len(records))
			return nil
		},
	}
}

func newStudentsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <regNo>",
		Short: "Remove a student from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			removed, err := a.store.Delete(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("student %s not found", args[0])
			}
			fmt.Printf("Removed student %s\n", args[0])
			return nil
		},
	}
}
