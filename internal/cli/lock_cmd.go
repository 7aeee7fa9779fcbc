package cli

import (
	"context"
	"fmt"

	"github.com/mverdier/tally/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newLockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Freeze and unfreeze timesheet months",
	}

	cmd.AddCommand(
		newLockSetCmd(app),
		newLockClearCmd(app),
		newLockListCmd(app),
	)

	return cmd
}

func newLockSetCmd(app *App) *cobra.Command {
	var projectID, month, by string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Lock a month, globally or for one project",
		RunE: func(cmd *cobra.Command, args []string) error {
			year, m, err := parseMonth(month)
			if err != nil {
				return err
			}
			var pid *string
			if projectID != "" {
				pid = &projectID
			}
			lock, err := app.Timesheets.SetLock(context.Background(), pid, year, m, by)
			if err != nil {
				return err
			}
			scope := "all projects"
			if !lock.Global() {
				scope = "project " + *lock.ProjectID
			}
			fmt.Printf("Locked %04d-%02d for %s\n", lock.Year, lock.Month, scope)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (omit for a global lock)")
	cmd.Flags().StringVar(&month, "month", "", "Month (YYYY-MM)")
	cmd.Flags().StringVar(&by, "by", "", "Acting user id")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func newLockClearCmd(app *App) *cobra.Command {
	var projectID, month, by string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove a month lock",
		RunE: func(cmd *cobra.Command, args []string) error {
			year, m, err := parseMonth(month)
			if err != nil {
				return err
			}
			var pid *string
			if projectID != "" {
				pid = &projectID
			}
			if err := app.Timesheets.ClearLock(context.Background(), pid, year, m, by); err != nil {
				return err
			}
			fmt.Printf("Unlocked %04d-%02d\n", year, m)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (omit for a global lock)")
	cmd.Flags().StringVar(&month, "month", "", "Month (YYYY-MM)")
	cmd.Flags().StringVar(&by, "by", "", "Acting user id")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func newLockListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active locks",
		RunE: func(cmd *cobra.Command, args []string) error {
			locks, err := app.Timesheets.ListLocks(context.Background())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(locks))
			for _, l := range locks {
				scope := "(global)"
				if l.ProjectID != nil {
					scope = *l.ProjectID
				}
				rows = append(rows, []string{
					fmt.Sprintf("%04d-%02d", l.Year, l.Month), scope, l.LockedBy,
					l.LockedAt.Format("2006-01-02 15:04"),
				})
			}
			fmt.Print(formatter.RenderTable([]string{"MONTH", "PROJECT", "BY", "AT"}, rows))
			return nil
		},
	}
}
