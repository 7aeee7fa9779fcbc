package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/mverdier/tally/internal/cli/formatter"
	"github.com/mverdier/tally/internal/service"
	"github.com/spf13/cobra"
)

func newSheetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Record and review timesheet entries",
	}

	cmd.AddCommand(
		newSheetSetCmd(app),
		newSheetRemoveCmd(app),
		newSheetGridCmd(app),
	)

	return cmd
}

func newSheetSetCmd(app *App) *cobra.Command {
	var userID, taskID, date, description, enteredBy string
	var hours float64

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Write one timesheet cell (zero hours removes it)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(date)
			if err != nil {
				return err
			}
			actor := enteredBy
			if actor == "" {
				actor = userID
			}
			entry, err := app.Timesheets.UpsertEntry(context.Background(), service.UpsertEntryRequest{
				UserID:      userID,
				TaskID:      taskID,
				Date:        d,
				Hours:       hours,
				Description: description,
				EnteredBy:   actor,
			})
			if err != nil {
				return err
			}
			if entry == nil {
				fmt.Printf("Cleared %s on %s\n", taskID, date)
			} else {
				fmt.Printf("Recorded %.1fh on %s for %s\n", entry.Hours, date, userID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User the hours belong to")
	cmd.Flags().StringVar(&taskID, "task", "", "Task id")
	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Hours worked (0 removes the cell)")
	cmd.Flags().StringVar(&description, "note", "", "Optional description")
	cmd.Flags().StringVar(&enteredBy, "by", "", "Acting user id (defaults to --user)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("hours")

	return cmd
}

func newSheetRemoveCmd(app *App) *cobra.Command {
	var enteredBy string

	cmd := &cobra.Command{
		Use:   "remove ENTRY_ID",
		Short: "Delete one timesheet entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Timesheets.DeleteEntry(context.Background(), args[0], enteredBy); err != nil {
				return err
			}
			fmt.Printf("Deleted entry %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&enteredBy, "by", "", "Acting user id")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func newSheetGridCmd(app *App) *cobra.Command {
	var userID, month string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show one user's month as a task-by-day listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			year, m, err := parseMonth(month)
			if err != nil {
				return err
			}
			entries, err := app.Timesheets.MonthGrid(context.Background(), userID, year, m)
			if err != nil {
				return err
			}

			sort.Slice(entries, func(i, j int) bool {
				if !entries[i].Date.Equal(entries[j].Date) {
					return entries[i].Date.Before(entries[j].Date)
				}
				return entries[i].TaskID < entries[j].TaskID
			})

			var total float64
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.Date.Format(dateLayout), e.TaskID,
					fmt.Sprintf("%.1fh", e.Hours), e.Description,
				})
				total += e.Hours
			}
			fmt.Print(formatter.RenderTable([]string{"DATE", "TASK", "HOURS", "NOTE"}, rows))
			fmt.Printf("Total: %.1fh\n", total)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id")
	cmd.Flags().StringVar(&month, "month", "", "Month (YYYY-MM)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}
