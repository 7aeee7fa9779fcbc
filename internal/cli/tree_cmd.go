package cli

import (
	"context"
	"fmt"

	"github.com/mverdier/tally/internal/cli/formatter"
	"github.com/mverdier/tally/internal/domain"
	"github.com/spf13/cobra"
)

func newTreeCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "tree PROJECT_ID",
		Short: "Show a project's work breakdown with effort rollups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			dailyHours := domain.DefaultDailyWorkHours
			if userID != "" {
				u, err := app.Users.GetByID(ctx, userID)
				if err != nil {
					return err
				}
				dailyHours = u.EffectiveDailyHours()
			}

			tree, err := app.Tasks.ProjectTree(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.RenderProjectTree(tree, dailyHours))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "as", "", "Viewing user id (their daily hours convert hours to days)")

	return cmd
}
