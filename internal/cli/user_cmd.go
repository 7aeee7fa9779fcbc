package cli

import (
	"context"
	"fmt"

	"github.com/mverdier/tally/internal/cli/formatter"
	"github.com/mverdier/tally/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
		newUserSetHoursCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var name string
	var admin bool
	var dailyHours float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &domain.User{
				Name:           name,
				Type:           domain.UserStandard,
				DailyWorkHours: dailyHours,
			}
			if admin {
				u.Type = domain.UserAdmin
			}
			if err := app.Users.Create(context.Background(), u); err != nil {
				return err
			}
			fmt.Printf("Created user %s (%s)\n", u.Name, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "User name")
	cmd.Flags().BoolVar(&admin, "admin", false, "Grant administrator rights")
	cmd.Flags().Float64Var(&dailyHours, "daily-hours", domain.DefaultDailyWorkHours, "Daily work hours (spent-days divisor)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	var viewableBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var (
				users []*domain.User
				err   error
			)
			if viewableBy != "" {
				users, err = app.Users.ListViewable(ctx, viewableBy)
			} else {
				users, err = app.Users.List(ctx)
			}
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{u.ID, u.Name, string(u.Type), fmt.Sprintf("%.1fh", u.DailyWorkHours)})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "NAME", "TYPE", "DAILY"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&viewableBy, "viewable-by", "", "Restrict to users viewable by this user id")

	return cmd
}

func newUserSetHoursCmd(app *App) *cobra.Command {
	var dailyHours float64

	cmd := &cobra.Command{
		Use:   "set-hours ID",
		Short: "Change a user's daily work hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			u, err := app.Users.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			u.DailyWorkHours = dailyHours
			if err := app.Users.Update(ctx, u); err != nil {
				return err
			}
			fmt.Printf("Updated %s: %.1fh/day\n", u.Name, u.DailyWorkHours)
			return nil
		},
	}

	cmd.Flags().Float64Var(&dailyHours, "daily-hours", domain.DefaultDailyWorkHours, "Daily work hours")
	_ = cmd.MarkFlagRequired("daily-hours")

	return cmd
}
