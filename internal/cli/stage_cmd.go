package cli

import (
	"context"
	"fmt"

	"github.com/mverdier/tally/internal/cli/formatter"
	"github.com/mverdier/tally/internal/domain"
	"github.com/mverdier/tally/internal/service"
	"github.com/spf13/cobra"
)

func newStageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage project stages",
	}

	cmd.AddCommand(
		newStageAddCmd(app),
		newStageListCmd(app),
		newStageUpdateCmd(app),
		newStageMoveCmd(app),
		newStageDeleteCmd(app),
	)

	return cmd
}

func newStageAddCmd(app *App) *cobra.Command {
	var projectID, name, start, end string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a stage to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &domain.Stage{ProjectID: projectID, Name: name}
			if start != "" {
				d, err := parseDate(start)
				if err != nil {
					return err
				}
				s.StartDate = &d
			}
			if end != "" {
				d, err := parseDate(end)
				if err != nil {
					return err
				}
				s.EndDate = &d
			}
			if err := app.Stages.Create(context.Background(), s); err != nil {
				return err
			}
			fmt.Printf("Created stage %s (%s) at position %d\n", s.Name, s.ID, s.OrderIndex)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&name, "name", "", "Stage name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newStageListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's stages in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			stages, err := app.Stages.ListByProject(context.Background(), projectID)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(stages))
			for _, s := range stages {
				done := ""
				if s.Complete {
					done = "yes"
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", s.OrderIndex), s.ID, s.Name,
					formatDate(s.StartDate), formatDate(s.EndDate), done,
				})
			}
			fmt.Print(formatter.RenderTable([]string{"#", "ID", "NAME", "START", "END", "DONE"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newStageUpdateCmd(app *App) *cobra.Command {
	var name, start, end string
	var complete, clearStart, clearEnd bool

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.StagePatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("complete") {
				patch.Complete = &complete
			}
			switch {
			case clearStart:
				patch.ClearStartDate = true
			case cmd.Flags().Changed("start"):
				d, err := parseDate(start)
				if err != nil {
					return err
				}
				patch.StartDate = &d
			}
			switch {
			case clearEnd:
				patch.ClearEndDate = true
			case cmd.Flags().Changed("end"):
				d, err := parseDate(end)
				if err != nil {
					return err
				}
				patch.EndDate = &d
			}
			s, err := app.Stages.Update(context.Background(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Printf("Updated stage %s\n", s.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New stage name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&complete, "complete", false, "Mark the stage complete or not")
	cmd.Flags().BoolVar(&clearStart, "clear-start", false, "Remove the start date")
	cmd.Flags().BoolVar(&clearEnd, "clear-end", false, "Remove the end date")

	return cmd
}

func newStageMoveCmd(app *App) *cobra.Command {
	var before, after string

	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Reorder a stage within its project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if before != "" && after != "" {
				return fmt.Errorf("--before and --after are mutually exclusive")
			}
			req := service.MoveRequest{
				ItemType: domain.ItemStage,
				ItemID:   args[0],
			}
			switch {
			case before != "":
				req.RelativeTo = before
				req.Position = domain.Before
			case after != "":
				req.RelativeTo = after
				req.Position = domain.After
			}
			if err := app.Reorder.Move(context.Background(), req); err != nil {
				return err
			}
			fmt.Printf("Moved stage %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&before, "before", "", "Insert before this stage id")
	cmd.Flags().StringVar(&after, "after", "", "Insert after this stage id")

	return cmd
}

func newStageDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an empty stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Stages.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted stage %s\n", args[0])
			return nil
		},
	}
}
