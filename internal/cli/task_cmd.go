package cli

import (
	"context"
	"fmt"

	"github.com/mverdier/tally/internal/domain"
	"github.com/mverdier/tally/internal/service"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks and subtasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskUpdateCmd(app),
		newTaskRemainingCmd(app),
		newTaskMoveCmd(app),
		newTaskDeleteCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var projectID, name, stageID, parentID, responsible, priority, start, due string
	var soldDays float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task at the end of its sibling group",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &domain.Task{
				ProjectID: projectID,
				Name:      name,
				SoldDays:  soldDays,
				Priority:  domain.PriorityNormal,
				Status:    domain.TaskTodo,
			}
			if stageID != "" {
				t.StageID = &stageID
			}
			if parentID != "" {
				t.ParentTaskID = &parentID
			}
			if responsible != "" {
				t.ResponsibleID = &responsible
			}
			if priority != "" {
				t.Priority = domain.TaskPriority(priority)
			}
			if start != "" {
				d, err := parseDate(start)
				if err != nil {
					return err
				}
				t.StartDate = &d
			}
			if due != "" {
				d, err := parseDate(due)
				if err != nil {
					return err
				}
				t.DueDate = &d
			}
			if err := app.Tasks.Create(context.Background(), t); err != nil {
				return err
			}
			fmt.Printf("Created task %s (%s) at position %d\n", t.Name, t.ID, t.DisplayOrder)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&stageID, "stage", "", "Stage id (top-level tasks only)")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent task id (creates a subtask)")
	cmd.Flags().StringVar(&responsible, "responsible", "", "Responsible user id")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: low, normal, high or urgent")
	cmd.Flags().Float64Var(&soldDays, "sold", 0, "Sold effort in days")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var name, responsible, priority, status, start, due string
	var soldDays float64
	var clearResponsible, clearStart, clearDue bool

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.TaskPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("sold") {
				patch.SoldDays = &soldDays
			}
			if cmd.Flags().Changed("priority") {
				p := domain.TaskPriority(priority)
				patch.Priority = &p
			}
			if cmd.Flags().Changed("status") {
				s := domain.TaskStatus(status)
				patch.Status = &s
			}
			switch {
			case clearResponsible:
				patch.ClearResponsible = true
			case cmd.Flags().Changed("responsible"):
				patch.ResponsibleID = &responsible
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
			case clearDue:
				patch.ClearDueDate = true
			case cmd.Flags().Changed("due"):
				d, err := parseDate(due)
				if err != nil {
					return err
				}
				patch.DueDate = &d
			}
			t, err := app.Tasks.Update(context.Background(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Printf("Updated task %s\n", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New task name")
	cmd.Flags().Float64Var(&soldDays, "sold", 0, "Sold effort in days")
	cmd.Flags().StringVar(&responsible, "responsible", "", "Responsible user id")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: low, normal, high or urgent")
	cmd.Flags().StringVar(&status, "status", "", "Status: todo, in_progress, done or cancelled")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearResponsible, "clear-responsible", false, "Remove the responsible user")
	cmd.Flags().BoolVar(&clearStart, "clear-start", false, "Remove the start date")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")

	return cmd
}

func newTaskRemainingCmd(app *App) *cobra.Command {
	var hours float64
	var clear bool

	cmd := &cobra.Command{
		Use:   "remaining ID",
		Short: "Set or clear a task's remaining-hours estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var h *float64
			if !clear {
				if !cmd.Flags().Changed("hours") {
					return fmt.Errorf("either --hours or --clear is required")
				}
				h = &hours
			}
			t, err := app.Tasks.SetRemainingHours(context.Background(), args[0], h)
			if err != nil {
				return err
			}
			if t.RemainingHours == nil {
				fmt.Printf("Cleared remaining estimate on %s\n", t.ID)
			} else {
				fmt.Printf("Set remaining estimate on %s: %.1fh\n", t.ID, *t.RemainingHours)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", 0, "Remaining effort in hours")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the estimate")

	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var stageID, parentID, before, after string
	var toRoot bool

	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Reorder a task, optionally into another stage, parent or the root list",
		Long: `Reorder a task within its sibling group, or move it into another
container first: --stage places it as a top-level task of that stage,
--parent nests it under another task, --root places it in the project's
unstaged list. Without any of those the task stays where it is.
--before/--after pick the position relative to a sibling; omitting both
appends to the end of the group.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			req := service.MoveRequest{
				ItemType: domain.ItemTask,
				ItemID:   args[0],
			}

			set := 0
			for _, on := range []bool{stageID != "", parentID != "", toRoot} {
				if on {
					set++
				}
			}
			if set > 1 {
				return fmt.Errorf("--stage, --parent and --root are mutually exclusive")
			}

			switch {
			case stageID != "":
				req.StageID = &stageID
			case parentID != "":
				req.ParentTaskID = &parentID
			case toRoot:
				// both destination pointers stay nil
			default:
				// keep the current container
				t, err := app.Tasks.GetByID(ctx, args[0])
				if err != nil {
					return err
				}
				req.StageID = t.StageID
				req.ParentTaskID = t.ParentTaskID
			}

			if before != "" && after != "" {
				return fmt.Errorf("--before and --after are mutually exclusive")
			}
			switch {
			case before != "":
				req.RelativeTo = before
				req.Position = domain.Before
			case after != "":
				req.RelativeTo = after
				req.Position = domain.After
			}

			if err := app.Reorder.Move(ctx, req); err != nil {
				return err
			}
			fmt.Printf("Moved task %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&stageID, "stage", "", "Destination stage id")
	cmd.Flags().StringVar(&parentID, "parent", "", "Destination parent task id")
	cmd.Flags().BoolVar(&toRoot, "root", false, "Move to the project's unstaged root list")
	cmd.Flags().StringVar(&before, "before", "", "Insert before this sibling id")
	cmd.Flags().StringVar(&after, "after", "", "Insert after this sibling id")

	return cmd
}

func newTaskDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task and all of its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tasks.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted task %s\n", args[0])
			return nil
		},
	}
}
