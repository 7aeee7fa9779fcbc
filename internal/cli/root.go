package cli

import (
	"github.com/mverdier/tally/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Users      service.UserService
	Projects   service.ProjectService
	Stages     service.StageService
	Tasks      service.TaskService
	Reorder    service.ReorderService
	Timesheets service.TimesheetService
}

// NewRootCmd creates the top-level "tally" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tally",
		Short: "Project work breakdown and timesheet tracker",
	}

	root.AddCommand(
		newUserCmd(app),
		newProjectCmd(app),
		newStageCmd(app),
		newTaskCmd(app),
		newTreeCmd(app),
		newSheetCmd(app),
		newLockCmd(app),
	)

	return root
}
