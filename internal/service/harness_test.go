package service

import (
	"context"
	"testing"

	"github.com/mverdier/tally/internal/domain"
	"github.com/mverdier/tally/internal/repository"
	"github.com/mverdier/tally/internal/testutil"
	"github.com/stretchr/testify/require"
)

// harness wires every service against one test database so tests can mix
// operations the same way the CLI does.
type harness struct {
	users      UserService
	projects   ProjectService
	stages     StageService
	tasks      TaskService
	reorder    ReorderService
	timesheets TimesheetService

	userRepo  repository.UserRepo
	taskRepo  repository.TaskRepo
	entryRepo repository.TimesheetRepo
	lockRepo  repository.LockRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	userRepo := repository.NewSQLiteUserRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	stageRepo := repository.NewSQLiteStageRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	entryRepo := repository.NewSQLiteTimesheetRepo(database)
	lockRepo := repository.NewSQLiteLockRepo(database)

	return &harness{
		users:      NewUserService(userRepo, projectRepo),
		projects:   NewProjectService(projectRepo, userRepo, uow),
		stages:     NewStageService(stageRepo, projectRepo, uow),
		tasks:      NewTaskService(taskRepo, stageRepo, projectRepo, entryRepo, uow),
		reorder:    NewReorderService(uow),
		timesheets: NewTimesheetService(entryRepo, lockRepo, uow),

		userRepo:  userRepo,
		taskRepo:  taskRepo,
		entryRepo: entryRepo,
		lockRepo:  lockRepo,
	}
}

// seedProject creates a manager and a project owned by them.
func (h *harness) seedProject(t *testing.T, name string) (*domain.User, *domain.Project) {
	t.Helper()
	ctx := context.Background()
	manager := &domain.User{Name: name + " manager"}
	require.NoError(t, h.users.Create(ctx, manager))
	proj := &domain.Project{Name: name, ManagerID: manager.ID}
	require.NoError(t, h.projects.Create(ctx, proj))
	return manager, proj
}

// mustTask creates a task through the service and fails the test on error.
func (h *harness) mustTask(t *testing.T, task *domain.Task) *domain.Task {
	t.Helper()
	require.NoError(t, h.tasks.Create(context.Background(), task))
	return task
}

// orderOf returns sibling names in display order.
func (h *harness) orderOf(t *testing.T, g domain.SiblingGroup) []string {
	t.Helper()
	siblings, err := h.taskRepo.ListSiblings(context.Background(), g)
	require.NoError(t, err)
	names := make([]string, len(siblings))
	for i, s := range siblings {
		require.Equal(t, i, s.DisplayOrder, "display orders must stay contiguous from 0")
		names[i] = s.Name
	}
	return names
}
