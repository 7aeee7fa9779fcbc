package repository

import (
	"context"
	"testing"

	"github.com/mverdier/tally/internal/domain"
	"github.com/mverdier/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStageRepo(t *testing.T) (*SQLiteStageRepo, *domain.Project, *SQLiteTaskRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	manager := testutil.NewTestUser("Manager")
	require.NoError(t, NewSQLiteUserRepo(database).Create(ctx, manager))
	proj := testutil.NewTestProject("Host", manager.ID)
	require.NoError(t, NewSQLiteProjectRepo(database).Create(ctx, proj))

	return NewSQLiteStageRepo(database), proj, NewSQLiteTaskRepo(database)
}

func TestStageRepo_CreateAndGetByID(t *testing.T) {
	repo, proj, _ := setupStageRepo(t)
	ctx := context.Background()

	start := testutil.Day(2026, 3, 1)
	end := testutil.Day(2026, 3, 31)
	stage := testutil.NewTestStage(proj.ID, "Design",
		testutil.WithOrderIndex(2),
		testutil.WithStageDates(start, end),
	)
	require.NoError(t, repo.Create(ctx, stage))

	got, err := repo.GetByID(ctx, stage.ID)
	require.NoError(t, err)
	assert.Equal(t, stage.ID, got.ID)
	assert.Equal(t, proj.ID, got.ProjectID)
	assert.Equal(t, "Design", got.Name)
	assert.Equal(t, 2, got.OrderIndex)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, start, *got.StartDate)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, end, *got.EndDate)
	assert.False(t, got.Complete)
}

func TestStageRepo_GetByID_NotFound(t *testing.T) {
	repo, _, _ := setupStageRepo(t)
	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStageRepo_ListByProject_Ordered(t *testing.T) {
	repo, proj, _ := setupStageRepo(t)
	ctx := context.Background()

	second := testutil.NewTestStage(proj.ID, "Build", testutil.WithOrderIndex(1))
	first := testutil.NewTestStage(proj.ID, "Design", testutil.WithOrderIndex(0))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))

	stages, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, "Design", stages[0].Name)
	assert.Equal(t, "Build", stages[1].Name)
}

func TestStageRepo_Update(t *testing.T) {
	repo, proj, _ := setupStageRepo(t)
	ctx := context.Background()

	stage := testutil.NewTestStage(proj.ID, "Design")
	require.NoError(t, repo.Create(ctx, stage))

	stage.Name = "Discovery"
	stage.Complete = true
	end := testutil.Day(2026, 4, 15)
	stage.EndDate = &end
	require.NoError(t, repo.Update(ctx, stage))

	got, err := repo.GetByID(ctx, stage.ID)
	require.NoError(t, err)
	assert.Equal(t, "Discovery", got.Name)
	assert.True(t, got.Complete)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, end, *got.EndDate)
	assert.Nil(t, got.StartDate)
}

func TestStageRepo_MaxOrder(t *testing.T) {
	repo, proj, _ := setupStageRepo(t)
	ctx := context.Background()

	max, err := repo.MaxOrder(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, max, "empty project has no stage order")

	require.NoError(t, repo.Create(ctx, testutil.NewTestStage(proj.ID, "A", testutil.WithOrderIndex(0))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestStage(proj.ID, "B", testutil.WithOrderIndex(3))))

	max, err = repo.MaxOrder(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, max)
}

func TestStageRepo_CountTasks(t *testing.T) {
	repo, proj, taskRepo := setupStageRepo(t)
	ctx := context.Background()

	stage := testutil.NewTestStage(proj.ID, "Design")
	require.NoError(t, repo.Create(ctx, stage))

	n, err := repo.CountTasks(ctx, stage.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(proj.ID, "T1", testutil.InStage(stage.ID))))
	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(proj.ID, "T2", testutil.InStage(stage.ID))))
	// Unstaged tasks do not count against the stage.
	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(proj.ID, "Loose")))

	n, err = repo.CountTasks(ctx, stage.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStageRepo_Delete(t *testing.T) {
	repo, proj, _ := setupStageRepo(t)
	ctx := context.Background()

	stage := testutil.NewTestStage(proj.ID, "Doomed")
	require.NoError(t, repo.Create(ctx, stage))
	require.NoError(t, repo.Delete(ctx, stage.ID))

	_, err := repo.GetByID(ctx, stage.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
