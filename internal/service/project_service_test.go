package service

import (
	"context"
	"testing"

	"github.com/mverdier/tally/internal/domain"
	"github.com/mverdier/tally/internal/repository"
	"github.com/mverdier/tally/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	manager := &domain.User{Name: "Manager"}
	require.NoError(t, h.users.Create(ctx, manager))

	require.ErrorIs(t, h.projects.Create(ctx, &domain.Project{Name: " ", ManagerID: manager.ID}), ErrValidation)
	require.ErrorIs(t, h.projects.Create(ctx, &domain.Project{Name: "X", ManagerID: "missing"}), repository.ErrNotFound)
	require.NoError(t, h.projects.Create(ctx, &domain.Project{Name: "X", ManagerID: manager.ID}))
}

func TestProjectService_Delete_RemovesEverything(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	manager, proj := h.seedProject(t, "Alpha")

	stage := &domain.Stage{ProjectID: proj.ID, Name: "Design"}
	require.NoError(t, h.stages.Create(ctx, stage))
	task := h.mustTask(t, &domain.Task{ProjectID: proj.ID, StageID: &stage.ID, Name: "Work"})
	sub := h.mustTask(t, &domain.Task{ProjectID: proj.ID, ParentTaskID: &task.ID, Name: "Subwork"})

	entry, err := h.timesheets.UpsertEntry(ctx, UpsertEntryRequest{
		UserID: manager.ID, TaskID: sub.ID,
		Date: testutil.Day(2026, 6, 1), Hours: 4, EnteredBy: manager.ID,
	})
	require.NoError(t, err)

	require.NoError(t, h.projects.Delete(ctx, proj.ID))

	_, err = h.projects.GetByID(ctx, proj.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = h.stages.GetByID(ctx, stage.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	for _, id := range []string{task.ID, sub.ID} {
		_, err = h.tasks.GetByID(ctx, id)
		require.ErrorIs(t, err, repository.ErrNotFound)
	}
	_, err = h.entryRepo.GetByID(ctx, entry.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectService_Delete_NotFound(t *testing.T) {
	h := newHarness(t)
	require.ErrorIs(t, h.projects.Delete(context.Background(), "missing"), repository.ErrNotFound)
}
