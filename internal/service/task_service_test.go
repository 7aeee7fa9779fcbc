package service

import (
	"context"
	"testing"

	"github.com/mverdier/tally/internal/domain"
	"github.com/mverdier/tally/internal/repository"
	"github.com/mverdier/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_Create_AppendsToSiblingGroup(t *testing.T) {
	h := newHarness(t)
	_, proj := h.seedProject(t, "Alpha")

	a := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "A"})
	b := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "B"})
	assert.Equal(t, 0, a.DisplayOrder)
	assert.Equal(t, 1, b.DisplayOrder)

	// A new subtask list starts its own numbering.
	child := h.mustTask(t, &domain.Task{ProjectID: proj.ID, ParentTaskID: &a.ID, Name: "A.1"})
	assert.Equal(t, 0, child.DisplayOrder)
}

func TestTaskService_Create_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, proj := h.seedProject(t, "Alpha")
	stage := &domain.Stage{ProjectID: proj.ID, Name: "Design"}
	require.NoError(t, h.stages.Create(ctx, stage))
	parent := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "Parent"})

	err := h.tasks.Create(ctx, &domain.Task{ProjectID: proj.ID, Name: ""})
	require.ErrorIs(t, err, ErrValidation)

	err = h.tasks.Create(ctx, &domain.Task{ProjectID: proj.ID, Name: "Negative", SoldDays: -1})
	require.ErrorIs(t, err, ErrValidation)

	// A subtask inherits its stage through the parent chain and must not
	// carry one of its own.
	err = h.tasks.Create(ctx, &domain.Task{
		ProjectID: proj.ID, Name: "Bad", StageID: &stage.ID, ParentTaskID: &parent.ID,
	})
	require.ErrorIs(t, err, ErrValidation)

	// Cross-project parents and stages are rejected.
	_, other := h.seedProject(t, "Beta")
	err = h.tasks.Create(ctx, &domain.Task{ProjectID: other.ID, Name: "Stray", ParentTaskID: &parent.ID})
	require.ErrorIs(t, err, ErrValidation)
	err = h.tasks.Create(ctx, &domain.Task{ProjectID: other.ID, Name: "Stray", StageID: &stage.ID})
	require.ErrorIs(t, err, ErrValidation)
}

func TestTaskService_Update_InvalidEnumsRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, proj := h.seedProject(t, "Alpha")
	task := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "Work"})

	bad := domain.TaskStatus("paused")
	_, err := h.tasks.Update(ctx, task.ID, domain.TaskPatch{Status: &bad})
	require.ErrorIs(t, err, ErrValidation)

	worse := domain.TaskPriority("asap")
	_, err = h.tasks.Update(ctx, task.ID, domain.TaskPatch{Priority: &worse})
	require.ErrorIs(t, err, ErrValidation)

	done := domain.TaskDone
	got, err := h.tasks.Update(ctx, task.ID, domain.TaskPatch{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, got.Status)
}

func TestTaskService_Delete_RenumbersSurvivors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, proj := h.seedProject(t, "Alpha")

	h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "A"})
	b := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "B"})
	h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "C"})

	require.NoError(t, h.tasks.Delete(ctx, b.ID))

	names := h.orderOf(t, domain.SiblingGroup{ProjectID: proj.ID})
	assert.Equal(t, []string{"A", "C"}, names)
}

func TestTaskService_Delete_RemovesSubtree(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, proj := h.seedProject(t, "Alpha")

	parent := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "Parent"})
	child := h.mustTask(t, &domain.Task{ProjectID: proj.ID, ParentTaskID: &parent.ID, Name: "Child"})
	grand := h.mustTask(t, &domain.Task{ProjectID: proj.ID, ParentTaskID: &child.ID, Name: "Grand"})

	require.NoError(t, h.tasks.Delete(ctx, parent.ID))

	for _, id := range []string{parent.ID, child.ID, grand.ID} {
		_, err := h.tasks.GetByID(ctx, id)
		require.ErrorIs(t, err, repository.ErrNotFound)
	}
}

func TestTaskService_SetRemainingHours_SnapshotsLedger(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	manager, proj := h.seedProject(t, "Alpha")
	task := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "Work"})

	_, err := h.timesheets.UpsertEntry(ctx, UpsertEntryRequest{
		UserID: manager.ID, TaskID: task.ID, Date: testutil.Day(2026, 6, 1), Hours: 5, EnteredBy: manager.ID,
	})
	require.NoError(t, err)

	hours := 12.0
	got, err := h.tasks.SetRemainingHours(ctx, task.ID, &hours)
	require.NoError(t, err)
	require.NotNil(t, got.RemainingHours)
	assert.Equal(t, 12.0, *got.RemainingHours)
	require.NotNil(t, got.LastRemainingTotal)
	assert.Equal(t, 5.0, *got.LastRemainingTotal, "snapshot captures the ledger total at set time")

	// Clearing drops both the estimate and the snapshot.
	got, err = h.tasks.SetRemainingHours(ctx, task.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, got.RemainingHours)
	assert.Nil(t, got.LastRemainingTotal)

	negative := -1.0
	_, err = h.tasks.SetRemainingHours(ctx, task.ID, &negative)
	require.ErrorIs(t, err, ErrValidation)
}

func TestTaskService_EffectiveStage_WalksParentChain(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, proj := h.seedProject(t, "Alpha")
	stage := &domain.Stage{ProjectID: proj.ID, Name: "Design"}
	require.NoError(t, h.stages.Create(ctx, stage))

	top := h.mustTask(t, &domain.Task{ProjectID: proj.ID, StageID: &stage.ID, Name: "Top"})
	mid := h.mustTask(t, &domain.Task{ProjectID: proj.ID, ParentTaskID: &top.ID, Name: "Mid"})
	leaf := h.mustTask(t, &domain.Task{ProjectID: proj.ID, ParentTaskID: &mid.ID, Name: "Leaf"})

	got, err := h.tasks.EffectiveStage(ctx, leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, stage.ID, got.ID)

	loose := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "Loose"})
	got, err = h.tasks.EffectiveStage(ctx, loose.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "unstaged top-level tasks have no effective stage")
}

func TestTaskService_ProjectTree(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	manager, proj := h.seedProject(t, "Alpha")

	stage := &domain.Stage{ProjectID: proj.ID, Name: "Design"}
	require.NoError(t, h.stages.Create(ctx, stage))
	staged := h.mustTask(t, &domain.Task{ProjectID: proj.ID, StageID: &stage.ID, Name: "Staged"})
	sub := h.mustTask(t, &domain.Task{ProjectID: proj.ID, ParentTaskID: &staged.ID, Name: "Sub"})
	h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "Loose"})

	_, err := h.timesheets.UpsertEntry(ctx, UpsertEntryRequest{
		UserID: manager.ID, TaskID: sub.ID, Date: testutil.Day(2026, 6, 1), Hours: 3, EnteredBy: manager.ID,
	})
	require.NoError(t, err)

	tree, err := h.tasks.ProjectTree(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, tree.Project.ID)
	require.Len(t, tree.Stages, 1)
	require.Len(t, tree.Stages[0].Tasks, 1)
	assert.Equal(t, "Staged", tree.Stages[0].Tasks[0].Task.Name)
	require.Len(t, tree.Stages[0].Tasks[0].Subtasks, 1)
	assert.Equal(t, "Sub", tree.Stages[0].Tasks[0].Subtasks[0].Task.Name)
	require.Len(t, tree.Unstaged, 1)
	assert.Equal(t, "Loose", tree.Unstaged[0].Task.Name)
	assert.Equal(t, 3.0, tree.LedgerHours[sub.ID])
}
