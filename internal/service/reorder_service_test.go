package service

import (
	"context"
	"testing"

	"github.com/mverdier/tally/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorder_MoveTask_WithinGroup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, proj := h.seedProject(t, "Alpha")

	a := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "A"})
	b := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "B"})
	c := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "C"})

	// C before A: C A B.
	require.NoError(t, h.reorder.Move(ctx, MoveRequest{
		ItemType: domain.ItemTask, ItemID: c.ID,
		RelativeTo: a.ID, Position: domain.Before,
	}))
	assert.Equal(t, []string{"C", "A", "B"}, h.orderOf(t, domain.SiblingGroup{ProjectID: proj.ID}))

	// A after B: C B A.
	require.NoError(t, h.reorder.Move(ctx, MoveRequest{
		ItemType: domain.ItemTask, ItemID: a.ID,
		RelativeTo: b.ID, Position: domain.After,
	}))
	assert.Equal(t, []string{"C", "B", "A"}, h.orderOf(t, domain.SiblingGroup{ProjectID: proj.ID}))
}

func TestReorder_MoveTask_WithinGroup_ByID(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, proj := h.seedProject(t, "Alpha")

	a := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "A"})
	b := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "B"})
	c := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "C"})

	require.NoError(t, h.reorder.Move(ctx, MoveRequest{
		ItemType: domain.ItemTask, ItemID: a.ID,
		RelativeTo: c.ID, Position: domain.After,
	}))
	assert.Equal(t, []string{"B", "C", "A"}, h.orderOf(t, domain.SiblingGroup{ProjectID: proj.ID}))

	// Appending without a reference sibling puts the task last.
	require.NoError(t, h.reorder.Move(ctx, MoveRequest{
		ItemType: domain.ItemTask, ItemID: b.ID,
	}))
	assert.Equal(t, []string{"C", "A", "B"}, h.orderOf(t, domain.SiblingGroup{ProjectID: proj.ID}))
}

func TestReorder_MoveTask_CrossGroup_RenumbersBoth(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, proj := h.seedProject(t, "Alpha")

	stage := &domain.Stage{ProjectID: proj.ID, Name: "Design"}
	require.NoError(t, h.stages.Create(ctx, stage))

	s1 := h.mustTask(t, &domain.Task{ProjectID: proj.ID, StageID: &stage.ID, Name: "S1"})
	h.mustTask(t, &domain.Task{ProjectID: proj.ID, StageID: &stage.ID, Name: "S2"})
	h.mustTask(t, &domain.Task{ProjectID: proj.ID, StageID: &stage.ID, Name: "S3"})
	r1 := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "R1"})

	// Move S1 into the root list before R1.
	require.NoError(t, h.reorder.Move(ctx, MoveRequest{
		ItemType: domain.ItemTask, ItemID: s1.ID,
		RelativeTo: r1.ID, Position: domain.Before,
	}))

	stageGroup := domain.SiblingGroup{ProjectID: proj.ID, StageID: &stage.ID}
	rootGroup := domain.SiblingGroup{ProjectID: proj.ID}
	assert.Equal(t, []string{"S2", "S3"}, h.orderOf(t, stageGroup))
	assert.Equal(t, []string{"S1", "R1"}, h.orderOf(t, rootGroup))

	moved, err := h.tasks.GetByID(ctx, s1.ID)
	require.NoError(t, err)
	assert.Nil(t, moved.StageID)
	assert.Nil(t, moved.ParentTaskID)
}

func TestReorder_MoveTask_IntoParent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, proj := h.seedProject(t, "Alpha")

	parent := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "Parent"})
	h.mustTask(t, &domain.Task{ProjectID: proj.ID, ParentTaskID: &parent.ID, Name: "Existing"})
	loose := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "Loose"})

	require.NoError(t, h.reorder.Move(ctx, MoveRequest{
		ItemType: domain.ItemTask, ItemID: loose.ID,
		ParentTaskID: &parent.ID,
	}))

	childGroup := domain.SiblingGroup{ProjectID: proj.ID, ParentTaskID: &parent.ID}
	assert.Equal(t, []string{"Existing", "Loose"}, h.orderOf(t, childGroup))
	assert.Equal(t, []string{"Parent"}, h.orderOf(t, domain.SiblingGroup{ProjectID: proj.ID}))
}

func TestReorder_MoveTask_CyclePrevented(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, proj := h.seedProject(t, "Alpha")

	parent := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "Parent"})
	child := h.mustTask(t, &domain.Task{ProjectID: proj.ID, ParentTaskID: &parent.ID, Name: "Child"})
	grand := h.mustTask(t, &domain.Task{ProjectID: proj.ID, ParentTaskID: &child.ID, Name: "Grand"})

	// Directly under itself.
	err := h.reorder.Move(ctx, MoveRequest{
		ItemType: domain.ItemTask, ItemID: parent.ID, ParentTaskID: &parent.ID,
	})
	require.ErrorIs(t, err, ErrInvalidMove)

	// Under its own grandchild.
	err = h.reorder.Move(ctx, MoveRequest{
		ItemType: domain.ItemTask, ItemID: parent.ID, ParentTaskID: &grand.ID,
	})
	require.ErrorIs(t, err, ErrInvalidMove)

	// The rejected move must leave the tree untouched.
	got, err := h.tasks.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentTaskID)
	assert.Equal(t, 0, got.DisplayOrder)
	assert.Equal(t, []string{"Child"}, h.orderOf(t, domain.SiblingGroup{ProjectID: proj.ID, ParentTaskID: &parent.ID}))
}

func TestReorder_MoveTask_MissingReferenceSibling(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, proj := h.seedProject(t, "Alpha")

	a := h.mustTask(t, &domain.Task{ProjectID: proj.ID, Name: "A"})
	stage := &domain.Stage{ProjectID: proj.ID, Name: "Design"}
	require.NoError(t, h.stages.Create(ctx, stage))
	staged := h.mustTask(t, &domain.Task{ProjectID: proj.ID, StageID: &stage.ID, Name: "Staged"})

	// The reference sibling lives in another group.
	err := h.reorder.Move(ctx, MoveRequest{
		ItemType: domain.ItemTask, ItemID: a.ID,
		RelativeTo: staged.ID, Position: domain.Before,
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestReorder_MoveStage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, proj := h.seedProject(t, "Alpha")

	design := &domain.Stage{ProjectID: proj.ID, Name: "Design"}
	build := &domain.Stage{ProjectID: proj.ID, Name: "Build"}
	ship := &domain.Stage{ProjectID: proj.ID, Name: "Ship"}
	for _, st := range []*domain.Stage{design, build, ship} {
		require.NoError(t, h.stages.Create(ctx, st))
	}

	require.NoError(t, h.reorder.Move(ctx, MoveRequest{
		ItemType: domain.ItemStage, ItemID: ship.ID,
		RelativeTo: design.ID, Position: domain.Before,
	}))

	stages, err := h.stages.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	names := make([]string, len(stages))
	for i, st := range stages {
		require.Equal(t, i, st.OrderIndex)
		names[i] = st.Name
	}
	assert.Equal(t, []string{"Ship", "Design", "Build"}, names)

	// Stages never change container.
	err = h.reorder.Move(ctx, MoveRequest{
		ItemType: domain.ItemStage, ItemID: ship.ID, StageID: &design.ID,
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestReorder_UnknownItemType(t *testing.T) {
	h := newHarness(t)
	err := h.reorder.Move(context.Background(), MoveRequest{ItemType: "widget", ItemID: "x"})
	require.ErrorIs(t, err, ErrValidation)
}
