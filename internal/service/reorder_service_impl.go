package service

import (
	"context"
	"fmt"

	"github.com/mverdier/tally/internal/db"
	"github.com/mverdier/tally/internal/domain"
	"github.com/mverdier/tally/internal/repository"
)

type reorderService struct {
	uow db.UnitOfWork
}

func NewReorderService(uow db.UnitOfWork) ReorderService {
	return &reorderService{uow: uow}
}

func (s *reorderService) Move(ctx context.Context, req MoveRequest) error {
	if req.RelativeTo != "" && req.Position != domain.Before && req.Position != domain.After {
		return fmt.Errorf("%w: position must be %q or %q", ErrValidation, domain.Before, domain.After)
	}
	switch req.ItemType {
	case domain.ItemStage:
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return s.moveStage(ctx, repository.NewSQLiteStageRepo(tx), req)
		})
	case domain.ItemTask:
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return s.moveTask(ctx, repository.NewSQLiteTaskRepo(tx), repository.NewSQLiteStageRepo(tx), req)
		})
	default:
		return fmt.Errorf("%w: unknown item type %q", ErrValidation, req.ItemType)
	}
}

// moveStage reorders within the single project-wide stage list; stages
// have no reparenting dimension.
func (s *reorderService) moveStage(ctx context.Context, stages repository.StageRepo, req MoveRequest) error {
	if req.StageID != nil || req.ParentTaskID != nil {
		return fmt.Errorf("%w: stages cannot change container", ErrValidation)
	}
	stage, err := stages.GetByID(ctx, req.ItemID)
	if err != nil {
		return err
	}
	ordered, err := stages.ListByProject(ctx, stage.ProjectID)
	if err != nil {
		return err
	}

	remaining := make([]*domain.Stage, 0, len(ordered))
	for _, st := range ordered {
		if st.ID != stage.ID {
			remaining = append(remaining, st)
		}
	}
	idx, err := insertionIndex(len(remaining), req, func(i int) string { return remaining[i].ID })
	if err != nil {
		return err
	}
	reordered := append(remaining[:idx:idx], append([]*domain.Stage{stage}, remaining[idx:]...)...)

	for i, st := range reordered {
		if st.OrderIndex == i {
			continue
		}
		st.OrderIndex = i
		if err := stages.Update(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s *reorderService) moveTask(ctx context.Context, tasks repository.TaskRepo, stages repository.StageRepo, req MoveRequest) error {
	if req.StageID != nil && req.ParentTaskID != nil {
		return fmt.Errorf("%w: destination is a stage or a parent task, not both", ErrValidation)
	}
	task, err := tasks.GetByID(ctx, req.ItemID)
	if err != nil {
		return err
	}

	dest := domain.SiblingGroup{
		ProjectID:    task.ProjectID,
		StageID:      req.StageID,
		ParentTaskID: req.ParentTaskID,
	}
	if req.StageID != nil {
		stage, err := stages.GetByID(ctx, *req.StageID)
		if err != nil {
			return err
		}
		if stage.ProjectID != task.ProjectID {
			return fmt.Errorf("%w: destination stage belongs to another project", ErrValidation)
		}
	}

	// Cycle check runs before any mutation: the destination must not be
	// the moved task or one of its descendants.
	if req.ParentTaskID != nil {
		if err := s.checkNoCycle(ctx, tasks, task, *req.ParentTaskID); err != nil {
			return err
		}
	}

	source := task.SiblingGroup()
	sameGroup := equalGroup(source, dest)

	destSiblings, err := tasks.ListSiblings(ctx, dest)
	if err != nil {
		return err
	}
	remaining := make([]*domain.Task, 0, len(destSiblings))
	for _, t := range destSiblings {
		if t.ID != task.ID {
			remaining = append(remaining, t)
		}
	}
	idx, err := insertionIndex(len(remaining), req, func(i int) string { return remaining[i].ID })
	if err != nil {
		return err
	}
	reordered := append(remaining[:idx:idx], append([]*domain.Task{task}, remaining[idx:]...)...)

	for i, t := range reordered {
		if err := tasks.SetPlacement(ctx, t.ID, dest.StageID, dest.ParentTaskID, i); err != nil {
			return err
		}
	}
	if !sameGroup {
		// Compact the group the task left.
		return renumberTasks(ctx, tasks, source)
	}
	return nil
}

// checkNoCycle walks the destination's parent chain; hitting the moved
// task means the move would nest it under its own subtree.
func (s *reorderService) checkNoCycle(ctx context.Context, tasks repository.TaskRepo, moved *domain.Task, destParentID string) error {
	if destParentID == moved.ID {
		return fmt.Errorf("%w: task cannot become its own subtask", ErrInvalidMove)
	}
	parent, err := tasks.GetByID(ctx, destParentID)
	if err != nil {
		return err
	}
	if parent.ProjectID != moved.ProjectID {
		return fmt.Errorf("%w: destination parent belongs to another project", ErrValidation)
	}
	for cur := parent; cur.ParentTaskID != nil; {
		if *cur.ParentTaskID == moved.ID {
			return fmt.Errorf("%w: destination is a descendant of the moved task", ErrInvalidMove)
		}
		cur, err = tasks.GetByID(ctx, *cur.ParentTaskID)
		if err != nil {
			return err
		}
	}
	return nil
}

// insertionIndex computes where the moved item lands in the destination
// list (which no longer contains the item itself). An empty RelativeTo
// appends.
func insertionIndex(n int, req MoveRequest, idAt func(int) string) (int, error) {
	if req.RelativeTo == "" {
		return n, nil
	}
	for i := 0; i < n; i++ {
		if idAt(i) == req.RelativeTo {
			if req.Position == domain.After {
				return i + 1, nil
			}
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: reference sibling %s is not in the destination group", ErrValidation, req.RelativeTo)
}

func equalGroup(a, b domain.SiblingGroup) bool {
	return a.ProjectID == b.ProjectID &&
		equalPtr(a.StageID, b.StageID) &&
		equalPtr(a.ParentTaskID, b.ParentTaskID)
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
