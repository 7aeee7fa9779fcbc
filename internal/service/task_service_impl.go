package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mverdier/tally/internal/db"
	"github.com/mverdier/tally/internal/domain"
	"github.com/mverdier/tally/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	stages   repository.StageRepo
	projects repository.ProjectRepo
	entries  repository.TimesheetRepo
	uow      db.UnitOfWork
}

func NewTaskService(
	tasks repository.TaskRepo,
	stages repository.StageRepo,
	projects repository.ProjectRepo,
	entries repository.TimesheetRepo,
	uow db.UnitOfWork,
) TaskService {
	return &taskService{tasks: tasks, stages: stages, projects: projects, entries: entries, uow: uow}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: task name is required", ErrValidation)
	}
	if t.SoldDays < 0 {
		return fmt.Errorf("%w: sold days cannot be negative", ErrValidation)
	}
	if t.ParentTaskID != nil && t.StageID != nil {
		return fmt.Errorf("%w: a subtask cannot carry its own stage", ErrValidation)
	}
	if _, err := s.projects.GetByID(ctx, t.ProjectID); err != nil {
		return err
	}
	if t.ParentTaskID != nil {
		parent, err := s.tasks.GetByID(ctx, *t.ParentTaskID)
		if err != nil {
			return err
		}
		if parent.ProjectID != t.ProjectID {
			return fmt.Errorf("%w: parent task belongs to another project", ErrValidation)
		}
	}
	if t.StageID != nil {
		stage, err := s.stages.GetByID(ctx, *t.StageID)
		if err != nil {
			return err
		}
		if stage.ProjectID != t.ProjectID {
			return fmt.Errorf("%w: stage belongs to another project", ErrValidation)
		}
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityNormal
	}
	if t.Status == "" {
		t.Status = domain.TaskTodo
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		max, err := txTasks.MaxDisplayOrder(ctx, t.SiblingGroup())
		if err != nil {
			return err
		}
		t.DisplayOrder = max + 1
		return txTasks.Create(ctx, t)
	})
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: task name cannot be empty", ErrValidation)
	}
	if patch.SoldDays != nil && *patch.SoldDays < 0 {
		return nil, fmt.Errorf("%w: sold days cannot be negative", ErrValidation)
	}
	if patch.Status != nil && !domain.ValidTaskStatuses[string(*patch.Status)] {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *patch.Status)
	}
	if patch.Priority != nil && !domain.ValidTaskPriorities[string(*patch.Priority)] {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, *patch.Priority)
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(task)
	task.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) SetRemainingHours(ctx context.Context, id string, hours *float64) (*domain.Task, error) {
	if hours != nil && *hours < 0 {
		return nil, fmt.Errorf("%w: remaining hours cannot be negative", ErrValidation)
	}
	var task *domain.Task
	// The estimate and its ledger snapshot must be written together, so
	// the read of the current total happens in the same transaction.
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txEntries := repository.NewSQLiteTimesheetRepo(tx)

		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if hours == nil {
			t.RemainingHours = nil
			t.LastRemainingTotal = nil
		} else {
			total, err := txEntries.TotalHoursByTask(ctx, id)
			if err != nil {
				return err
			}
			t.RemainingHours = hours
			t.LastRemainingTotal = &total
		}
		t.UpdatedAt = time.Now().UTC()
		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		task, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		group := task.SiblingGroup()
		// Descendants and their entries go with the task via FK cascade.
		if err := txTasks.Delete(ctx, id); err != nil {
			return err
		}
		// Compact the surviving siblings back to 0..n-1.
		return renumberTasks(ctx, txTasks, group)
	})
}

func (s *taskService) EffectiveStage(ctx context.Context, id string) (*domain.Stage, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.tasks.ListByProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Task, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}
	stageID := domain.EffectiveStageID(byID, task)
	if stageID == nil {
		return nil, nil
	}
	return s.stages.GetByID(ctx, *stageID)
}

func (s *taskService) ProjectTree(ctx context.Context, projectID string) (*domain.ProjectTree, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	stages, err := s.stages.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	totals, err := s.entries.TotalsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	roots := domain.BuildForest(tasks)
	byStage := make(map[string][]*domain.TaskNode)
	var unstaged []*domain.TaskNode
	for _, n := range roots {
		if n.Task.StageID != nil {
			byStage[*n.Task.StageID] = append(byStage[*n.Task.StageID], n)
		} else {
			unstaged = append(unstaged, n)
		}
	}

	tree := &domain.ProjectTree{
		Project:     project,
		Unstaged:    unstaged,
		LedgerHours: totals,
	}
	for _, st := range stages {
		tree.Stages = append(tree.Stages, &domain.StageTasks{Stage: st, Tasks: byStage[st.ID]})
	}
	return tree, nil
}

// renumberTasks reassigns a sibling group's display_order values as a
// contiguous 0..n-1 sequence.
func renumberTasks(ctx context.Context, tasks repository.TaskRepo, g domain.SiblingGroup) error {
	siblings, err := tasks.ListSiblings(ctx, g)
	if err != nil {
		return err
	}
	for i, t := range siblings {
		if t.DisplayOrder == i {
			continue
		}
		if err := tasks.SetPlacement(ctx, t.ID, t.StageID, t.ParentTaskID, i); err != nil {
			return err
		}
	}
	return nil
}
