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

type stageService struct {
	stages   repository.StageRepo
	projects repository.ProjectRepo
	uow      db.UnitOfWork
}

func NewStageService(stages repository.StageRepo, projects repository.ProjectRepo, uow db.UnitOfWork) StageService {
	return &stageService{stages: stages, projects: projects, uow: uow}
}

func (s *stageService) Create(ctx context.Context, stage *domain.Stage) error {
	if strings.TrimSpace(stage.Name) == "" {
		return fmt.Errorf("%w: stage name is required", ErrValidation)
	}
	if _, err := s.projects.GetByID(ctx, stage.ProjectID); err != nil {
		return err
	}
	if stage.ID == "" {
		stage.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	stage.CreatedAt = now
	stage.UpdatedAt = now

	// Order assignment and insert share one transaction so two concurrent
	// creates cannot claim the same slot.
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txStages := repository.NewSQLiteStageRepo(tx)
		max, err := txStages.MaxOrder(ctx, stage.ProjectID)
		if err != nil {
			return err
		}
		stage.OrderIndex = max + 1
		return txStages.Create(ctx, stage)
	})
}

func (s *stageService) GetByID(ctx context.Context, id string) (*domain.Stage, error) {
	return s.stages.GetByID(ctx, id)
}

func (s *stageService) ListByProject(ctx context.Context, projectID string) ([]*domain.Stage, error) {
	return s.stages.ListByProject(ctx, projectID)
}

func (s *stageService) Update(ctx context.Context, id string, patch domain.StagePatch) (*domain.Stage, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: stage name cannot be empty", ErrValidation)
	}
	stage, err := s.stages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(stage)
	stage.UpdatedAt = time.Now().UTC()
	if err := s.stages.Update(ctx, stage); err != nil {
		return nil, err
	}
	return stage, nil
}

func (s *stageService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txStages := repository.NewSQLiteStageRepo(tx)
		if _, err := txStages.GetByID(ctx, id); err != nil {
			return err
		}
		count, err := txStages.CountTasks(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: stage still owns %d task(s)", ErrConflict, count)
		}
		return txStages.Delete(ctx, id)
	})
}
