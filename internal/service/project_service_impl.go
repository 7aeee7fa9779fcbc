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

type projectService struct {
	projects repository.ProjectRepo
	users    repository.UserRepo
	uow      db.UnitOfWork
}

func NewProjectService(projects repository.ProjectRepo, users repository.UserRepo, uow db.UnitOfWork) ProjectService {
	return &projectService{projects: projects, users: users, uow: uow}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: project name is required", ErrValidation)
	}
	if _, err := s.users.GetByID(ctx, p.ManagerID); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: project name is required", ErrValidation)
	}
	if _, err := s.users.GetByID(ctx, p.ManagerID); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		if _, err := txProjects.GetByID(ctx, id); err != nil {
			return err
		}
		// Tasks go first so stage rows are unreferenced when the project
		// delete cascades into stages; entries cascade with their tasks.
		if err := txTasks.DeleteByProject(ctx, id); err != nil {
			return err
		}
		return txProjects.Delete(ctx, id)
	})
}
