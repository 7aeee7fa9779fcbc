package repository

import (
	"context"
	"time"

	"github.com/mverdier/tally/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	// ListContributors returns the users holding timesheet entries on tasks
	// of projects managed by the given user.
	ListContributors(ctx context.Context, managerID string) ([]*domain.User, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type StageRepo interface {
	Create(ctx context.Context, s *domain.Stage) error
	GetByID(ctx context.Context, id string) (*domain.Stage, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Stage, error)
	Update(ctx context.Context, s *domain.Stage) error
	Delete(ctx context.Context, id string) error
	// CountTasks reports how many tasks still reference the stage.
	CountTasks(ctx context.Context, stageID string) (int, error)
	// MaxOrder returns the highest order_index in the project's stage
	// list, or -1 when the project has no stages.
	MaxOrder(ctx context.Context, projectID string) (int, error)
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	// ListSiblings returns the ordered sibling list for a group.
	ListSiblings(ctx context.Context, g domain.SiblingGroup) ([]*domain.Task, error)
	ListChildren(ctx context.Context, parentTaskID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	// SetPlacement rewrites only the tree position of a task: its sibling
	// group and display order.
	SetPlacement(ctx context.Context, id string, stageID, parentTaskID *string, displayOrder int) error
	Delete(ctx context.Context, id string) error
	// DeleteByProject removes every task of a project. Used ahead of a
	// project delete so stage rows are no longer referenced.
	DeleteByProject(ctx context.Context, projectID string) error
	// MaxDisplayOrder returns the highest display_order among a sibling
	// group, or -1 when the group is empty.
	MaxDisplayOrder(ctx context.Context, g domain.SiblingGroup) (int, error)
}

type TimesheetRepo interface {
	Create(ctx context.Context, e *domain.TimesheetEntry) error
	GetByID(ctx context.Context, id string) (*domain.TimesheetEntry, error)
	// GetCell returns the unique entry for (user, task, day), or ErrNotFound.
	GetCell(ctx context.Context, userID, taskID string, date time.Time) (*domain.TimesheetEntry, error)
	ListByUserMonth(ctx context.Context, userID string, year, month int) ([]*domain.TimesheetEntry, error)
	Update(ctx context.Context, e *domain.TimesheetEntry) error
	Delete(ctx context.Context, id string) error
	// TotalHoursByTask returns the ledger total for one task's own entries.
	TotalHoursByTask(ctx context.Context, taskID string) (float64, error)
	// TotalsByProject returns per-task ledger totals for every task of a
	// project; tasks without entries are absent from the map.
	TotalsByProject(ctx context.Context, projectID string) (map[string]float64, error)
}

type LockRepo interface {
	Create(ctx context.Context, l *domain.TimesheetLock) error
	// Get returns the lock for exactly (projectID|global, year, month).
	Get(ctx context.Context, projectID *string, year, month int) (*domain.TimesheetLock, error)
	// FindCovering returns the project-scoped or global lock governing
	// entries of the given project and month, or ErrNotFound.
	FindCovering(ctx context.Context, projectID string, year, month int) (*domain.TimesheetLock, error)
	List(ctx context.Context) ([]*domain.TimesheetLock, error)
	Delete(ctx context.Context, projectID *string, year, month int) error
}
