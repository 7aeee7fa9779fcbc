package service

import (
	"context"
	"time"

	"github.com/mverdier/tally/internal/domain"
)

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	// ListViewable returns the users whose timesheets the requesting user
	// may read: everyone for admins, the manager's contributors plus
	// themselves for project managers, only themselves otherwise.
	ListViewable(ctx context.Context, requestingUserID string) ([]*domain.User, error)
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type StageService interface {
	Create(ctx context.Context, s *domain.Stage) error
	GetByID(ctx context.Context, id string) (*domain.Stage, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Stage, error)
	Update(ctx context.Context, id string, patch domain.StagePatch) (*domain.Stage, error)
	// Delete rejects with ErrConflict while any task references the stage.
	Delete(ctx context.Context, id string) error
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	// SetRemainingHours stores a new forward estimate (nil clears it) and
	// snapshots the task's current ledger total alongside it.
	SetRemainingHours(ctx context.Context, id string, hours *float64) (*domain.Task, error)
	// Delete removes the task and every descendant.
	Delete(ctx context.Context, id string) error
	// EffectiveStage resolves the stage governing the task through its
	// parent chain; nil for unstaged top-level tasks.
	EffectiveStage(ctx context.Context, id string) (*domain.Stage, error)
	// ProjectTree loads the full work breakdown of a project with per-task
	// ledger totals.
	ProjectTree(ctx context.Context, projectID string) (*domain.ProjectTree, error)
}

// MoveRequest describes one reorder intent. For tasks the destination
// sibling group is a stage (StageID), a parent task (ParentTaskID), or the
// project's unstaged root list (neither); at most one may be set. The item
// is inserted before or after the RelativeTo sibling; an empty RelativeTo
// appends to the end of the group.
type MoveRequest struct {
	ItemType     domain.ItemType
	ItemID       string
	StageID      *string
	ParentTaskID *string
	RelativeTo   string
	Position     domain.Position
}

type ReorderService interface {
	// Move applies one reorder intent in a single transaction, leaving
	// every affected sibling group numbered 0..n-1.
	Move(ctx context.Context, req MoveRequest) error
}

// UpsertEntryRequest is one timesheet-cell write. Zero hours deletes the
// cell instead of storing a zero row.
type UpsertEntryRequest struct {
	UserID      string
	TaskID      string
	Date        time.Time
	Hours       float64
	Description string
	EnteredBy   string
}

type TimesheetService interface {
	// UpsertEntry writes one cell; returns the stored entry, or nil when
	// zero hours removed it.
	UpsertEntry(ctx context.Context, req UpsertEntryRequest) (*domain.TimesheetEntry, error)
	DeleteEntry(ctx context.Context, entryID, requestingUserID string) error
	MonthGrid(ctx context.Context, userID string, year, month int) ([]*domain.TimesheetEntry, error)
	SetLock(ctx context.Context, projectID *string, year, month int, lockedBy string) (*domain.TimesheetLock, error)
	ClearLock(ctx context.Context, projectID *string, year, month int, requestedBy string) error
	ListLocks(ctx context.Context) ([]*domain.TimesheetLock, error)
}
