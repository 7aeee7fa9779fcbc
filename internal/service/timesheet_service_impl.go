package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mverdier/tally/internal/db"
	"github.com/mverdier/tally/internal/domain"
	"github.com/mverdier/tally/internal/repository"
	"github.com/google/uuid"
)

type timesheetService struct {
	entries repository.TimesheetRepo
	locks   repository.LockRepo
	uow     db.UnitOfWork
}

func NewTimesheetService(entries repository.TimesheetRepo, locks repository.LockRepo, uow db.UnitOfWork) TimesheetService {
	return &timesheetService{entries: entries, locks: locks, uow: uow}
}

func (s *timesheetService) UpsertEntry(ctx context.Context, req UpsertEntryRequest) (*domain.TimesheetEntry, error) {
	if req.Hours < 0 || req.Hours > domain.MaxDailyHours {
		return nil, fmt.Errorf("%w: hours must be within [0, %v]", ErrValidation, domain.MaxDailyHours)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: entry date is required", ErrValidation)
	}

	var stored *domain.TimesheetEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txEntries := repository.NewSQLiteTimesheetRepo(tx)
		txLocks := repository.NewSQLiteLockRepo(tx)

		task, err := txTasks.GetByID(ctx, req.TaskID)
		if err != nil {
			return err
		}
		if err := authorizeEntryEdit(ctx, tx, req.EnteredBy, req.UserID, task.ProjectID); err != nil {
			return err
		}
		if err := checkUnlocked(ctx, txLocks, task.ProjectID, req.Date); err != nil {
			return err
		}

		existing, err := txEntries.GetCell(ctx, req.UserID, req.TaskID, req.Date)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		now := time.Now().UTC()
		if req.Hours == 0 {
			// Zero hours means "clear the cell": delete instead of
			// storing a zero row.
			if existing != nil {
				return txEntries.Delete(ctx, existing.ID)
			}
			return nil
		}
		if existing != nil {
			existing.Hours = req.Hours
			existing.Description = req.Description
			existing.EnteredBy = req.EnteredBy
			existing.UpdatedAt = now
			if err := txEntries.Update(ctx, existing); err != nil {
				return err
			}
			stored = existing
			return nil
		}
		entry := &domain.TimesheetEntry{
			ID:          uuid.New().String(),
			UserID:      req.UserID,
			TaskID:      req.TaskID,
			Date:        req.Date,
			Hours:       req.Hours,
			Description: req.Description,
			EnteredBy:   req.EnteredBy,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := txEntries.Create(ctx, entry); err != nil {
			return err
		}
		stored = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *timesheetService) DeleteEntry(ctx context.Context, entryID, requestingUserID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txEntries := repository.NewSQLiteTimesheetRepo(tx)
		txLocks := repository.NewSQLiteLockRepo(tx)

		entry, err := txEntries.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		task, err := txTasks.GetByID(ctx, entry.TaskID)
		if err != nil {
			return err
		}
		if err := authorizeEntryEdit(ctx, tx, requestingUserID, entry.UserID, task.ProjectID); err != nil {
			return err
		}
		if err := checkUnlocked(ctx, txLocks, task.ProjectID, entry.Date); err != nil {
			return err
		}
		return txEntries.Delete(ctx, entry.ID)
	})
}

func (s *timesheetService) MonthGrid(ctx context.Context, userID string, year, month int) ([]*domain.TimesheetEntry, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be within [1, 12]", ErrValidation)
	}
	return s.entries.ListByUserMonth(ctx, userID, year, month)
}

func (s *timesheetService) SetLock(ctx context.Context, projectID *string, year, month int, lockedBy string) (*domain.TimesheetLock, error) {
	if err := validateLockWindow(year, month); err != nil {
		return nil, err
	}
	var lock *domain.TimesheetLock
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLocks := repository.NewSQLiteLockRepo(tx)
		if err := authorizeLockAdmin(ctx, tx, projectID, lockedBy); err != nil {
			return err
		}
		if _, err := txLocks.Get(ctx, projectID, year, month); err == nil {
			return fmt.Errorf("%w: period is already locked", ErrConflict)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		lock = &domain.TimesheetLock{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			Year:      year,
			Month:     month,
			LockedBy:  lockedBy,
			LockedAt:  time.Now().UTC(),
		}
		return txLocks.Create(ctx, lock)
	})
	if err != nil {
		return nil, err
	}
	return lock, nil
}

func (s *timesheetService) ClearLock(ctx context.Context, projectID *string, year, month int, requestedBy string) error {
	if err := validateLockWindow(year, month); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLocks := repository.NewSQLiteLockRepo(tx)
		if err := authorizeLockAdmin(ctx, tx, projectID, requestedBy); err != nil {
			return err
		}
		if _, err := txLocks.Get(ctx, projectID, year, month); err != nil {
			return err
		}
		return txLocks.Delete(ctx, projectID, year, month)
	})
}

func (s *timesheetService) ListLocks(ctx context.Context) ([]*domain.TimesheetLock, error) {
	return s.locks.List(ctx)
}

// authorizeEntryEdit enforces who may write a timesheet cell: its owner,
// an administrator, or the manager of the task's project.
func authorizeEntryEdit(ctx context.Context, tx db.DBTX, actorID, ownerID, projectID string) error {
	if actorID == ownerID {
		return nil
	}
	actor, err := repository.NewSQLiteUserRepo(tx).GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.IsAdmin() {
		return nil
	}
	project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.ManagerID == actorID {
		return nil
	}
	return fmt.Errorf("%w: only the owner, an administrator, or the project manager may edit this entry", ErrForbidden)
}

// authorizeLockAdmin enforces who may set or clear a lock: administrators
// for global locks; administrators or the project's manager for
// project-scoped ones.
func authorizeLockAdmin(ctx context.Context, tx db.DBTX, projectID *string, actorID string) error {
	actor, err := repository.NewSQLiteUserRepo(tx).GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.IsAdmin() {
		return nil
	}
	if projectID == nil {
		return fmt.Errorf("%w: only administrators may manage global locks", ErrForbidden)
	}
	project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, *projectID)
	if err != nil {
		return err
	}
	if project.ManagerID == actorID {
		return nil
	}
	return fmt.Errorf("%w: only administrators or the project manager may manage this lock", ErrForbidden)
}

// checkUnlocked rejects ledger mutations whose date falls in a locked
// (project, year, month) window, including globally locked months.
func checkUnlocked(ctx context.Context, locks repository.LockRepo, projectID string, date time.Time) error {
	lock, err := locks.FindCovering(ctx, projectID, date.Year(), int(date.Month()))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if lock.Global() {
		return fmt.Errorf("%w: %04d-%02d is locked globally", ErrLocked, lock.Year, lock.Month)
	}
	return fmt.Errorf("%w: %04d-%02d is locked for this project", ErrLocked, lock.Year, lock.Month)
}

func validateLockWindow(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be within [1, 12]", ErrValidation)
	}
	if year < 1 {
		return fmt.Errorf("%w: year is required", ErrValidation)
	}
	return nil
}
