package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/tally/internal/db"
	"github.com/mverdier/tally/internal/domain"
)

const lockColumns = `id, project_id, year, month, locked_by, locked_at`

// SQLiteLockRepo implements LockRepo using a SQLite database.
type SQLiteLockRepo struct {
	db db.DBTX
}

// NewSQLiteLockRepo creates a new SQLiteLockRepo.
func NewSQLiteLockRepo(db db.DBTX) *SQLiteLockRepo {
	return &SQLiteLockRepo{db: db}
}

func (r *SQLiteLockRepo) Create(ctx context.Context, l *domain.TimesheetLock) error {
	query := `INSERT INTO timesheet_locks (id, project_id, year, month, locked_by, locked_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.ProjectID, // *string: nil becomes SQL NULL (global lock)
		l.Year,
		l.Month,
		l.LockedBy,
		l.LockedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting timesheet lock: %w", err)
	}
	return nil
}

func (r *SQLiteLockRepo) Get(ctx context.Context, projectID *string, year, month int) (*domain.TimesheetLock, error) {
	var row *sql.Row
	if projectID == nil {
		query := `SELECT ` + lockColumns + ` FROM timesheet_locks
			WHERE project_id IS NULL AND year = ? AND month = ?`
		row = r.db.QueryRowContext(ctx, query, year, month)
	} else {
		query := `SELECT ` + lockColumns + ` FROM timesheet_locks
			WHERE project_id = ? AND year = ? AND month = ?`
		row = r.db.QueryRowContext(ctx, query, *projectID, year, month)
	}
	return r.scanLock(row)
}

func (r *SQLiteLockRepo) FindCovering(ctx context.Context, projectID string, year, month int) (*domain.TimesheetLock, error) {
	// A project-scoped lock and a global one both freeze the month; prefer
	// the project-scoped row when both exist.
	query := `SELECT ` + lockColumns + ` FROM timesheet_locks
		WHERE (project_id = ? OR project_id IS NULL) AND year = ? AND month = ?
		ORDER BY project_id IS NULL
		LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, projectID, year, month)
	return r.scanLock(row)
}

func (r *SQLiteLockRepo) List(ctx context.Context) ([]*domain.TimesheetLock, error) {
	query := `SELECT ` + lockColumns + ` FROM timesheet_locks ORDER BY year, month`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing timesheet locks: %w", err)
	}
	defer rows.Close()

	var locks []*domain.TimesheetLock
	for rows.Next() {
		var l domain.TimesheetLock
		var projectID sql.NullString
		var lockedAtStr string
		if err := rows.Scan(&l.ID, &projectID, &l.Year, &l.Month, &l.LockedBy, &lockedAtStr); err != nil {
			return nil, fmt.Errorf("scanning timesheet lock row: %w", err)
		}
		lock, err := r.populateLock(&l, projectID, lockedAtStr)
		if err != nil {
			return nil, err
		}
		locks = append(locks, lock)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timesheet locks: %w", err)
	}
	return locks, nil
}

func (r *SQLiteLockRepo) Delete(ctx context.Context, projectID *string, year, month int) error {
	var err error
	if projectID == nil {
		_, err = r.db.ExecContext(ctx,
			`DELETE FROM timesheet_locks WHERE project_id IS NULL AND year = ? AND month = ?`,
			year, month)
	} else {
		_, err = r.db.ExecContext(ctx,
			`DELETE FROM timesheet_locks WHERE project_id = ? AND year = ? AND month = ?`,
			*projectID, year, month)
	}
	if err != nil {
		return fmt.Errorf("deleting timesheet lock: %w", err)
	}
	return nil
}

func (r *SQLiteLockRepo) scanLock(row *sql.Row) (*domain.TimesheetLock, error) {
	var l domain.TimesheetLock
	var projectID sql.NullString
	var lockedAtStr string
	err := row.Scan(&l.ID, &projectID, &l.Year, &l.Month, &l.LockedBy, &lockedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("timesheet lock: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning timesheet lock: %w", err)
	}
	return r.populateLock(&l, projectID, lockedAtStr)
}

func (r *SQLiteLockRepo) populateLock(l *domain.TimesheetLock, projectID sql.NullString, lockedAtStr string) (*domain.TimesheetLock, error) {
	if projectID.Valid {
		l.ProjectID = &projectID.String
	}
	var err error
	l.LockedAt, err = time.Parse(time.RFC3339, lockedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing locked_at: %w", err)
	}
	return l, nil
}
