package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/tally/internal/db"
	"github.com/mverdier/tally/internal/domain"
)

// entryColumns is the canonical SELECT column list for timesheet_entries.
const entryColumns = `id, user_id, task_id, entry_date, hours, description, entered_by,
		created_at, updated_at`

// SQLiteTimesheetRepo implements TimesheetRepo using a SQLite database.
type SQLiteTimesheetRepo struct {
	db db.DBTX
}

// NewSQLiteTimesheetRepo creates a new SQLiteTimesheetRepo.
func NewSQLiteTimesheetRepo(db db.DBTX) *SQLiteTimesheetRepo {
	return &SQLiteTimesheetRepo{db: db}
}

func (r *SQLiteTimesheetRepo) Create(ctx context.Context, e *domain.TimesheetEntry) error {
	query := `INSERT INTO timesheet_entries (id, user_id, task_id, entry_date, hours,
		description, entered_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.TaskID,
		e.Date.Format(dateLayout),
		e.Hours,
		e.Description,
		e.EnteredBy,
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting timesheet entry: %w", err)
	}
	return nil
}

func (r *SQLiteTimesheetRepo) GetByID(ctx context.Context, id string) (*domain.TimesheetEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM timesheet_entries WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanEntry(row)
}

func (r *SQLiteTimesheetRepo) GetCell(ctx context.Context, userID, taskID string, date time.Time) (*domain.TimesheetEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM timesheet_entries
		WHERE user_id = ? AND task_id = ? AND entry_date = ?`
	row := r.db.QueryRowContext(ctx, query, userID, taskID, date.Format(dateLayout))
	return r.scanEntry(row)
}

func (r *SQLiteTimesheetRepo) ListByUserMonth(ctx context.Context, userID string, year, month int) ([]*domain.TimesheetEntry, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	query := `SELECT ` + entryColumns + ` FROM timesheet_entries
		WHERE user_id = ? AND entry_date BETWEEN ? AND ?
		ORDER BY entry_date, task_id`
	rows, err := r.db.QueryContext(ctx, query, userID, first.Format(dateLayout), last.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing entries by user month: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteTimesheetRepo) Update(ctx context.Context, e *domain.TimesheetEntry) error {
	query := `UPDATE timesheet_entries SET hours = ?, description = ?, entered_by = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		e.Hours,
		e.Description,
		e.EnteredBy,
		e.UpdatedAt.Format(time.RFC3339),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating timesheet entry: %w", err)
	}
	return nil
}

func (r *SQLiteTimesheetRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM timesheet_entries WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting timesheet entry: %w", err)
	}
	return nil
}

func (r *SQLiteTimesheetRepo) TotalHoursByTask(ctx context.Context, taskID string) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(hours), 0) FROM timesheet_entries WHERE task_id = ?`, taskID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("totalling task hours: %w", err)
	}
	return total, nil
}

func (r *SQLiteTimesheetRepo) TotalsByProject(ctx context.Context, projectID string) (map[string]float64, error) {
	query := `SELECT e.task_id, SUM(e.hours)
		FROM timesheet_entries e
		JOIN tasks t ON t.id = e.task_id
		WHERE t.project_id = ?
		GROUP BY e.task_id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("totalling project hours: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var taskID string
		var hours float64
		if err := rows.Scan(&taskID, &hours); err != nil {
			return nil, fmt.Errorf("scanning project total row: %w", err)
		}
		totals[taskID] = hours
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project totals: %w", err)
	}
	return totals, nil
}

// scanEntry scans a single entry from a *sql.Row.
func (r *SQLiteTimesheetRepo) scanEntry(row *sql.Row) (*domain.TimesheetEntry, error) {
	var e domain.TimesheetEntry
	var dateStr, createdAtStr, updatedAtStr string
	err := row.Scan(&e.ID, &e.UserID, &e.TaskID, &dateStr, &e.Hours,
		&e.Description, &e.EnteredBy, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("timesheet entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning timesheet entry: %w", err)
	}
	return r.populateEntry(&e, dateStr, createdAtStr, updatedAtStr)
}

// scanEntries scans multiple entries from *sql.Rows.
func (r *SQLiteTimesheetRepo) scanEntries(rows *sql.Rows) ([]*domain.TimesheetEntry, error) {
	var entries []*domain.TimesheetEntry
	for rows.Next() {
		var e domain.TimesheetEntry
		var dateStr, createdAtStr, updatedAtStr string
		if err := rows.Scan(&e.ID, &e.UserID, &e.TaskID, &dateStr, &e.Hours,
			&e.Description, &e.EnteredBy, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning timesheet entry row: %w", err)
		}
		entry, err := r.populateEntry(&e, dateStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timesheet entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteTimesheetRepo) populateEntry(e *domain.TimesheetEntry, dateStr, createdAtStr, updatedAtStr string) (*domain.TimesheetEntry, error) {
	var err error
	e.Date, err = time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing entry_date: %w", err)
	}
	e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	e.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return e, nil
}
