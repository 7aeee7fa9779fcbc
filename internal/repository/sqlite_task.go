package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/tally/internal/db"
	"github.com/mverdier/tally/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, project_id, stage_id, parent_task_id, name, sold_days,
		responsible_id, priority, status, display_order, start_date, due_date,
		remaining_hours, last_remaining_total, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, project_id, stage_id, parent_task_id, name, sold_days,
		responsible_id, priority, status, display_order, start_date, due_date,
		remaining_hours, last_remaining_total, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.StageID,       // *string: nil becomes SQL NULL
		t.ParentTaskID,  // *string: nil becomes SQL NULL
		t.Name,
		t.SoldDays,
		t.ResponsibleID,
		string(t.Priority),
		string(t.Status),
		t.DisplayOrder,
		nullableTimeToString(t.StartDate, dateLayout),
		nullableTimeToString(t.DueDate, dateLayout),
		nullableFloatToValue(t.RemainingHours),
		nullableFloatToValue(t.LastRemainingTotal),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanTask(row)
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY display_order`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by project: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListSiblings(ctx context.Context, g domain.SiblingGroup) ([]*domain.Task, error) {
	where, args := siblingWhere(g)
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + where + ` ORDER BY display_order`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sibling tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListChildren(ctx context.Context, parentTaskID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE parent_task_id = ? ORDER BY display_order`
	rows, err := r.db.QueryContext(ctx, query, parentTaskID)
	if err != nil {
		return nil, fmt.Errorf("listing child tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET stage_id = ?, parent_task_id = ?, name = ?, sold_days = ?,
		responsible_id = ?, priority = ?, status = ?, display_order = ?,
		start_date = ?, due_date = ?, remaining_hours = ?, last_remaining_total = ?,
		updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		t.StageID,
		t.ParentTaskID,
		t.Name,
		t.SoldDays,
		t.ResponsibleID,
		string(t.Priority),
		string(t.Status),
		t.DisplayOrder,
		nullableTimeToString(t.StartDate, dateLayout),
		nullableTimeToString(t.DueDate, dateLayout),
		nullableFloatToValue(t.RemainingHours),
		nullableFloatToValue(t.LastRemainingTotal),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) SetPlacement(ctx context.Context, id string, stageID, parentTaskID *string, displayOrder int) error {
	query := `UPDATE tasks SET stage_id = ?, parent_task_id = ?, display_order = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		stageID,
		parentTaskID,
		displayOrder,
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("setting task placement: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) DeleteByProject(ctx context.Context, projectID string) error {
	query := `DELETE FROM tasks WHERE project_id = ?`
	if _, err := r.db.ExecContext(ctx, query, projectID); err != nil {
		return fmt.Errorf("deleting project tasks: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) MaxDisplayOrder(ctx context.Context, g domain.SiblingGroup) (int, error) {
	where, args := siblingWhere(g)
	query := `SELECT COALESCE(MAX(display_order), -1) FROM tasks WHERE ` + where
	var max int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&max); err != nil {
		return 0, fmt.Errorf("computing max display order: %w", err)
	}
	return max, nil
}

// siblingWhere builds the WHERE clause selecting one sibling group. NULL
// columns need IS NULL rather than a bound parameter.
func siblingWhere(g domain.SiblingGroup) (string, []any) {
	where := `project_id = ?`
	args := []any{g.ProjectID}
	if g.StageID != nil {
		where += ` AND stage_id = ?`
		args = append(args, *g.StageID)
	} else {
		where += ` AND stage_id IS NULL`
	}
	if g.ParentTaskID != nil {
		where += ` AND parent_task_id = ?`
		args = append(args, *g.ParentTaskID)
	} else {
		where += ` AND parent_task_id IS NULL`
	}
	return where, args
}

// scanTask scans a single task from a *sql.Row.
func (r *SQLiteTaskRepo) scanTask(row *sql.Row) (*domain.Task, error) {
	var t domain.Task
	var priorityStr, statusStr, createdAtStr, updatedAtStr string
	var stageID, parentTaskID, responsibleID sql.NullString
	var startDateStr, dueDateStr sql.NullString
	var remainingHours, lastRemainingTotal sql.NullFloat64

	err := row.Scan(
		&t.ID, &t.ProjectID, &stageID, &parentTaskID, &t.Name, &t.SoldDays,
		&responsibleID, &priorityStr, &statusStr, &t.DisplayOrder,
		&startDateStr, &dueDateStr, &remainingHours, &lastRemainingTotal,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return r.populateTask(&t, priorityStr, statusStr, createdAtStr, updatedAtStr,
		stageID, parentTaskID, responsibleID, startDateStr, dueDateStr,
		remainingHours, lastRemainingTotal)
}

// scanTasks scans multiple tasks from *sql.Rows.
func (r *SQLiteTaskRepo) scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		var priorityStr, statusStr, createdAtStr, updatedAtStr string
		var stageID, parentTaskID, responsibleID sql.NullString
		var startDateStr, dueDateStr sql.NullString
		var remainingHours, lastRemainingTotal sql.NullFloat64

		err := rows.Scan(
			&t.ID, &t.ProjectID, &stageID, &parentTaskID, &t.Name, &t.SoldDays,
			&responsibleID, &priorityStr, &statusStr, &t.DisplayOrder,
			&startDateStr, &dueDateStr, &remainingHours, &lastRemainingTotal,
			&createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		task, err := r.populateTask(&t, priorityStr, statusStr, createdAtStr, updatedAtStr,
			stageID, parentTaskID, responsibleID, startDateStr, dueDateStr,
			remainingHours, lastRemainingTotal)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// populateTask fills in parsed fields on a Task after scanning raw values.
func (r *SQLiteTaskRepo) populateTask(
	t *domain.Task,
	priorityStr, statusStr, createdAtStr, updatedAtStr string,
	stageID, parentTaskID, responsibleID sql.NullString,
	startDateStr, dueDateStr sql.NullString,
	remainingHours, lastRemainingTotal sql.NullFloat64,
) (*domain.Task, error) {
	t.Priority = domain.TaskPriority(priorityStr)
	t.Status = domain.TaskStatus(statusStr)

	if stageID.Valid {
		t.StageID = &stageID.String
	}
	if parentTaskID.Valid {
		t.ParentTaskID = &parentTaskID.String
	}
	if responsibleID.Valid {
		t.ResponsibleID = &responsibleID.String
	}
	t.StartDate = parseNullableTime(startDateStr, dateLayout)
	t.DueDate = parseNullableTime(dueDateStr, dateLayout)
	if remainingHours.Valid {
		v := remainingHours.Float64
		t.RemainingHours = &v
	}
	if lastRemainingTotal.Valid {
		v := lastRemainingTotal.Float64
		t.LastRemainingTotal = &v
	}

	var err error
	t.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return t, nil
}
