package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mverdier/tally/internal/db"
	"github.com/mverdier/tally/internal/domain"
)

// stageColumns is the canonical SELECT column list for stages.
const stageColumns = `id, project_id, name, order_index, start_date, end_date, complete,
		created_at, updated_at`

// SQLiteStageRepo implements StageRepo using a SQLite database.
type SQLiteStageRepo struct {
	db db.DBTX
}

// NewSQLiteStageRepo creates a new SQLiteStageRepo.
func NewSQLiteStageRepo(db db.DBTX) *SQLiteStageRepo {
	return &SQLiteStageRepo{db: db}
}

func (r *SQLiteStageRepo) Create(ctx context.Context, s *domain.Stage) error {
	query := `INSERT INTO stages (id, project_id, name, order_index, start_date, end_date,
		complete, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.ProjectID,
		s.Name,
		s.OrderIndex,
		nullableTimeToString(s.StartDate, dateLayout),
		nullableTimeToString(s.EndDate, dateLayout),
		boolToInt(s.Complete),
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting stage: %w", err)
	}
	return nil
}

func (r *SQLiteStageRepo) GetByID(ctx context.Context, id string) (*domain.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanStage(row)
}

func (r *SQLiteStageRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE project_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing stages by project: %w", err)
	}
	defer rows.Close()
	return r.scanStages(rows)
}

func (r *SQLiteStageRepo) Update(ctx context.Context, s *domain.Stage) error {
	query := `UPDATE stages SET name = ?, order_index = ?, start_date = ?, end_date = ?,
		complete = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		s.Name,
		s.OrderIndex,
		nullableTimeToString(s.StartDate, dateLayout),
		nullableTimeToString(s.EndDate, dateLayout),
		boolToInt(s.Complete),
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating stage: %w", err)
	}
	return nil
}

func (r *SQLiteStageRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM stages WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting stage: %w", err)
	}
	return nil
}

func (r *SQLiteStageRepo) CountTasks(ctx context.Context, stageID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE stage_id = ?`, stageID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting stage tasks: %w", err)
	}
	return count, nil
}

func (r *SQLiteStageRepo) MaxOrder(ctx context.Context, projectID string) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_index), -1) FROM stages WHERE project_id = ?`, projectID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("computing max stage order: %w", err)
	}
	return max, nil
}

// scanStage scans a single stage from a *sql.Row.
func (r *SQLiteStageRepo) scanStage(row *sql.Row) (*domain.Stage, error) {
	var s domain.Stage
	var createdAtStr, updatedAtStr string
	var startDateStr, endDateStr sql.NullString
	var completeInt int

	err := row.Scan(&s.ID, &s.ProjectID, &s.Name, &s.OrderIndex,
		&startDateStr, &endDateStr, &completeInt, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("stage: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning stage: %w", err)
	}
	return r.populateStage(&s, completeInt, startDateStr, endDateStr, createdAtStr, updatedAtStr)
}

// scanStages scans multiple stages from *sql.Rows.
func (r *SQLiteStageRepo) scanStages(rows *sql.Rows) ([]*domain.Stage, error) {
	var stages []*domain.Stage
	for rows.Next() {
		var s domain.Stage
		var createdAtStr, updatedAtStr string
		var startDateStr, endDateStr sql.NullString
		var completeInt int

		err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.OrderIndex,
			&startDateStr, &endDateStr, &completeInt, &createdAtStr, &updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("scanning stage row: %w", err)
		}
		stage, err := r.populateStage(&s, completeInt, startDateStr, endDateStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stages: %w", err)
	}
	return stages, nil
}

func (r *SQLiteStageRepo) populateStage(
	s *domain.Stage,
	completeInt int,
	startDateStr, endDateStr sql.NullString,
	createdAtStr, updatedAtStr string,
) (*domain.Stage, error) {
	s.Complete = intToBool(completeInt)
	s.StartDate = parseNullableTime(startDateStr, dateLayout)
	s.EndDate = parseNullableTime(endDateStr, dateLayout)

	var err error
	s.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	s.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return s, nil
}
