package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		user_type        TEXT NOT NULL DEFAULT 'user'
		                 CHECK(user_type IN ('admin','user')),
		daily_work_hours REAL NOT NULL DEFAULT 8,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		manager_id TEXT NOT NULL REFERENCES users(id),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS stages (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		start_date  TEXT,
		end_date    TEXT,
		complete    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_stages_project ON stages(project_id)`,

	// stage_id deliberately has no ON DELETE action: deleting a stage that
	// still owns tasks must fail. parent_task_id cascades so deleting a
	// task removes its whole subtree.
	`CREATE TABLE IF NOT EXISTS tasks (
		id                   TEXT PRIMARY KEY,
		project_id           TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		stage_id             TEXT REFERENCES stages(id),
		parent_task_id       TEXT REFERENCES tasks(id) ON DELETE CASCADE,
		name                 TEXT NOT NULL,
		sold_days            REAL NOT NULL DEFAULT 0 CHECK(sold_days >= 0),
		responsible_id       TEXT REFERENCES users(id),
		priority             TEXT NOT NULL DEFAULT 'normal'
		                     CHECK(priority IN ('low','normal','high','urgent')),
		status               TEXT NOT NULL DEFAULT 'todo'
		                     CHECK(status IN ('todo','in_progress','done','cancelled')),
		display_order        INTEGER NOT NULL DEFAULT 0,
		start_date           TEXT,
		due_date             TEXT,
		remaining_hours      REAL,
		last_remaining_total REAL,
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_stage ON tasks(stage_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_task_id)`,

	`CREATE TABLE IF NOT EXISTS timesheet_entries (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id),
		task_id     TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		entry_date  TEXT NOT NULL,
		hours       REAL NOT NULL CHECK(hours > 0 AND hours <= 24),
		description TEXT NOT NULL DEFAULT '',
		entered_by  TEXT NOT NULL REFERENCES users(id),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	// One cell per (user, task, day).
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_cell
		ON timesheet_entries(user_id, task_id, entry_date)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_task ON timesheet_entries(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_user_date ON timesheet_entries(user_id, entry_date)`,

	`CREATE TABLE IF NOT EXISTS timesheet_locks (
		id         TEXT PRIMARY KEY,
		project_id TEXT REFERENCES projects(id) ON DELETE CASCADE,
		year       INTEGER NOT NULL,
		month      INTEGER NOT NULL CHECK(month BETWEEN 1 AND 12),
		locked_by  TEXT NOT NULL REFERENCES users(id),
		locked_at  TEXT NOT NULL
	)`,

	// SQLite treats NULLs as distinct in unique indexes, so global locks
	// (project_id IS NULL) need their own partial index to stay unique.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_locks_project_month
		ON timesheet_locks(project_id, year, month) WHERE project_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_locks_global_month
		ON timesheet_locks(year, month) WHERE project_id IS NULL`,
}
