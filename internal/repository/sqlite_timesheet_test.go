package repository

import (
	"context"
	"testing"

	"github.com/mverdier/tally/internal/domain"
	"github.com/mverdier/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timesheetFixture struct {
	entries *SQLiteTimesheetRepo
	tasks   *SQLiteTaskRepo
	proj    *domain.Project
	user    *domain.User
	task    *domain.Task
}

func setupTimesheetRepo(t *testing.T) timesheetFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Worker")
	require.NoError(t, NewSQLiteUserRepo(database).Create(ctx, user))
	proj := testutil.NewTestProject("Host", user.ID)
	require.NoError(t, NewSQLiteProjectRepo(database).Create(ctx, proj))

	tasks := NewSQLiteTaskRepo(database)
	task := testutil.NewTestTask(proj.ID, "Work")
	require.NoError(t, tasks.Create(ctx, task))

	return timesheetFixture{
		entries: NewSQLiteTimesheetRepo(database),
		tasks:   tasks,
		proj:    proj,
		user:    user,
		task:    task,
	}
}

func TestTimesheetRepo_CreateAndGetCell(t *testing.T) {
	f := setupTimesheetRepo(t)
	ctx := context.Background()

	day := testutil.Day(2026, 6, 10)
	entry := testutil.NewTestEntry(f.user.ID, f.task.ID, day, 6.5)
	entry.Description = "refactoring"
	require.NoError(t, f.entries.Create(ctx, entry))

	got, err := f.entries.GetCell(ctx, f.user.ID, f.task.ID, day)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, 6.5, got.Hours)
	assert.Equal(t, "refactoring", got.Description)
	assert.Equal(t, day, got.Date)
}

func TestTimesheetRepo_GetCell_NotFound(t *testing.T) {
	f := setupTimesheetRepo(t)
	_, err := f.entries.GetCell(context.Background(), f.user.ID, f.task.ID, testutil.Day(2026, 6, 10))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTimesheetRepo_CellUniqueness(t *testing.T) {
	f := setupTimesheetRepo(t)
	ctx := context.Background()

	day := testutil.Day(2026, 6, 10)
	require.NoError(t, f.entries.Create(ctx, testutil.NewTestEntry(f.user.ID, f.task.ID, day, 4)))

	err := f.entries.Create(ctx, testutil.NewTestEntry(f.user.ID, f.task.ID, day, 2))
	require.Error(t, err, "second entry for the same (user, task, day) must be rejected")
}

func TestTimesheetRepo_HoursBounds(t *testing.T) {
	f := setupTimesheetRepo(t)
	ctx := context.Background()

	err := f.entries.Create(ctx, testutil.NewTestEntry(f.user.ID, f.task.ID, testutil.Day(2026, 6, 1), 0))
	require.Error(t, err, "zero hours is stored as an absent cell, not a row")

	err = f.entries.Create(ctx, testutil.NewTestEntry(f.user.ID, f.task.ID, testutil.Day(2026, 6, 2), 25))
	require.Error(t, err, "more than a day's worth of hours must be rejected")
}

func TestTimesheetRepo_ListByUserMonth_Boundaries(t *testing.T) {
	f := setupTimesheetRepo(t)
	ctx := context.Background()

	require.NoError(t, f.entries.Create(ctx, testutil.NewTestEntry(f.user.ID, f.task.ID, testutil.Day(2026, 5, 31), 1)))
	require.NoError(t, f.entries.Create(ctx, testutil.NewTestEntry(f.user.ID, f.task.ID, testutil.Day(2026, 6, 1), 2)))
	require.NoError(t, f.entries.Create(ctx, testutil.NewTestEntry(f.user.ID, f.task.ID, testutil.Day(2026, 6, 30), 3)))
	require.NoError(t, f.entries.Create(ctx, testutil.NewTestEntry(f.user.ID, f.task.ID, testutil.Day(2026, 7, 1), 4)))

	// Another user's June must not leak in.
	other := testutil.NewTestUser("Other")
	require.NoError(t, NewSQLiteUserRepo(f.tasks.db).Create(ctx, other))
	require.NoError(t, f.entries.Create(ctx, testutil.NewTestEntry(other.ID, f.task.ID, testutil.Day(2026, 6, 15), 8)))

	june, err := f.entries.ListByUserMonth(ctx, f.user.ID, 2026, 6)
	require.NoError(t, err)
	require.Len(t, june, 2)
	assert.Equal(t, 2.0, june[0].Hours)
	assert.Equal(t, 3.0, june[1].Hours)
}

func TestTimesheetRepo_Totals(t *testing.T) {
	f := setupTimesheetRepo(t)
	ctx := context.Background()

	other := testutil.NewTestTask(f.proj.ID, "Other work")
	require.NoError(t, f.tasks.Create(ctx, other))
	empty := testutil.NewTestTask(f.proj.ID, "Untouched")
	require.NoError(t, f.tasks.Create(ctx, empty))

	require.NoError(t, f.entries.Create(ctx, testutil.NewTestEntry(f.user.ID, f.task.ID, testutil.Day(2026, 6, 1), 4)))
	require.NoError(t, f.entries.Create(ctx, testutil.NewTestEntry(f.user.ID, f.task.ID, testutil.Day(2026, 6, 2), 3.5)))
	require.NoError(t, f.entries.Create(ctx, testutil.NewTestEntry(f.user.ID, other.ID, testutil.Day(2026, 6, 1), 2)))

	total, err := f.entries.TotalHoursByTask(ctx, f.task.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.5, total)

	total, err = f.entries.TotalHoursByTask(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)

	totals, err := f.entries.TotalsByProject(ctx, f.proj.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{f.task.ID: 7.5, other.ID: 2}, totals)
}

func TestTimesheetRepo_UpdateAndDelete(t *testing.T) {
	f := setupTimesheetRepo(t)
	ctx := context.Background()

	entry := testutil.NewTestEntry(f.user.ID, f.task.ID, testutil.Day(2026, 6, 10), 4)
	require.NoError(t, f.entries.Create(ctx, entry))

	entry.Hours = 5.5
	entry.Description = "reviewed"
	require.NoError(t, f.entries.Update(ctx, entry))

	got, err := f.entries.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.5, got.Hours)
	assert.Equal(t, "reviewed", got.Description)

	require.NoError(t, f.entries.Delete(ctx, entry.ID))
	_, err = f.entries.GetByID(ctx, entry.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
