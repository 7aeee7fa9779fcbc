package domain

import "time"

// MaxDailyHours bounds a single timesheet cell.
const MaxDailyHours = 24.0

// TimesheetEntry is one cell of the timesheet grid: the hours one user
// logged on one task on one day. At most one entry exists per
// (UserID, TaskID, Date); zero hours is expressed by the cell's absence.
type TimesheetEntry struct {
	ID          string
	UserID      string
	TaskID      string
	Date        time.Time // day granularity
	Hours       float64
	Description string
	EnteredBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimesheetLock freezes all timesheet entries of one (project, year, month)
// window. A nil ProjectID is a global lock spanning every project.
type TimesheetLock struct {
	ID        string
	ProjectID *string
	Year      int
	Month     int
	LockedBy  string
	LockedAt  time.Time
}

// Global reports whether the lock spans all projects.
func (l *TimesheetLock) Global() bool {
	return l.ProjectID == nil
}

// Covers reports whether the lock freezes entries for the given project
// and date.
func (l *TimesheetLock) Covers(projectID string, date time.Time) bool {
	if l.ProjectID != nil && *l.ProjectID != projectID {
		return false
	}
	return l.Year == date.Year() && time.Month(l.Month) == date.Month()
}
