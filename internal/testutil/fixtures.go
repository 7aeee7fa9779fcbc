package testutil

import (
	"time"

	"github.com/mverdier/tally/internal/domain"
	"github.com/google/uuid"
)

// User options
type UserOption func(*domain.User)

func AsAdmin() UserOption {
	return func(u *domain.User) {
		u.Type = domain.UserAdmin
	}
}

func WithDailyHours(h float64) UserOption {
	return func(u *domain.User) {
		u.DailyWorkHours = h
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	now := time.Now().UTC()
	u := &domain.User{
		ID:             uuid.New().String(),
		Name:           name,
		Type:           domain.UserStandard,
		DailyWorkHours: domain.DefaultDailyWorkHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func NewTestProject(name, managerID string) *domain.Project {
	now := time.Now().UTC()
	return &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		ManagerID: managerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Stage options
type StageOption func(*domain.Stage)

func WithOrderIndex(i int) StageOption {
	return func(s *domain.Stage) {
		s.OrderIndex = i
	}
}

func WithStageDates(start, end time.Time) StageOption {
	return func(s *domain.Stage) {
		s.StartDate = &start
		s.EndDate = &end
	}
}

func NewTestStage(projectID, name string, opts ...StageOption) *domain.Stage {
	now := time.Now().UTC()
	s := &domain.Stage{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Task options
type TaskOption func(*domain.Task)

func InStage(stageID string) TaskOption {
	return func(t *domain.Task) {
		t.StageID = &stageID
	}
}

func UnderParent(parentTaskID string) TaskOption {
	return func(t *domain.Task) {
		t.ParentTaskID = &parentTaskID
	}
}

func WithSoldDays(d float64) TaskOption {
	return func(t *domain.Task) {
		t.SoldDays = d
	}
}

func WithDisplayOrder(i int) TaskOption {
	return func(t *domain.Task) {
		t.DisplayOrder = i
	}
}

func WithRemainingHours(h, snapshot float64) TaskOption {
	return func(t *domain.Task) {
		t.RemainingHours = &h
		t.LastRemainingTotal = &snapshot
	}
}

func NewTestTask(projectID, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Priority:  domain.PriorityNormal,
		Status:    domain.TaskTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestEntry(userID, taskID string, date time.Time, hours float64) *domain.TimesheetEntry {
	now := time.Now().UTC()
	return &domain.TimesheetEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		TaskID:    taskID,
		Date:      date,
		Hours:     hours,
		EnteredBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Day is shorthand for a UTC date at day granularity.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
