package domain

import "time"

// Task is a unit of work. A subtask is a task whose ParentTaskID is set;
// subtasks never carry their own StageID; their effective stage is the
// nearest ancestor's. Siblings share the same (StageID, ParentTaskID) pair
// and are ordered by DisplayOrder.
type Task struct {
	ID            string
	ProjectID     string
	StageID       *string
	ParentTaskID  *string
	Name          string
	SoldDays      float64
	ResponsibleID *string
	Priority      TaskPriority
	Status        TaskStatus
	DisplayOrder  int
	StartDate     *time.Time
	DueDate       *time.Time

	// RemainingHours is a manually maintained forward estimate.
	// LastRemainingTotal snapshots the task's ledger total hours at the
	// moment RemainingHours was last set; the gap between it and the
	// current total marks the estimate as stale.
	RemainingHours     *float64
	LastRemainingTotal *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSubtask reports whether the task nests under another task.
func (t *Task) IsSubtask() bool {
	return t.ParentTaskID != nil
}

// SiblingGroup identifies the sibling list the task belongs to.
func (t *Task) SiblingGroup() SiblingGroup {
	return SiblingGroup{ProjectID: t.ProjectID, StageID: t.StageID, ParentTaskID: t.ParentTaskID}
}

// SiblingGroup identifies one ordered list of sibling tasks: a stage's
// top-level tasks (StageID set), a task's subtasks (ParentTaskID set), or
// the project's unstaged root list (neither set).
type SiblingGroup struct {
	ProjectID    string
	StageID      *string
	ParentTaskID *string
}

// TaskPatch is a partial update for a task; see StagePatch for the
// overwrite/clear/untouched convention. RemainingHours is deliberately
// absent: it is set through its own operation so the ledger snapshot is
// taken alongside it.
type TaskPatch struct {
	Name              *string
	SoldDays          *float64
	ResponsibleID     *string
	ClearResponsible  bool
	Priority          *TaskPriority
	Status            *TaskStatus
	StartDate         *time.Time
	ClearStartDate    bool
	DueDate           *time.Time
	ClearDueDate      bool
}

// Apply writes the patch onto the task.
func (p TaskPatch) Apply(t *Task) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.SoldDays != nil {
		t.SoldDays = *p.SoldDays
	}
	switch {
	case p.ClearResponsible:
		t.ResponsibleID = nil
	case p.ResponsibleID != nil:
		t.ResponsibleID = p.ResponsibleID
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	switch {
	case p.ClearStartDate:
		t.StartDate = nil
	case p.StartDate != nil:
		t.StartDate = p.StartDate
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		t.DueDate = p.DueDate
	}
}
