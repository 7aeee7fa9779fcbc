package domain

type UserType string

const (
	UserAdmin    UserType = "admin"
	UserStandard UserType = "user"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityNormal TaskPriority = "normal"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"todo": true, "in_progress": true, "done": true, "cancelled": true,
}

// ValidTaskPriorities is the canonical set of accepted task priority strings.
var ValidTaskPriorities = map[string]bool{
	"low": true, "normal": true, "high": true, "urgent": true,
}

// Position says on which side of the reference sibling an item is inserted.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
)

// ItemType discriminates what a move operation targets.
type ItemType string

const (
	ItemStage ItemType = "stage"
	ItemTask  ItemType = "task"
)
