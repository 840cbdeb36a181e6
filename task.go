package boxbulk

import "time"

// Task is a review or completion task on a file.
type Task struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	ItemType    string    `json:"item_type"`
	Action      string    `json:"action"`
	Message     string    `json:"message,omitempty"`
	DueAt       time.Time `json:"due_at"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// Kind returns KindTask.
func (t *Task) Kind() Kind { return KindTask }

// Identifier returns the task ID.
func (t *Task) Identifier() string { return t.ID }

// ToRow renders the task in TaskMapper column order.
func (t *Task) ToRow() *Row {
	return newRowWriter().
		str("type", KindTask.String()).
		str("id", t.ID).
		str("item_id", t.ItemID).
		str("item_type", t.ItemType).
		str("action", t.Action).
		str("message", t.Message).
		date("due_at", t.DueAt).
		boolean("is_completed", t.IsCompleted).
		date("created_at", t.CreatedAt).
		row
}

func (t *Task) sealed() {}

// TaskMapper maps task rows.
var TaskMapper Mapper = &mapper{
	kind: KindTask,
	columns: []string{
		"type", "id", "item_id", "item_type", "action", "message", "due_at", "is_completed", "created_at",
	},
	decode: func(r *rowReader) Record {
		return &Task{
			ID:          r.str("id"),
			ItemID:      r.str("item_id"),
			ItemType:    r.str("item_type"),
			Action:      r.str("action"),
			Message:     r.str("message"),
			DueAt:       r.date("due_at"),
			IsCompleted: r.boolean("is_completed"),
			CreatedAt:   r.date("created_at"),
		}
	},
}

// TaskAssignment assigns a task to a user.
type TaskAssignment struct {
	ID              string    `json:"id"`
	TaskID          string    `json:"task_id"`
	ItemID          string    `json:"item_id"`
	ItemType        string    `json:"item_type"`
	AssignedToID    string    `json:"assigned_to_id,omitempty"`
	AssignedToLogin string    `json:"assigned_to_login,omitempty"`
	Message         string    `json:"message,omitempty"`
	ResolutionState string    `json:"resolution_state,omitempty"`
	AssignedAt      time.Time `json:"assigned_at"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Kind returns KindTaskAssignment.
func (a *TaskAssignment) Kind() Kind { return KindTaskAssignment }

// Identifier returns the assignment ID.
func (a *TaskAssignment) Identifier() string { return a.ID }

// ToRow renders the assignment in TaskAssignmentMapper column order.
func (a *TaskAssignment) ToRow() *Row {
	return newRowWriter().
		str("type", KindTaskAssignment.String()).
		str("id", a.ID).
		str("task_id", a.TaskID).
		str("item_id", a.ItemID).
		str("item_type", a.ItemType).
		str("assigned_to_id", a.AssignedToID).
		str("assigned_to_login", a.AssignedToLogin).
		str("message", a.Message).
		str("resolution_state", a.ResolutionState).
		date("assigned_at", a.AssignedAt).
		date("completed_at", a.CompletedAt).
		row
}

func (a *TaskAssignment) sealed() {}

// TaskAssignmentMapper maps task assignment rows.
var TaskAssignmentMapper Mapper = &mapper{
	kind: KindTaskAssignment,
	columns: []string{
		"type", "id", "task_id", "item_id", "item_type", "assigned_to_id", "assigned_to_login",
		"message", "resolution_state", "assigned_at", "completed_at",
	},
	decode: func(r *rowReader) Record {
		return &TaskAssignment{
			ID:              r.str("id"),
			TaskID:          r.str("task_id"),
			ItemID:          r.str("item_id"),
			ItemType:        r.str("item_type"),
			AssignedToID:    r.str("assigned_to_id"),
			AssignedToLogin: r.str("assigned_to_login"),
			Message:         r.str("message"),
			ResolutionState: r.str("resolution_state"),
			AssignedAt:      r.date("assigned_at"),
			CompletedAt:     r.date("completed_at"),
		}
	},
}
