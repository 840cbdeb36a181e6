package boxapi

import (
	"context"
	"net/http"
	"time"

	"github.com/funktionslust/boxbulk"
)

type task struct {
	ID          string    `json:"id"`
	Item        *ref      `json:"item"`
	Action      string    `json:"action"`
	Message     string    `json:"message"`
	DueAt       time.Time `json:"due_at"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t *task) record() boxbulk.Record {
	return &boxbulk.Task{
		ID:          t.ID,
		ItemID:      t.Item.id(),
		ItemType:    t.Item.kind(),
		Action:      t.Action,
		Message:     t.Message,
		DueAt:       t.DueAt,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
	}
}

type taskBody struct {
	Item    *ref       `json:"item,omitempty"`
	Action  string     `json:"action,omitempty"`
	Message string     `json:"message,omitempty"`
	DueAt   *time.Time `json:"due_at,omitempty"`
}

// CreateTask creates a task on a file.
func (c *Client) CreateTask(ctx context.Context, record boxbulk.Record) (boxbulk.Record, error) {
	t, ok := record.(*boxbulk.Task)
	if !ok {
		return nil, kindMismatch(boxbulk.KindTask, record)
	}
	itemType := t.ItemType
	if itemType == "" {
		itemType = boxbulk.KindFile.String()
	}
	body := taskBody{
		Item:    &ref{Type: itemType, ID: t.ItemID},
		Action:  t.Action,
		Message: t.Message,
		DueAt:   timestamp(t.DueAt),
	}
	var created task
	if err := c.call(ctx, http.MethodPost, "/tasks", nil, body, &created); err != nil {
		return nil, err
	}
	return created.record(), nil
}

// UpdateTask updates the non-empty action, message and due date of the task.
func (c *Client) UpdateTask(ctx context.Context, record boxbulk.Record) (boxbulk.Record, error) {
	t, ok := record.(*boxbulk.Task)
	if !ok {
		return nil, kindMismatch(boxbulk.KindTask, record)
	}
	body := taskBody{
		Action:  t.Action,
		Message: t.Message,
		DueAt:   timestamp(t.DueAt),
	}
	var updated task
	if err := c.call(ctx, http.MethodPut, "/tasks/"+t.ID, nil, body, &updated); err != nil {
		return nil, err
	}
	return updated.record(), nil
}

type taskAssignment struct {
	ID              string    `json:"id"`
	Item            *ref      `json:"item"`
	AssignedTo      *ref      `json:"assigned_to"`
	Message         string    `json:"message"`
	ResolutionState string    `json:"resolution_state"`
	AssignedAt      time.Time `json:"assigned_at"`
	CompletedAt     time.Time `json:"completed_at"`
}

func (a *taskAssignment) convert(taskID string) *boxbulk.TaskAssignment {
	return &boxbulk.TaskAssignment{
		ID:              a.ID,
		TaskID:          taskID,
		ItemID:          a.Item.id(),
		ItemType:        a.Item.kind(),
		AssignedToID:    a.AssignedTo.id(),
		AssignedToLogin: a.AssignedTo.login(),
		Message:         a.Message,
		ResolutionState: a.ResolutionState,
		AssignedAt:      a.AssignedAt,
		CompletedAt:     a.CompletedAt,
	}
}

type taskAssignmentBody struct {
	Task     ref `json:"task"`
	AssignTo ref `json:"assign_to"`
}

// CreateTaskAssignment assigns the task to the user addressed by id or login.
func (c *Client) CreateTaskAssignment(ctx context.Context, record boxbulk.Record) (boxbulk.Record, error) {
	a, ok := record.(*boxbulk.TaskAssignment)
	if !ok {
		return nil, kindMismatch(boxbulk.KindTaskAssignment, record)
	}
	body := taskAssignmentBody{
		Task:     ref{Type: boxbulk.KindTask.String(), ID: a.TaskID},
		AssignTo: ref{ID: a.AssignedToID, Login: a.AssignedToLogin},
	}
	var created taskAssignment
	if err := c.call(ctx, http.MethodPost, "/task_assignments", nil, body, &created); err != nil {
		return nil, err
	}
	return created.convert(a.TaskID), nil
}

// TaskAssignmentsFetcher returns the page fetcher of the assignments of a task.
func (c *Client) TaskAssignmentsFetcher(taskID string) boxbulk.PageFetcher {
	return func(ctx context.Context, cursor boxbulk.PageCursor) (*boxbulk.Page, error) {
		return fetchPage(ctx, c, "/tasks/"+taskID+"/assignments", cursor, func(a *taskAssignment) boxbulk.Record {
			return a.convert(taskID)
		})
	}
}
