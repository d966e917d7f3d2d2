package todo

import "errors"

var (
	ErrNotFound   = errors.New("todo not found")
	ErrEmptyTitle = errors.New("todo title must not be empty")
)

// Todo timestamps are epoch milliseconds, matching the persisted layout.
type Todo struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

type CreateTodoRequest struct {
	Title string `json:"title" binding:"required,min=1,max=500"`
}

// UpdateTodoRequest is a closed set of mutable fields. Identity and
// ownership (id, userId, createdAt) are structurally unreachable here.
type UpdateTodoRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=500"`
	Completed *bool   `json:"completed"`
}

type ToggleTodoRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}
