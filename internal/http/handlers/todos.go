package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dkovalenko/todohub/internal/domain/todo"
	"github.com/dkovalenko/todohub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// TodosStore operations are always scoped by the owner resolved from the
// auth gate; a miss under another owner is indistinguishable from absence.
type TodosStore interface {
	ListAll(ctx context.Context, userID string) ([]todo.Todo, error)
	Create(ctx context.Context, title, userID string) (todo.Todo, error)
	Update(ctx context.Context, id, userID string, req todo.UpdateTodoRequest) (todo.Todo, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}

type TodosHandler struct {
	store TodosStore
}

func NewTodosHandler(store TodosStore) *TodosHandler {
	return &TodosHandler{store: store}
}

func (h *TodosHandler) ListTodos(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	todos, err := h.store.ListAll(ctx.Request.Context(), userID)

	if err != nil {
		RespondInternal(ctx, "Could not list todos")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, todos)
}

func (h *TodosHandler) CreateTodo(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req todo.CreateTodoRequest

	if !BindJSON(ctx, &req) {
		return
	}

	created, err := h.store.Create(ctx.Request.Context(), req.Title, userID)

	if err != nil {
		if errors.Is(err, todo.ErrEmptyTitle) {
			RespondBadRequest(ctx, "Title is required", nil)
			return
		}

		RespondInternal(ctx, "Could not create todo")
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *TodosHandler) UpdateTodo(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req todo.UpdateTodoRequest

	if !BindJSON(ctx, &req) {
		return
	}

	updated, err := h.store.Update(ctx.Request.Context(), ctx.Param("id"), userID, req)

	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			RespondNotFound(ctx, "Todo not found")
			return
		}

		RespondInternal(ctx, "Could not update todo")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *TodosHandler) ToggleTodo(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req todo.ToggleTodoRequest

	if !BindJSON(ctx, &req) {
		return
	}

	updated, err := h.store.Update(ctx.Request.Context(), ctx.Param("id"), userID, todo.UpdateTodoRequest{
		Completed: req.Completed,
	})

	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			RespondNotFound(ctx, "Todo not found")
			return
		}

		RespondInternal(ctx, "Could not toggle todo")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *TodosHandler) DeleteTodo(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	removed, err := h.store.Delete(ctx.Request.Context(), ctx.Param("id"), userID)

	if err != nil {
		RespondInternal(ctx, "Could not delete todo")
		return
	}

	if !removed {
		RespondNotFound(ctx, "Todo not found")
		return
	}

	ctx.Status(http.StatusNoContent)
}
