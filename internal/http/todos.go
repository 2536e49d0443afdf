package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"keyed-api/internal/domain"
	"keyed-api/internal/service"
)

type createTodoRequest struct {
	Task string `json:"task" form:"task"`
}

type TodoResponse struct {
	ID        int64  `json:"id"`
	OwnerID   int64  `json:"owner_id"`
	Task      string `json:"task"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (h *Handler) createTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondError(c, service.InvalidInput(err.Error()))
		return
	}
	h.respondTodos(c)(h.todos.Create(c.Request.Context(), currentIdentity(c), req.Task))
}

func (h *Handler) deleteTodo(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondTodos(c)(h.todos.Delete(c.Request.Context(), currentIdentity(c), id))
}

func (h *Handler) markTodo(done bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			h.respondError(c, err)
			return
		}
		h.respondTodos(c)(h.todos.SetDone(c.Request.Context(), currentIdentity(c), id, done))
	}
}

func (h *Handler) listTodos(c *gin.Context) {
	filter, err := domain.ParseTodoFilter(c.Param("filter"))
	if err != nil {
		h.respondError(c, service.InvalidInput(err.Error()))
		return
	}
	h.respondTodos(c)(h.todos.List(c.Request.Context(), currentIdentity(c), filter))
}

func (h *Handler) respondTodos(c *gin.Context) func([]domain.Todo, error) {
	return func(todos []domain.Todo, err error) {
		if err != nil {
			h.respondError(c, err)
			return
		}
		resp := make([]TodoResponse, len(todos))
		for i := range todos {
			resp[i] = todoToResponse(todos[i])
		}
		respond(c, http.StatusOK, resp)
	}
}

func todoToResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:        todo.ID,
		OwnerID:   todo.OwnerID,
		Task:      todo.Task,
		Done:      todo.Done,
		CreatedAt: todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt: todo.UpdatedAt.Format(time.RFC3339),
	}
}
