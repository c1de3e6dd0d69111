package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// TaskHandler handles HTTP requests for task operations. Every route is
// behind the auth gate; the owning account comes from the request context,
// never from the payload.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type createTaskRequest struct {
	Title       string     `json:"title"       validate:"required"`
	Description string     `json:"description" validate:"required"`
	StartTime   time.Time  `json:"start_time,omitempty"`
	StopTime    *time.Time `json:"stop_time,omitempty"`
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Create handles POST /api/v1/tasks/create/.
func (h *TaskHandler) Create(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	task, err := h.service.CreateTask(c.Request().Context(), account.ID, ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		StopTime:    req.StopTime,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

// Get handles GET /api/v1/tasks/:task_id.
func (h *TaskHandler) Get(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	taskID, err := strconv.ParseInt(c.Param("task_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid task id"})
	}

	task, err := h.service.GetTask(c.Request().Context(), taskID, account.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// List handles GET /api/v1/tasks/.
func (h *TaskHandler) List(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	tasks, err := h.service.ListTasks(c.Request().Context(), account.ID, skip, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

// Update handles PUT /api/v1/tasks/update/:task_id.
func (h *TaskHandler) Update(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	taskID, err := strconv.ParseInt(c.Param("task_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid task id"})
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	task, err := h.service.UpdateTask(c.Request().Context(), taskID, account.ID, ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /api/v1/tasks/remove/:task_id.
func (h *TaskHandler) Delete(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	taskID, err := strconv.ParseInt(c.Param("task_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid task id"})
	}

	if err := h.service.DeleteTask(c.Request().Context(), taskID, account.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "task deleted successfully"})
}
