package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-tracker/internal/models"
	"github.com/adanyl0v/task-tracker/internal/services"
)

type getTaskResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	CompletionAt *string `json:"completion_at,omitempty"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	resp := getTaskResponse{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Status:      task.Status.String(),
	}
	if task.CompletionAt != nil {
		completionAt := task.CompletionAtString()
		resp.CompletionAt = &completionAt
	}
	return resp
}

type createTaskRequest struct {
	Name         string `json:"name" form:"name" binding:"required,max=50"`
	Description  string `json:"description" form:"description" binding:"required"`
	Status       string `json:"status" form:"status" binding:"required"`
	CompletionAt string `json:"completion_at" form:"completion_at"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context, user *models.User) {
	var req createTaskRequest
	err := c.ShouldBind(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errIncorrectData.Error()))
		return
	}

	status, err := models.ParseTaskStatus(req.Status)
	if err != nil {
		h.logger.Error().
			Str("status", req.Status).
			Msg("invalid status")
		abort(c, newBadRequestError(errIncorrectStatus.Error()))
		return
	}

	completionAt, ok := h.parseCompletionAt(c, req.CompletionAt)
	if !ok {
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:       user.ID,
		Name:         req.Name,
		Description:  req.Description,
		Status:       status,
		CompletionAt: completionAt,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context, user *models.User) {
	params := services.GetTasksParams{UserID: user.ID}

	if s := c.Query("status"); s != "" {
		status, err := models.ParseTaskStatus(s)
		if err != nil {
			h.logger.Error().
				Str("status", s).
				Msg("invalid status filter")
			abort(c, newBadRequestError(errIncorrectStatusFilter.Error()))
			return
		}
		params.Status = &status
	}

	completionBefore, ok := h.parseCompletionAt(c, c.Query("completion_at"))
	if !ok {
		return
	}
	params.CompletionBefore = completionBefore

	tasks, err := h.tasks.GetTasks(c, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context, user *models.User) {
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, services.TaskParams{
		ID:     taskID,
		UserID: user.ID,
	})
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

// Empty fields are left unchanged.
type updateTaskRequest struct {
	Name         string `json:"name" form:"name" binding:"max=50"`
	Description  string `json:"description" form:"description"`
	Status       string `json:"status" form:"status"`
	CompletionAt string `json:"completion_at" form:"completion_at"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context, user *models.User) {
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBind(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errIncorrectData.Error()))
		return
	}

	var patch models.TaskPatch
	if req.Name != "" {
		patch.Name = &req.Name
	}
	if req.Description != "" {
		patch.Description = &req.Description
	}
	if req.Status != "" {
		status, err := models.ParseTaskStatus(req.Status)
		if err != nil {
			h.logger.Error().
				Str("status", req.Status).
				Msg("invalid status")
			abort(c, newBadRequestError(errIncorrectStatus.Error()))
			return
		}
		patch.Status = &status
	}
	patch.CompletionAt, ok = h.parseCompletionAt(c, req.CompletionAt)
	if !ok {
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:     taskID,
		UserID: user.ID,
		Patch:  patch,
	})
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context, user *models.User) {
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, services.TaskParams{
		ID:     taskID,
		UserID: user.ID,
	})
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *handlerImpl) parseTaskID(c *gin.Context) (int64, bool) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("id", c.Param("id")).
			Msg("invalid task id")
		abort(c, newBadRequestError(errIncorrectTaskID.Error()))
		return 0, false
	}
	return taskID, true
}

// parseCompletionAt returns a nil date for an empty value.
func (h *handlerImpl) parseCompletionAt(c *gin.Context, s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}

	date, err := models.ParseDate(s)
	if err != nil {
		h.logger.Error().
			Str("completion_at", s).
			Msg("invalid completion date")
		abort(c, newBadRequestError(errIncorrectCompletionAt.Error()))
		return nil, false
	}
	return &date, true
}

func (h *handlerImpl) abortTaskError(c *gin.Context, err error) {
	h.logger.Error().
		Err(err).
		Msg("task request failed")
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(errTaskNotFound.Error()))
	case errors.Is(err, services.ErrTaskAccessDenied):
		abort(c, newForbiddenError(errTaskAccessDenied.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
