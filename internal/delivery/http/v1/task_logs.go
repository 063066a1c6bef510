package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-tracker/internal/models"
	"github.com/adanyl0v/task-tracker/internal/services"
)

type getTaskLogResponse struct {
	Date string `json:"date"`
	Log  string `json:"log"`
}

func (h *handlerImpl) HandleGetTaskLogs(c *gin.Context, user *models.User) {
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	logs, err := h.taskLogs.GetTaskLogs(c, services.TaskParams{
		ID:     taskID,
		UserID: user.ID,
	})
	if err != nil {
		h.abortTaskError(c, err)
		return
	}

	response := make([]getTaskLogResponse, len(logs))
	for i, log := range logs {
		response[i] = getTaskLogResponse{
			Date: log.CreatedAt.Format(time.DateTime),
			Log:  log.Log,
		}
	}
	c.JSON(http.StatusOK, response)
}
