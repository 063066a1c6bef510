package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-tracker/internal/models"
	"github.com/adanyl0v/task-tracker/internal/services"
)

// AuthorizedHandlerFunc is a handler that runs on behalf of an
// authenticated user. See Handler.LoginRequired.
type AuthorizedHandlerFunc func(c *gin.Context, user *models.User)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleGetToken(c *gin.Context)

	HandleRequestLogMiddleware(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
	LoginRequired(next AuthorizedHandlerFunc) gin.HandlerFunc

	HandleCreateTask(c *gin.Context, user *models.User)
	HandleGetTasks(c *gin.Context, user *models.User)
	HandleGetTask(c *gin.Context, user *models.User)
	HandleUpdateTask(c *gin.Context, user *models.User)
	HandleDeleteTask(c *gin.Context, user *models.User)
	HandleGetTaskLogs(c *gin.Context, user *models.User)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	users    services.UserService
	tasks    services.TaskService
	taskLogs services.TaskLogService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	userService services.UserService,
	taskService services.TaskService,
	taskLogService services.TaskLogService,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		users:    userService,
		tasks:    taskService,
		taskLogs: taskLogService,
	}
}

func RegisterRoutes(router gin.IRouter, h Handler) {
	router.POST("/register", h.HandleRegister)
	router.POST("/get-token", h.HandleGetToken)

	taskRouter := router.Group("/task")
	taskRouter.GET("", h.LoginRequired(h.HandleGetTasks))
	taskRouter.POST("", h.LoginRequired(h.HandleCreateTask))
	taskRouter.GET("/:id", h.LoginRequired(h.HandleGetTask))
	taskRouter.PUT("/:id", h.LoginRequired(h.HandleUpdateTask))
	taskRouter.DELETE("/:id", h.LoginRequired(h.HandleDeleteTask))
	taskRouter.GET("/:id/log", h.LoginRequired(h.HandleGetTaskLogs))
}
