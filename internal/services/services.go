package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adanyl0v/task-tracker/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAccessDenied     = errors.New("task access denied")
)

// PgxPool is the part of *pgxpool.Pool the services use.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AuthService interface {
	// Register creates a user with the given login and password
	// and issues an access token for it.
	//
	// It returns ErrUserAlreadyExists if the login is taken.
	Register(ctx context.Context, params CredentialsParams) (*TokenResult, error)

	// Login checks the credentials and issues an access token.
	//
	// It returns ErrUserNotFound if the login doesn't exist or
	// ErrUserPasswordMismatch if the password doesn't match.
	Login(ctx context.Context, params CredentialsParams) (*TokenResult, error)

	// ParseToken verifies the token signature and returns its claims
	// or ErrInvalidToken.
	ParseToken(token string) (*TokenClaims, error)
}

type UserService interface {
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTasks lists the user's tasks ordered by creation time.
	// An empty result is not an error.
	GetTasks(ctx context.Context, params GetTasksParams) ([]*models.Task, error)

	// GetTask, UpdateTask and DeleteTask return ErrTaskNotFound for an unknown
	// task and ErrTaskAccessDenied for a task owned by another user.
	GetTask(ctx context.Context, params TaskParams) (*models.Task, error)

	// UpdateTask applies the patch and appends one task log per changed field
	// in the same transaction.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	DeleteTask(ctx context.Context, params TaskParams) error
}

type TaskLogService interface {
	// GetTaskLogs follows the same ownership rules as TaskService.GetTask.
	GetTaskLogs(ctx context.Context, params TaskParams) ([]*models.TaskLog, error)
}

type CredentialsParams struct {
	Login    string
	Password string
}

type TokenResult struct {
	UserID      int64
	AccessToken string
}

type CreateTaskParams struct {
	UserID       int64
	Name         string
	Description  string
	Status       models.TaskStatus
	CompletionAt *time.Time
}

type GetTasksParams struct {
	UserID int64
	Status *models.TaskStatus
	// CompletionBefore keeps tasks completed on or before the date.
	CompletionBefore *time.Time
}

type TaskParams struct {
	ID     int64
	UserID int64
}

type UpdateTaskParams struct {
	ID     int64
	UserID int64
	Patch  models.TaskPatch
}
