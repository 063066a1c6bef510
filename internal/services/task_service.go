package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-tracker/internal/models"
)

const selectTaskColumns = `
SELECT id,
       user_id,
       name,
       description,
       status,
       created_at,
       completion_at
FROM tasks
`

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool PgxPool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool PgxPool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	task := &models.Task{
		UserID:       params.UserID,
		Name:         params.Name,
		Description:  params.Description,
		Status:       params.Status,
		CompletionAt: params.CompletionAt,
	}

	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   name,
                   description,
                   status,
                   completion_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.Name,
		task.Description,
		string(task.Status),
		task.CompletionAt,
	).Scan(
		&task.ID,
		&task.CreatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", task.UserID).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTasks(ctx context.Context, params GetTasksParams) ([]*models.Task, error) {
	query := selectTaskColumns + "WHERE user_id = $1"
	args := []any{params.UserID}
	if params.Status != nil {
		args = append(args, string(*params.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if params.CompletionBefore != nil {
		args = append(args, *params.CompletionBefore)
		query += fmt.Sprintf(" AND completion_at <= $%d", len(args))
	}
	query += "\nORDER BY created_at, id"

	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", params.UserID).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := new(models.Task)
		err = scanTask(rows, task)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Int64("user_id", params.UserID).
		Msg("selected tasks by user id")

	return tasks, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, params TaskParams) (*models.Task, error) {
	task, err := s.selectOwnedTask(ctx, s.pgPool, params, false)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("selected task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	task, err := s.selectOwnedTask(ctx, tx, TaskParams{
		ID:     params.ID,
		UserID: params.UserID,
	}, true)
	if err != nil {
		return nil, err
	}

	changes := task.Apply(params.Patch)
	if len(changes) == 0 {
		s.logger.Debug().
			Int64("task_id", task.ID).
			Msg("no fields to update")
		return task, nil
	}

	const insertTaskLogQuery = `
INSERT INTO task_logs (task_id,
                       log)
VALUES ($1, $2)
`
	for _, change := range changes {
		column, value := taskColumnValue(task, change.Field)
		_, err = tx.Exec(
			ctx,
			fmt.Sprintf("UPDATE tasks SET %s = $1 WHERE id = $2", column),
			value,
			task.ID,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int64("task_id", task.ID).
				Str("field", string(change.Field)).
				Msg("failed to update task field")
			return nil, err
		}

		_, err = tx.Exec(
			ctx,
			insertTaskLogQuery,
			task.ID,
			change.String(),
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int64("task_id", task.ID).
				Msg("failed to insert task log")
			return nil, err
		}
		s.logger.Debug().
			Int64("task_id", task.ID).
			Str("field", string(change.Field)).
			Str("value", change.New).
			Msg("updated task field")
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int("changes", len(changes)).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params TaskParams) error {
	err := checkTaskOwner(ctx, s.logger, s.pgPool, params)
	if err != nil {
		return err
	}

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		params.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", params.ID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Int64("task_id", params.ID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Int64("task_id", params.ID).
		Int64("user_id", params.UserID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) selectOwnedTask(
	ctx context.Context,
	q rowQuerier,
	params TaskParams,
	forUpdate bool,
) (*models.Task, error) {
	query := selectTaskColumns + "WHERE id = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}

	task := new(models.Task)
	err := scanTask(q.QueryRow(ctx, query, params.ID), task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Int64("task_id", params.ID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", params.ID).
			Msg("failed to select task")
		return nil, err
	}

	if task.UserID != params.UserID {
		s.logger.Error().
			Int64("task_id", task.ID).
			Int64("user_id", params.UserID).
			Msg("task belongs to another user")
		return nil, ErrTaskAccessDenied
	}
	return task, nil
}

// checkTaskOwner returns ErrTaskNotFound or ErrTaskAccessDenied
// unless the task exists and belongs to params.UserID.
func checkTaskOwner(ctx context.Context, logger zerolog.Logger, q rowQuerier, params TaskParams) error {
	const selectTaskOwnerQuery = `
SELECT user_id
FROM tasks
WHERE id = $1
`
	var ownerID int64
	err := q.QueryRow(
		ctx,
		selectTaskOwnerQuery,
		params.ID,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Error().
				Int64("task_id", params.ID).
				Msg("task not found")
			return ErrTaskNotFound
		}

		logger.Error().
			Err(err).
			Int64("task_id", params.ID).
			Msg("failed to select task owner")
		return err
	}

	if ownerID != params.UserID {
		logger.Error().
			Int64("task_id", params.ID).
			Int64("user_id", params.UserID).
			Msg("task belongs to another user")
		return ErrTaskAccessDenied
	}
	return nil
}

func scanTask(row pgx.Row, task *models.Task) error {
	return row.Scan(
		&task.ID,
		&task.UserID,
		&task.Name,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
		&task.CompletionAt,
	)
}

func taskColumnValue(task *models.Task, field models.TaskField) (string, any) {
	switch field {
	case models.FieldName:
		return "name", task.Name
	case models.FieldDescription:
		return "description", task.Description
	case models.FieldStatus:
		return "status", string(task.Status)
	case models.FieldCompletionAt:
		return "completion_at", task.CompletionAt
	default:
		panic(fmt.Sprintf("unknown task field: %s", field))
	}
}
