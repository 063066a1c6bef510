package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-tracker/internal/models"
)

type taskLogServiceImpl struct {
	logger zerolog.Logger
	pgPool PgxPool
}

func NewTaskLogService(
	logger zerolog.Logger,
	pgPool PgxPool,
) TaskLogService {
	return &taskLogServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskLogServiceImpl) GetTaskLogs(ctx context.Context, params TaskParams) ([]*models.TaskLog, error) {
	err := checkTaskOwner(ctx, s.logger, s.pgPool, params)
	if err != nil {
		return nil, err
	}

	const selectTaskLogsQuery = `
SELECT id,
       log,
       created_at
FROM task_logs
WHERE task_id = $1
ORDER BY created_at, id
`
	rows, err := s.pgPool.Query(
		ctx,
		selectTaskLogsQuery,
		params.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", params.ID).
			Msg("failed to select task logs")
		return nil, err
	}
	defer rows.Close()

	logs := make([]*models.TaskLog, 0)
	for rows.Next() {
		log := &models.TaskLog{TaskID: params.ID}
		err = rows.Scan(
			&log.ID,
			&log.Log,
			&log.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task log")
			return nil, err
		}
		logs = append(logs, log)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(logs)).
		Int64("task_id", params.ID).
		Msg("selected task logs")

	return logs, nil
}
