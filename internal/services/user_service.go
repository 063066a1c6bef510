package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-tracker/internal/models"
)

type userServiceImpl struct {
	logger zerolog.Logger
	pgPool PgxPool
}

func NewUserService(
	logger zerolog.Logger,
	pgPool PgxPool,
) UserService {
	return &userServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *userServiceImpl) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	user := &models.User{
		Login: login,
	}

	const selectUserByLoginQuery = `
SELECT id
FROM users
WHERE login = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserByLoginQuery,
		user.Login,
	).Scan(&user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("login", user.Login).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("login", user.Login).
			Msg("failed to select user by login")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Msg("selected user by login")

	return user, nil
}
