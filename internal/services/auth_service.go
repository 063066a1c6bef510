package services

import (
	"context"
	"errors"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-tracker/internal/models"
)

type authServiceImpl struct {
	logger       zerolog.Logger
	pgPool       PgxPool
	tokens       *TokenManager
	passwordSalt string
	hashParams   *argon2id.Params
}

func NewAuthService(
	logger zerolog.Logger,
	pgPool PgxPool,
	tokens *TokenManager,
	passwordSalt string,
) AuthService {
	return &authServiceImpl{
		logger:       logger,
		pgPool:       pgPool,
		tokens:       tokens,
		passwordSalt: passwordSalt,
		hashParams:   argon2id.DefaultParams,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params CredentialsParams) (*TokenResult, error) {
	user := models.User{
		Login: params.Login,
	}

	passwordHash, err := argon2id.CreateHash(s.saltPassword(params.Password), s.hashParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.Password = passwordHash

	const insertUserQuery = `
INSERT INTO users (login,
                   password)
VALUES ($1, $2)
RETURNING id
`
	err = s.pgPool.QueryRow(
		ctx,
		insertUserQuery,
		user.Login,
		user.Password,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.UniqueViolation {
				s.logger.Error().
					Str("login", user.Login).
					Msg("user with this login already exists")
				return nil, ErrUserAlreadyExists
			}
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Str("login", user.Login).
		Msg("inserted user")

	accessToken, err := s.tokens.Issue(user.Login)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to issue access token")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Msg("registered user")
	return &TokenResult{
		UserID:      user.ID,
		AccessToken: accessToken,
	}, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params CredentialsParams) (*TokenResult, error) {
	user := models.User{
		Login: params.Login,
	}

	const selectUserByLoginQuery = `
SELECT id,
       password
FROM users
WHERE login = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserByLoginQuery,
		user.Login,
	).Scan(
		&user.ID,
		&user.Password,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
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
		Msg("selected user")

	match, err := argon2id.ComparePasswordAndHash(s.saltPassword(params.Password), user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Error().
			Int64("user_id", user.ID).
			Msg("passwords do not match")
		return nil, ErrUserPasswordMismatch
	}

	accessToken, err := s.tokens.Issue(user.Login)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to issue access token")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Msg("issued token")
	return &TokenResult{
		UserID:      user.ID,
		AccessToken: accessToken,
	}, nil
}

func (s *authServiceImpl) ParseToken(token string) (*TokenClaims, error) {
	return s.tokens.Parse(token)
}

func (s *authServiceImpl) saltPassword(password string) string {
	return password + s.passwordSalt
}
