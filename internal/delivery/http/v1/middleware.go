package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adanyl0v/task-tracker/internal/services"
)

const (
	requestIDHeader = "X-Request-ID"

	requestIDCtxKey = "request_id"
	claimsCtxKey    = "claims"
)

func (h *handlerImpl) HandleRequestLogMiddleware(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if _, err := uuid.Parse(requestID); err != nil {
		requestID = uuid.NewString()
	}
	c.Set(requestIDCtxKey, requestID)
	c.Header(requestIDHeader, requestID)

	start := time.Now()
	c.Next()

	h.logger.Info().
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Dur("latency", time.Since(start)).
		Msg("handled request")
}

// HandleAuthMiddleware stores the bearer token claims on the context.
// Requests without the Authorization header pass through anonymously.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		c.Next()
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
		h.logger.Error().Msg("invalid authorization header")
		abort(c, newUnauthorizedError(errInvalidAuthToken.Error()))
		return
	}

	claims, err := h.auth.ParseToken(parts[1])
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse token")
		abort(c, newUnauthorizedError(errInvalidAuthToken.Error()))
		return
	}

	c.Set(claimsCtxKey, claims)
	c.Next()
}

// LoginRequired resolves the token claims to a user and passes it to next.
func (h *handlerImpl) LoginRequired(next AuthorizedHandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := getClaimsFromContext(c)
		if !ok {
			h.logger.Error().Msg("no token claims found in context")
			abort(c, newUnauthorizedError(errAuthorizationRequired.Error()))
			return
		}

		user, err := h.users.GetUserByLogin(c, claims.Username)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				h.logger.Error().
					Str("login", claims.Username).
					Msg("token user not found")
				abort(c, newUnauthorizedError(errAuthorizationRequired.Error()))
				return
			}

			h.logger.Error().
				Err(err).
				Msg("failed to get token user")
			abort(c, newStatusTextError(http.StatusInternalServerError))
			return
		}

		next(c, user)
	}
}

func getClaimsFromContext(c *gin.Context) (*services.TokenClaims, bool) {
	value, exists := c.Get(claimsCtxKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*services.TokenClaims)
	return claims, ok
}
