package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	errorKey                 = "error"
	authErrorKey = "auth_error"
)

var (
	errIncorrectData         = errors.New("incorrect data")
	errLoginAlreadyExists    = errors.New("login already exists")
	errInvalidAuthToken      = errors.New("invalid authorization token")
	errAuthorizationRequired = errors.New("Authorization required")
	errIncorrectTaskID       = errors.New("incorrect task id")
	errIncorrectStatus       = errors.New("incorrect status. available values(new, planned, in_work, completed)")
	errIncorrectStatusFilter = errors.New("incorrect status field")
	errIncorrectCompletionAt = errors.New("incorrect completion_at format (DD-MM-YYYY)")
	errTaskNotFound          = errors.New("task not found")
	errTaskAccessDenied      = errors.New("Access is denied")
)

type apiError struct {
	Code    int    `json:"code"`
	Key     string `json:"-"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Key:     errorKey,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{err.Key: err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

// newAuthError is a bad request reported under the auth_error key.
func newAuthError(message string) apiError {
	err := newBadRequestError(message)
	err.Key = authErrorKey
	return err
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newForbiddenError(message string) apiError {
	return newAPIError(http.StatusForbidden, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}
