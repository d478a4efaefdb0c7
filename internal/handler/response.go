package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamarriando/user-service/internal/dto"
	"github.com/gamarriando/user-service/internal/service"
)

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Data: data, Message: message})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, dto.SuccessResponse{Data: data, Message: message})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Message: message,
		Error:   http.StatusText(http.StatusBadRequest),
	})
}

// ErrorResponder maps service errors onto HTTP statuses. Unrecognized errors
// become opaque 500s; the underlying error text is only exposed in debug mode.
type ErrorResponder struct {
	logger *zap.Logger
	debug  bool
}

func NewErrorResponder(logger *zap.Logger, debug bool) *ErrorResponder {
	return &ErrorResponder{logger: logger, debug: debug}
}

func (r *ErrorResponder) respond(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message: validationErr.Message,
			Error:   http.StatusText(http.StatusBadRequest),
			Details: validationErr.Errors,
		})
		return
	}

	status := statusForError(err)
	if status == http.StatusInternalServerError {
		r.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))

		response := dto.ErrorResponse{
			Message: "Internal server error",
			Error:   http.StatusText(status),
		}
		if r.debug {
			response.Error = err.Error()
		}
		c.JSON(status, response)
		return
	}

	c.JSON(status, dto.ErrorResponse{
		Message: err.Error(),
		Error:   http.StatusText(status),
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrWrongTokenType):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrUnknownRole):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSelfAction):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrRoleNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrRoleAlreadyGranted),
		errors.Is(err, service.ErrRoleAlreadyRevoked),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrAlreadyDeactivated),
		errors.Is(err, service.ErrUserInactive):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
