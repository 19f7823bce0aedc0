package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rondagdag/audience-survey/errors"
	"github.com/rondagdag/audience-survey/internal/domain/entities"
	"github.com/rondagdag/audience-survey/pkg/jwt"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// toAppError translates domain errors into AppError
func toAppError(err error) (errors.AppError, bool) {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr, true
	}

	switch {
	case stdErrors.Is(err, entities.ErrSessionNotFound):
		return errors.ErrNotFound("Session"), true
	case stdErrors.Is(err, entities.ErrNameRequired):
		return errors.ErrSessionNameRequired(), true
	case stdErrors.Is(err, entities.ErrNoActiveSession):
		return errors.ErrNoActiveSession(), true
	case stdErrors.Is(err, entities.ErrEmptyImage):
		return errors.ErrImageMissing(), true
	case stdErrors.Is(err, entities.ErrInvalidImageType):
		return errors.ErrInvalidImageType(), true
	case stdErrors.Is(err, entities.ErrImageTooLarge):
		return errors.ErrImageTooLarge(), true
	case stdErrors.Is(err, entities.ErrImageUpload):
		return errors.ErrStorageFailed("upload", err), true
	case stdErrors.Is(err, entities.ErrExtractionNotConfigured):
		return errors.ErrExtractionNotConfigured(), true
	case stdErrors.Is(err, entities.ErrExtractionFailed):
		return errors.ErrExtractionFailed(err), true
	case stdErrors.Is(err, jwt.ErrTokenExpired):
		return errors.ErrTokenExpired(), true
	case stdErrors.Is(err, entities.ErrUnauthorized):
		return errors.ErrInvalidCredentials(), true
	case stdErrors.Is(err, entities.ErrForbidden):
		return errors.ErrForbidden("Not available in production"), true
	}
	return errors.AppError{}, false
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	if appErr, ok := toAppError(err); ok {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.String("app_code", appErr.Code.String()),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil && appErr.HTTPCode < http.StatusInternalServerError {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	internal := errors.ErrInternal(err)
	body := errs{
		Code:    internal.Code,
		Message: internal.Message,
	}

	return c.JSON(internal.HTTPCode, body)
}
