package errors

import (
	"net/http"

	"github.com/gabeliss/tickX/pkg/common"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorHandler handles errors and sends appropriate HTTP responses
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		debug:  debug,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	status := HTTPStatus(err)
	code := common.StandardErrorCodes.InternalError
	message := "Internal server error"
	var details map[string]interface{}

	if appErr := GetAppError(err); appErr != nil {
		code = codeFor(appErr)
		details = appErr.Details
		if status < http.StatusInternalServerError || h.debug {
			message = appErr.Message
		}
	}

	h.logError(r, err, status)
	common.RespondErrorWithDetails(w, status, code, message, details, middleware.GetReqID(r.Context()))
}

func codeFor(appErr *AppError) string {
	if appErr.Code != "" {
		return appErr.Code
	}
	switch appErr.Type {
	case ErrorTypeValidation:
		return common.StandardErrorCodes.ValidationError
	case ErrorTypeNotFound:
		return common.StandardErrorCodes.NotFound
	case ErrorTypeUnavailable:
		return common.StandardErrorCodes.ServiceUnavailable
	default:
		return common.StandardErrorCodes.InternalError
	}
}

func (h *ErrorHandler) logError(r *http.Request, err error, status int) {
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
		return
	}
	h.logger.Info("request rejected", fields...)
}
