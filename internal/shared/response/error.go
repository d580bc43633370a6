package response

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"planets-client/internal/shared/errors"
)

// ErrorResponse represents the JSON error body written by the fake planet service
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Error logs an error and sends a JSON error response
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	statusCode := mapErrorTypeToStatusCode(errorType, errors.StatusCode(err))

	logger.With(
		"method", r.Method,
		"path", r.URL.Path,
		"error_type", errorType,
		"status_code", statusCode,
	).Debug("Request failed", "error", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   string(errorType),
		Message: err.Error(),
		Code:    statusCode,
	})
}

// Success sends a JSON success response
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		// The status code has already been sent
		_ = json.NewEncoder(w).Encode(data)
	}
}

func mapErrorTypeToStatusCode(errorType errors.ErrorType, statusCode int) int {
	switch errorType {
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeValidation, errors.ErrorTypeDecode:
		return http.StatusBadRequest
	case errors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrorTypeRejected:
		if statusCode != 0 {
			return statusCode
		}
		return http.StatusBadGateway
	case errors.ErrorTypeTransport:
		return http.StatusServiceUnavailable
	case errors.ErrorTypeInternal:
		fallthrough
	default:
		return http.StatusInternalServerError
	}
}

// Message turns a client-side error into the one-line text shown in an alert.
// It never offers a retry; the user re-issues the action.
func Message(action string, err error) string {
	switch errors.GetType(err) {
	case errors.ErrorTypeTransport:
		return fmt.Sprintf("Could not %s: the planet service is unreachable", action)
	case errors.ErrorTypeRejected:
		code := errors.StatusCode(err)
		return fmt.Sprintf("Could not %s: the planet service answered %d %s", action, code, http.StatusText(code))
	case errors.ErrorTypeDecode:
		return fmt.Sprintf("Could not %s: the planet service sent an unreadable response", action)
	case errors.ErrorTypeValidation:
		return fmt.Sprintf("Could not %s: %s", action, validationMessage(err))
	default:
		return fmt.Sprintf("Could not %s: %v", action, err)
	}
}

func validationMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
