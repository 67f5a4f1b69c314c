package web

import (
	"log/slog"
	"net/http"

	"github.com/ferdiebergado/gopherkit/http/response"
)

// OKResponse is the envelope for JSON success responses. Message and
// Data are both optional; Data carries the endpoint-specific payload.
type OKResponse[T any] struct {
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// ErrorResponse is the envelope for JSON error responses. Errors holds
// field-level details and is omitted when empty.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK writes a JSON success response with the given status code.
//
// If msg is non-nil it is included under "message"; if data is non-nil
// it is included under "data".
func OK[T any](w http.ResponseWriter, status int, msg *string, data *T) {
	payload := &OKResponse[*T]{}
	if msg != nil {
		payload.Message = *msg
	}

	if data != nil {
		payload.Data = data
	}

	response.JSON(w, status, payload)
}

// Fail writes a JSON error response with the given status code. The
// reason is logged at Error level; msg is what the client sees.
func Fail(w http.ResponseWriter, status int, reason error, msg string, errs map[string]string) {
	slog.Error("request failed", "reason", reason)
	payload := &ErrorResponse{
		Message: msg,
		Errors:  errs,
	}
	response.JSON(w, status, payload)
}

func RespondBadRequest(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusBadRequest, reason, msg, errs)
}

func RespondUnauthorized(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusUnauthorized, reason, msg, errs)
}

func RespondNotFound(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusNotFound, reason, msg, errs)
}

func RespondUnprocessableEntity(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusUnprocessableEntity, reason, msg, errs)
}

func RespondRequestEntityTooLarge(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusRequestEntityTooLarge, reason, msg, errs)
}

func RespondInternalServerError(w http.ResponseWriter, reason error) {
	Fail(w, http.StatusInternalServerError, reason, "Something went wrong.", nil)
}
