package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/critpath/pkg/errors"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Task      string `json:"task,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func errNotFound(path string) error {
	return errs.New(errs.ErrCodeNotFound, "no route for %s", path)
}

func errMethodNotAllowed(method, path string) error {
	return errs.New(errs.ErrCodeInvalidInput, "method %s not allowed on %s", method, path)
}

// statusFor maps an error to its HTTP status. A well-formed request whose
// task document cannot be scheduled is a 422, a bad option or path a 400.
// Engine contract violations and unclassified failures are a 500.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeCycleDetected, errs.ErrCodeInvalidGraph:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeInvalidOption, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON envelope with the status [statusFor]
// picks.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorStatus(w, r, statusFor(err), err)
}

// writeErrorStatus writes err with an explicit status. Messages of
// server-side failures are logged, not exposed.
func writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := errs.GetCode(err)
	msg := errs.UserMessage(err)
	switch status {
	case http.StatusRequestEntityTooLarge:
		code, msg = errs.ErrCodeInvalidInput, "request body too large"
	case http.StatusGatewayTimeout:
		code, msg = errs.ErrCodeTimeout, "request timed out"
	case http.StatusInternalServerError:
		loggerFromContext(r.Context()).Error("request failed", "err", err)
		code, msg = errs.ErrCodeInternal, "internal error"
	}

	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      string(code),
		Message:   msg,
		Task:      errs.GetTask(err),
		RequestID: requestIDFromContext(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
