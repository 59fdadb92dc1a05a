package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
)

// Application error codes. They loosely map to HTTP status codes, but exist
// so that the services can express failure kinds without knowing about HTTP.
const (
	ECONFLICT     = "conflict"
	EINTERNAL     = "internal"
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	EPRECONDITION = "precondition"
	EUNAUTHORIZED = "unauthorized"
)

// Predefined errors for conditions that several services share.
var (
	IdInvalid   = Errorf(EINVALID, "The provided Id is invalid.")
	UserIdValid = Errorf(EINVALID, "A valid user Id is required.")
)

// Error is an application error. Code is machine-readable, Message is
// human-readable and safe to show to the user.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. It's not meant to be shown to the
// user, only to appear in logs.
func (e *Error) Error() string {
	return fmt.Sprintf("error: code=%s message=%s", e.Code, e.Message)
}

// Errorf constructs a new Error with the given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return a generic message, so that internal
// details never leak out to the user.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// codes maps the application error codes to HTTP status codes.
var codes = map[string]int{
	ECONFLICT:     http.StatusConflict,
	EINVALID:      http.StatusBadRequest,
	ENOTFOUND:     http.StatusNotFound,
	EPRECONDITION: http.StatusPreconditionFailed,
	EUNAUTHORIZED: http.StatusUnauthorized,
	EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code belonging to an app error code.
func ErrorStatusCode(code string) int {
	if status, ok := codes[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the uniform envelope returned for every failed request.
// Status is always "error", so clients never need to inspect HTTP status
// codes to tell success from failure.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ReturnError writes an error response to the client. Internal errors get
// logged and replaced with a generic message before going out.
func ReturnError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := ErrorCode(err), ErrorMessage(err)
	if code == EINTERNAL {
		LogError(r, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ErrorStatusCode(code))
	json.NewEncoder(w).Encode(&ErrorResponse{Status: "error", Message: message})
}

// LogError logs an error together with the request method and url.
func LogError(r *http.Request, err error) {
	log.Printf("[http] error: %s %s: %s", r.Method, r.URL.Path, err)
}
