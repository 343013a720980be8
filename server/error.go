package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goccy/duckdbtype/internal/logger"
	"github.com/goccy/duckdbtype/types"
)

// ServerError is the error payload returned by every endpoint.
type ServerError struct {
	Status    int         `json:"-"`
	Reason    ErrorReason `json:"reason"`
	Location  string      `json:"location"`
	DebugInfo string      `json:"debugInfo"`
	Message   string      `json:"message"`
}

type ResponseError struct {
	Error *ErrorFormat `json:"error"`
}

type ErrorFormat struct {
	Errors  []*ServerError `json:"errors"`
	Code    int            `json:"code"`
	Message string         `json:"message"`
}

func (e *ServerError) Response() []byte {
	b, _ := json.Marshal(&ResponseError{
		Error: &ErrorFormat{
			Errors:  []*ServerError{e},
			Code:    e.Status,
			Message: e.Message,
		},
	})
	return b
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

type ErrorReason string

const (
	Duplicate     ErrorReason = "duplicate"
	InternalError ErrorReason = "internalError"
	Invalid       ErrorReason = "invalid"
	NotFound      ErrorReason = "notFound"
)

func errDuplicate(msg string) *ServerError {
	return &ServerError{
		Status:  http.StatusConflict,
		Reason:  Duplicate,
		Message: msg,
	}
}

func errInternalError(msg string) *ServerError {
	return &ServerError{
		Status:  http.StatusInternalServerError,
		Reason:  InternalError,
		Message: msg,
	}
}

func errInvalid(msg string) *ServerError {
	return &ServerError{
		Status:  http.StatusBadRequest,
		Reason:  Invalid,
		Message: msg,
	}
}

func errNotFound(msg string) *ServerError {
	return &ServerError{
		Status:  http.StatusNotFound,
		Reason:  NotFound,
		Message: msg,
	}
}

// errParse reports a type string that failed to parse.
func errParse(err error) *ServerError {
	var parseErr *types.ParseError
	if !errors.As(err, &parseErr) {
		return errInvalid(err.Error())
	}
	return &ServerError{
		Status:    http.StatusBadRequest,
		Reason:    Invalid,
		Location:  parseErr.Input,
		DebugInfo: string(parseErr.Reason),
		Message:   err.Error(),
	}
}

// errValidation reports the parse error behind a failed type tag, if any.
func errValidation(err error) *ServerError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			if e.Tag() != "type" {
				continue
			}
			if _, parseErr := types.Parse(fmt.Sprint(e.Value())); parseErr != nil {
				return errParse(parseErr)
			}
		}
	}
	return errInvalid(err.Error())
}

func errorResponse(ctx context.Context, w http.ResponseWriter, e *ServerError) {
	logger.Logger(ctx).WithOptions(zap.AddCallerSkip(1)).Error(string(e.Reason), zap.Error(e))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	w.Write(e.Response())
}
