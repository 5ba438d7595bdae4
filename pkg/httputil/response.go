package httputil

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/deplayer/pkg/errors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an [ErrorBody]. Errors without a code are
// reported as INTERNAL_ERROR, except context deadlines which map to TIMEOUT.
func WriteError(w http.ResponseWriter, err error) {
	body := ErrorFor(err)
	WriteJSON(w, errors.HTTPStatus(body.Code), body)
}

// ErrorFor converts err to its response body.
func ErrorFor(err error) ErrorBody {
	code := errors.GetCode(err)
	switch {
	case code != "":
	case stderrors.Is(err, context.DeadlineExceeded):
		code = errors.ErrCodeTimeout
	default:
		code = errors.ErrCodeInternal
	}
	return ErrorBody{Code: code, Message: errors.UserMessage(err)}
}
