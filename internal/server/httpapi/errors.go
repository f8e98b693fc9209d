package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
)

var errBadBody = common.NewFailure(common.ErrValidation, "Request body is not valid JSON")

// statusFor maps a failure kind to an HTTP status.
func statusFor(err error) int {
	switch common.KindOf(err) {
	case common.ErrValidation:
		return http.StatusBadRequest
	case common.ErrConflict:
		return http.StatusConflict
	case common.ErrNotFound:
		return http.StatusNotFound
	case common.ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Msg string `json:"msg"`
}

// writeError answers with {"msg": ...}. Internal failures are logged with
// their cause; the client only sees common.InternalMessage.
func writeError(w http.ResponseWriter, r *http.Request, l logging.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		l.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Msg: common.Message(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into v. An empty body leaves v untouched so the
// service reports the missing fields itself.
func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return errBadBody
	}
	return nil
}
