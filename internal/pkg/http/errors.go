package http

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "inspecciones/webapp/internal/pkg/errors"
	jsonpkg "inspecciones/webapp/internal/pkg/json"
)

var ErrBodyTooLarge = errors.New("request body too large")

// WriteError writes {"error":{"message":...,"status":...}}. HTTPError values
// keep their status code; anything else is reported as 500.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	var httpErr *apperrors.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.StatusCode
		msg = httpErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoded, _ := jsonpkg.MarshalString(msg)
	_, _ = w.Write([]byte(`{"error":{"message":` + encoded + `,"status":`))
	_, _ = w.Write([]byte(strconv.Itoa(status)))
	_, _ = w.Write([]byte(`}}`))
}
