package http

import (
	"bytes"
	"io"
	"net/http"

	jsonpkg "inspecciones/webapp/internal/pkg/json"
)

// WriteJSON encodes v with the project codec and writes it with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	b, err := jsonpkg.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// DecodeJSON reads the request body into v. An empty body leaves v untouched
// and reports empty=true.
func DecodeJSON(r *http.Request, limit int64, v any) (empty bool, err error) {
	body, err := readLimited(r, limit)
	if err != nil {
		return false, err
	}
	if len(body) == 0 {
		return true, nil
	}
	return false, jsonpkg.Unmarshal(body, v)
}

func readLimited(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, ErrBodyTooLarge
	}
	return bytes.TrimSpace(body), nil
}
