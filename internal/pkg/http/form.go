package http

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
)

// IsForm reports whether the request body is an HTML form post.
func IsForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// DecodeForm parses a url-encoded or multipart body of at most limit bytes
// and returns the body fields only.
func DecodeForm(r *http.Request, limit int64) (url.Values, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, limit)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mt == "multipart/form-data" {
		err = r.ParseMultipartForm(limit)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, err
	}
	return r.PostForm, nil
}
