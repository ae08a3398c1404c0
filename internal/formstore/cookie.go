package formstore

import (
	"net/http"
	"sort"
	"time"
)

// CookieMedium exposes one request's cookies as a Medium. Writes go out as
// Set-Cookie headers on w and are also recorded locally, so later reads in
// the same request see them.
type CookieMedium struct {
	w       http.ResponseWriter
	base    map[string]string
	pending map[string]*string // nil value marks a deletion
}

func NewCookieMedium(w http.ResponseWriter, r *http.Request) *CookieMedium {
	m := &CookieMedium{
		w:       w,
		base:    make(map[string]string),
		pending: make(map[string]*string),
	}
	if r != nil {
		for _, c := range r.Cookies() {
			// First occurrence wins, matching http.Request.Cookie.
			if _, seen := m.base[c.Name]; !seen {
				m.base[c.Name] = c.Value
			}
		}
	}
	return m
}

func (m *CookieMedium) Get(name string) (string, bool) {
	if v, ok := m.pending[name]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	v, ok := m.base[name]
	return v, ok
}

func (m *CookieMedium) Set(name, value string, attrs Attributes) error {
	if m.w == nil {
		return ErrNoMedium
	}
	if err := checkSize(name, value); err != nil {
		return err
	}

	c := m.cookie(name, value, attrs)
	if !attrs.Expires.IsZero() {
		c.Expires = attrs.Expires.UTC()
	}
	if attrs.MaxAge > 0 {
		c.MaxAge = attrs.MaxAge
	}
	if err := c.Valid(); err != nil {
		return err
	}

	http.SetCookie(m.w, c)
	m.pending[name] = &value
	return nil
}

func (m *CookieMedium) Delete(name string, attrs Attributes) error {
	if m.w == nil {
		return ErrNoMedium
	}

	c := m.cookie(name, "", attrs)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0).UTC()
	if err := c.Valid(); err != nil {
		return err
	}

	http.SetCookie(m.w, c)
	m.pending[name] = nil
	return nil
}

func (m *CookieMedium) Names() []string {
	seen := make(map[string]struct{}, len(m.base)+len(m.pending))
	for name := range m.base {
		seen[name] = struct{}{}
	}
	for name, v := range m.pending {
		if v == nil {
			delete(seen, name)
			continue
		}
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *CookieMedium) cookie(name, value string, attrs Attributes) *http.Cookie {
	path := attrs.Path
	if path == "" {
		path = "/"
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Secure:   attrs.Secure,
		HttpOnly: attrs.HttpOnly,
		SameSite: attrs.SameSite,
	}
}
