package formstore

import (
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"
)

// MaxCookieBytes is the per-cookie ceiling (name + value) browsers guarantee.
const MaxCookieBytes = 4096

var (
	ErrTooLarge = errors.New("formstore: value exceeds cookie size limit")
	ErrNoMedium = errors.New("formstore: storage medium unavailable")
)

// Attributes are the cookie attributes attached to a write or a deletion.
// MaxAge is in seconds and is left unset when zero.
type Attributes struct {
	Path     string
	Expires  time.Time
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Medium is the key/value storage the store persists into.
type Medium interface {
	Get(name string) (string, bool)
	Set(name, value string, attrs Attributes) error
	Delete(name string, attrs Attributes) error
	Names() []string
}

func checkSize(name, value string) error {
	if len(name)+len(value) > MaxCookieBytes {
		return ErrTooLarge
	}
	return nil
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryMedium keeps cookies in process and drops them once their Expires
// attribute has passed, like a browser jar would.
type MemoryMedium struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryMedium(now func() time.Time) *MemoryMedium {
	if now == nil {
		now = time.Now
	}
	return &MemoryMedium{entries: make(map[string]memoryEntry), now: now}
}

func (m *MemoryMedium) Get(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[name]
	if !ok {
		return "", false
	}
	if m.expiredLocked(e) {
		delete(m.entries, name)
		return "", false
	}
	return e.value, true
}

func (m *MemoryMedium) Set(name, value string, attrs Attributes) error {
	if err := checkSize(name, value); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[name] = memoryEntry{value: value, expires: attrs.Expires}
	return nil
}

func (m *MemoryMedium) Delete(name string, _ Attributes) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, name)
	return nil
}

func (m *MemoryMedium) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.entries))
	for name, e := range m.entries {
		if m.expiredLocked(e) {
			delete(m.entries, name)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *MemoryMedium) expiredLocked(e memoryEntry) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}
