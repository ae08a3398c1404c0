package formstore

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"inspecciones/webapp/internal/logger"
)

const DefaultPrefix = "inspection_form"

type Options struct {
	// Prefix namespaces keys as "{Prefix}_{id}". Defaults to DefaultPrefix.
	Prefix string
	// Retention defaults to DefaultRetention.
	Retention time.Duration
	// Insecure drops the Secure attribute, for plain-HTTP development.
	Insecure bool
	Now      func() time.Time
}

// Store persists one form snapshot per inspection id. It is a best-effort
// cache: no method returns an error, failures collapse to false, absent or 0.
type Store struct {
	medium    Medium
	prefix    string
	retention time.Duration
	insecure  bool
	now       func() time.Time
}

func NewStore(medium Medium, opts Options) *Store {
	s := &Store{
		medium:    medium,
		prefix:    opts.Prefix,
		retention: opts.Retention,
		insecure:  opts.Insecure,
		now:       opts.Now,
	}
	if s.prefix == "" {
		s.prefix = DefaultPrefix
	}
	if s.retention <= 0 {
		s.retention = DefaultRetention
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Store) Key(entityID int) string {
	return s.prefix + "_" + strconv.Itoa(entityID)
}

func (s *Store) Retention() time.Duration { return s.retention }

// Save replaces the snapshot for entityID with state, stamped with the
// current time. It reports false if encoding or the write failed, in which
// case any previous snapshot is left as it was.
func (s *Store) Save(entityID int, state State) bool {
	if s.medium == nil || entityID <= 0 {
		return false
	}

	now := s.now()
	value, err := Encode(newSnapshot(entityID, state, now))
	if err != nil {
		logger.Debug("form draft %d not saved: %v", entityID, err)
		return false
	}
	attrs := s.attributes(now.Add(s.retention))
	attrs.MaxAge = int(s.retention / time.Second)
	if err := s.medium.Set(s.Key(entityID), value, attrs); err != nil {
		logger.Debug("form draft %d not saved (%d bytes): %v", entityID, len(value), err)
		return false
	}
	return true
}

// Inspect reads and classifies the entry for entityID. Expired and corrupt
// entries are deleted before returning.
func (s *Store) Inspect(entityID int) Result {
	if s.medium == nil || entityID <= 0 {
		return Result{Status: StatusAbsent}
	}

	key := s.Key(entityID)
	raw, ok := s.medium.Get(key)
	if !ok {
		return Result{Status: StatusAbsent}
	}
	return s.classify(entityID, key, raw, s.now())
}

func (s *Store) Load(entityID int) (Snapshot, bool) {
	r := s.Inspect(entityID)
	if !r.Found() {
		return Snapshot{}, false
	}
	return r.Snapshot, true
}

// Clear removes the entry for entityID whatever its state.
func (s *Store) Clear(entityID int) bool {
	if s.medium == nil || entityID <= 0 {
		return false
	}
	return s.remove(s.Key(entityID)) == nil
}

// HasData reports whether a valid snapshot with at least one item exists.
func (s *Store) HasData(entityID int) bool {
	snap, ok := s.Load(entityID)
	return ok && len(snap.Items) > 0
}

// ListSavedEntityIDs returns the ids of every namespaced entry, valid or not,
// in ascending order.
func (s *Store) ListSavedEntityIDs() []int {
	ids := []int{}
	if s.medium == nil {
		return ids
	}
	for _, name := range s.medium.Names() {
		if id, ok := s.parseKey(name); ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// ClearAll clears every saved entry and returns how many were removed.
func (s *Store) ClearAll() int {
	cleared := 0
	for _, id := range s.ListSavedEntityIDs() {
		if s.Clear(id) {
			cleared++
		}
	}
	return cleared
}

// CleanupExpired removes every entry that fails to decode or is past the
// retention window, and returns the number removed.
func (s *Store) CleanupExpired() int {
	if s.medium == nil {
		return 0
	}

	now := s.now()
	removed := 0
	for _, id := range s.ListSavedEntityIDs() {
		key := s.Key(id)
		raw, ok := s.medium.Get(key)
		if !ok {
			continue
		}
		switch s.classify(id, key, raw, now).Status {
		case StatusExpired, StatusCorrupt:
			removed++
		}
	}
	if removed > 0 {
		logger.Info("Removed %d stale form drafts", removed)
	}
	return removed
}

// MeasureSize returns the stored byte length of the valid snapshot for
// entityID, or 0 when there is none.
func (s *Store) MeasureSize(entityID int) int {
	r := s.Inspect(entityID)
	if !r.Found() {
		return 0
	}
	return len(r.Raw)
}

func (s *Store) classify(entityID int, key, raw string, now time.Time) Result {
	snap, err := Decode(raw)
	if err == nil {
		switch snap.EntityID {
		case 0:
			snap.EntityID = entityID
		case entityID:
		default:
			err = fmt.Errorf("%w: key %s holds id %d", ErrCorrupt, key, snap.EntityID)
		}
	}
	if err != nil {
		logger.Debug("dropping corrupt form draft %s: %v", key, err)
		_ = s.remove(key)
		return Result{Status: StatusCorrupt, Raw: raw, Err: err}
	}

	if IsExpired(snap.CreatedTime(), now, s.retention) {
		logger.Debug("dropping expired form draft %s (created %s)", key, snap.CreatedTime().Format(time.RFC3339))
		_ = s.remove(key)
		return Result{Status: StatusExpired, Snapshot: snap}
	}
	return Result{Status: StatusFound, Snapshot: snap, Raw: raw}
}

func (s *Store) remove(key string) error {
	return s.medium.Delete(key, s.attributes(time.Time{}))
}

// parseKey accepts only the exact form Key produces.
func (s *Store) parseKey(name string) (int, bool) {
	suffix, ok := strings.CutPrefix(name, s.prefix+"_")
	if !ok || suffix == "" {
		return 0, false
	}
	id, err := strconv.Atoi(suffix)
	if err != nil || id <= 0 || strconv.Itoa(id) != suffix {
		return 0, false
	}
	return id, true
}

func (s *Store) attributes(expires time.Time) Attributes {
	return Attributes{
		Path:     "/",
		Expires:  expires,
		Secure:   !s.insecure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
