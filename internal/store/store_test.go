package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/datamgr/internal/model"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory(WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// failingBackend reads like an empty store but refuses writes.
type failingBackend struct {
	readErr error
	data    map[string][]byte
}

func (f *failingBackend) Read(key string) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (f *failingBackend) Write(string, []byte) error { return errors.New("quota exceeded") }
func (f *failingBackend) Close() error { return nil }

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s := newTestStore(t)

	b := s.kv.(*sqliteBackend)
	var version int
	b.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "datamgr.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveTags([]model.Tag{{ID: "x", Name: "X", Color: "red"}}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: should not re-migrate and should keep data.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	tags := s2.LoadTags()
	if len(tags) != 1 || tags[0].ID != "x" {
		t.Fatalf("tags not persisted across reopen: %+v", tags)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.kv.(*sqliteBackend).migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestDefaultDataDir(t *testing.T) {
	dir, err := DefaultDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(dir) != "datamgr" {
		t.Fatalf("unexpected data dir %q", dir)
	}
}

func TestOpenBackends(t *testing.T) {
	for _, backend := range []string{BackendSQLite, BackendDiskv} {
		t.Run(backend, func(t *testing.T) {
			s, err := Open(backend, t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			defer s.Close()

			if got := len(s.LoadEntries()); got != 4 {
				t.Fatalf("expected 4 seed entries, got %d", got)
			}
			if err := s.SaveEntries(nil); err != nil {
				t.Fatal(err)
			}
			if got := s.LoadEntries(); len(got) != 0 {
				t.Fatalf("expected empty list after saving [], got %d", len(got))
			}
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

// ============================================================
// Load / save
// ============================================================

func TestLoadEntriesSeedsOnFirstRun(t *testing.T) {
	s := newTestStore(t)

	entries := s.LoadEntries()
	if len(entries) != 4 {
		t.Fatalf("expected 4 seed entries, got %d", len(entries))
	}
	if entries[0].CreatedAt != model.Timestamp(fixedNow) {
		t.Fatalf("seed timestamp = %q", entries[0].CreatedAt)
	}

	// The seed must have been written back.
	raw, err := s.kv.Read(EntriesKey)
	if err != nil {
		t.Fatalf("seed not persisted: %v", err)
	}
	var stored []model.Entry
	if err := json.Unmarshal(raw, &stored); err != nil || len(stored) != 4 {
		t.Fatalf("persisted seed unreadable: %v (%d)", err, len(stored))
	}
}

func TestLoadTagsSeedsOnFirstRun(t *testing.T) {
	s := newTestStore(t)
	tags := s.LoadTags()
	if len(tags) != 6 {
		t.Fatalf("expected 6 seed tags, got %d", len(tags))
	}
	if _, err := s.kv.Read(TagsKey); err != nil {
		t.Fatalf("seed tags not persisted: %v", err)
	}
}

func TestLoadCorruptDocumentHeals(t *testing.T) {
	for _, raw := range []string{"{not json", "null", `{"entries":[]}`} {
		s := newTestStore(t)
		s.kv.Write(EntriesKey, []byte(raw))

		entries := s.LoadEntries()
		if len(entries) != 4 {
			t.Fatalf("%q: expected seed fallback, got %d entries", raw, len(entries))
		}
		stored, _ := s.kv.Read(EntriesKey)
		var list []model.Entry
		if err := json.Unmarshal(stored, &list); err != nil || len(list) != 4 {
			t.Fatalf("%q: corrupt document was not replaced", raw)
		}
	}
}

func TestLoadReadErrorDoesNotOverwrite(t *testing.T) {
	fb := &failingBackend{readErr: errors.New("disk on fire")}
	s := NewWithBackend(fb)

	if got := len(s.LoadEntries()); got != 4 {
		t.Fatalf("expected seed fallback, got %d", got)
	}
	if got := len(s.LoadTags()); got != 6 {
		t.Fatalf("expected seed tags, got %d", got)
	}
}

// unreadableBackend fails every read but accepts writes.
type unreadableBackend struct {
	writes map[string][]byte
}

func (u *unreadableBackend) Read(string) ([]byte, error) { return nil, errors.New("i/o error") }
func (u *unreadableBackend) Write(key string, value []byte) error {
	u.writes[key] = value
	return nil
}
func (u *unreadableBackend) Close() error { return nil }

func TestSaveAfterReadErrorIsRefused(t *testing.T) {
	ub := &unreadableBackend{writes: map[string][]byte{}}
	s := NewWithBackend(ub)

	if s.Degraded() {
		t.Fatal("store should not be degraded before loading")
	}
	entries := s.LoadEntries()
	if !s.Degraded() {
		t.Fatal("read error should mark the store degraded")
	}

	err := s.SaveEntries(append(entries, model.Entry{ID: "new"}))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
	if _, ok := ub.writes[EntriesKey]; ok {
		t.Fatal("seed data must not overwrite an unreadable document")
	}

	// tags were never loaded, so they still save
	if err := s.SaveTags(DefaultTags()); err != nil {
		t.Fatalf("unrelated document should save: %v", err)
	}
}

func TestSQLiteDocumentsTable(t *testing.T) {
	s := newTestStore(t)
	b, ok := s.kv.(*sqliteBackend)
	if !ok {
		t.Fatal("memory store should use the sqlite backend")
	}
	var name string
	err := b.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'documents'`).Scan(&name)
	if err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
}

func TestHealthyStoreIsNotDegraded(t *testing.T) {
	s := newTestStore(t)
	s.LoadEntries()
	s.LoadTags()
	if s.Degraded() {
		t.Fatal("fresh store should not be degraded")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	in := []model.Entry{{
		ID:        "a",
		Country:   "FR",
		MachineID: "SRV-A",
		Priority:  model.PriorityLow,
		Status:    model.StatusError,
		Tags:      []string{"1", "gone"},
		Email:     model.EmailYes,
		Auth:      model.AuthPass,
		Stores:    []model.StoreRecord{{ID: "s1", Name: "Main"}},
		CreatedAt: "2024-01-01T00:00:00.000Z",
		UpdatedAt: "2024-01-02T00:00:00.000Z",
	}}
	if err := s.SaveEntries(in); err != nil {
		t.Fatal(err)
	}
	out := s.LoadEntries()
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	got := out[0]
	if got.ID != "a" || got.Email != model.EmailYes || got.Auth != model.AuthPass ||
		len(got.Stores) != 1 || got.Stores[0].Name != "Main" || len(got.Tags) != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLoadNormalisesMissingTags(t *testing.T) {
	s := newTestStore(t)
	s.kv.Write(EntriesKey, []byte(`[{"id":"a","machineId":"X","priority":"low","status":"active"}]`))
	entries := s.LoadEntries()
	if entries[0].Tags == nil {
		t.Fatal("tags should be normalised to an empty list")
	}
}

func TestSaveFailureIsReturned(t *testing.T) {
	s := NewWithBackend(&failingBackend{data: map[string][]byte{}})
	if err := s.SaveEntries(DefaultEntries(fixedNow)); err == nil {
		t.Fatal("expected write error to surface")
	}
}

func TestEntriesAndTagsAreIndependent(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveTags([]model.Tag{}); err != nil {
		t.Fatal(err)
	}
	if got := len(s.LoadTags()); got != 0 {
		t.Fatalf("expected empty tags, got %d", got)
	}
	// Entries were never written, so they still seed; their tag ids dangle.
	if got := len(s.LoadEntries()); got != 4 {
		t.Fatalf("expected seed entries, got %d", got)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettings(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSetting(SettingTheme); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SetSetting(SettingTheme, "plain"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSetting(SettingTheme, "terminal"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting(SettingTheme)
	if err != nil || v != "terminal" {
		t.Fatalf("GetSetting = %q, %v", v, err)
	}
}

func TestDiskvSettings(t *testing.T) {
	s, err := NewDiskv(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetSetting(SettingTheme, "plain"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting(SettingTheme)
	if err != nil || v != "plain" {
		t.Fatalf("GetSetting = %q, %v", v, err)
	}
}
