package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/datamgr/internal/logging"
)

// Document keys. Entries and tags are stored, loaded and healed independently.
const (
	EntriesKey     = "data-manager-entries"
	TagsKey        = "data-manager-tags"
	settingsPrefix = "data-manager-setting-"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
)

// ErrNotFound is returned by a Backend when a key has never been written.
var ErrNotFound = errors.New("not found")

// ErrUnreadable is returned when saving a document whose stored copy could
// not be read. The stored copy is left untouched.
var ErrUnreadable = errors.New("stored document could not be read")

// Backend is a flat key-value store holding whole JSON documents.
type Backend interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
	Close() error
}

// Store is the persistence adapter: it reads and writes the entry list, the
// tag list and UI settings as independent documents.
type Store struct {
	kv  Backend
	log logging.Logger
	now func() time.Time

	// keys whose load hit a backend error; saves to them are refused
	unreadable map[string]bool
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l.With("component", "store") }
}

// WithClock overrides the clock used to stamp seed data.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func newStore(kv Backend, opts ...Option) *Store {
	s := &Store{kv: kv, log: logging.NewNop(), now: time.Now, unreadable: map[string]bool{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string, opts ...Option) (*Store, error) {
	kv, err := openSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	return newStore(kv, opts...), nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory(opts ...Option) (*Store, error) {
	return New(":memory:", opts...)
}

// NewDiskv stores every document as a file under dir.
func NewDiskv(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return newStore(openDiskv(dir), opts...), nil
}

// NewWithBackend wraps an arbitrary backend.
func NewWithBackend(kv Backend, opts ...Option) *Store {
	return newStore(kv, opts...)
}

// Open selects a backend by name and places its files in dataDir.
func Open(backend, dataDir string, opts ...Option) (*Store, error) {
	switch backend {
	case BackendSQLite, "":
		return New(filepath.Join(dataDir, "datamgr.db"), opts...)
	case BackendDiskv:
		return NewDiskv(filepath.Join(dataDir, "documents"), opts...)
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

// Degraded reports whether a document failed to load and is being served
// from seed data. Saves to such documents fail with ErrUnreadable.
func (s *Store) Degraded() bool {
	return len(s.unreadable) > 0
}

func (s *Store) Close() error {
	return s.kv.Close()
}

// DefaultDataDir returns ~/.config/datamgr
func DefaultDataDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "datamgr"), nil
}

func (s *Store) write(key string, data []byte) error {
	if err := s.kv.Write(key, data); err != nil {
		s.log.Error(context.Background(), "write document", "key", key, "err", err)
		return fmt.Errorf("write %s: %w", key, err)
	}
	s.log.Debug(context.Background(), "document written", "key", key, "bytes", len(data))
	return nil
}
