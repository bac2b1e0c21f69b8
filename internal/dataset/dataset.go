// Package dataset is the in-memory source of truth for entries, tags and the
// bulk-action selection. Every mutation re-saves the affected collection in
// full through a Persister and notifies subscribers.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/datamgr/internal/logging"
	"github.com/sadopc/datamgr/internal/model"
)

var (
	// ErrNotFound reports an update against an id that is not in the collection.
	ErrNotFound = errors.New("entry not found")
	// ErrPersist wraps save failures. The in-memory change is kept.
	ErrPersist = errors.New("changes not saved")
)

// Persister writes whole collections. *store.Store satisfies it.
type Persister interface {
	SaveEntries([]model.Entry) error
	SaveTags([]model.Tag) error
}

// MergeMode decides what happens to imported entries whose id already exists.
type MergeMode int

const (
	// MergeAppend prepends every imported entry, even when ids collide.
	MergeAppend MergeMode = iota
	// MergeSkipExisting drops imported entries whose id is already present.
	MergeSkipExisting
)

type ChangeKind int

const (
	EntriesChanged ChangeKind = iota
	TagsChanged
	SelectionChanged
)

type Change struct {
	Kind ChangeKind
}

type Dataset struct {
	entries  []model.Entry
	tags     []model.Tag
	selected []string

	persist   Persister
	log       logging.Logger
	now       func() time.Time
	newID     func() string
	mergeMode MergeMode

	subscribers map[int]func(Change)
	nextSub     int
}

type Option func(*Dataset)

func WithLogger(l logging.Logger) Option {
	return func(d *Dataset) { d.log = l.With("component", "dataset") }
}

func WithClock(now func() time.Time) Option {
	return func(d *Dataset) { d.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(d *Dataset) { d.newID = gen }
}

func WithMergeMode(m MergeMode) Option {
	return func(d *Dataset) { d.mergeMode = m }
}

// New takes ownership of entries and tags as loaded by the persistence layer.
func New(p Persister, entries []model.Entry, tags []model.Tag, opts ...Option) *Dataset {
	d := &Dataset{
		entries:     cloneEntries(entries),
		tags:        append([]model.Tag{}, tags...),
		persist:     p,
		log:         logging.NewNop(),
		now:         time.Now,
		newID:       uuid.NewString,
		subscribers: make(map[int]func(Change)),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Entries returns a copy of the collection in store order (newest first).
func (d *Dataset) Entries() []model.Entry {
	return cloneEntries(d.entries)
}

func (d *Dataset) Tags() []model.Tag {
	return append([]model.Tag{}, d.tags...)
}

func (d *Dataset) Len() int { return len(d.entries) }

// Get returns the first entry with id.
func (d *Dataset) Get(id string) (model.Entry, bool) {
	if i := d.index(id); i >= 0 {
		return d.entries[i].Clone(), true
	}
	return model.Entry{}, false
}

// Tag looks up a tag; dangling ids report false.
func (d *Dataset) Tag(id string) (model.Tag, bool) {
	for _, t := range d.tags {
		if t.ID == id {
			return t, true
		}
	}
	return model.Tag{}, false
}

// Subscribe registers fn for change notifications and returns a func that
// removes it.
func (d *Dataset) Subscribe(fn func(Change)) func() {
	id := d.nextSub
	d.nextSub++
	d.subscribers[id] = fn
	return func() { delete(d.subscribers, id) }
}

func (d *Dataset) notify(kind ChangeKind) {
	for _, fn := range d.subscribers {
		fn(Change{Kind: kind})
	}
}

func (d *Dataset) index(id string) int {
	for i, e := range d.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (d *Dataset) timestamp() string {
	return model.Timestamp(d.now())
}

func (d *Dataset) saveEntries() error {
	d.notify(EntriesChanged)
	if err := d.persist.SaveEntries(d.entries); err != nil {
		d.log.Warn(context.Background(), "save entries", "count", len(d.entries), "err", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

func (d *Dataset) saveTags() error {
	d.notify(TagsChanged)
	if err := d.persist.SaveTags(d.tags); err != nil {
		d.log.Warn(context.Background(), "save tags", "count", len(d.tags), "err", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

func cloneEntries(in []model.Entry) []model.Entry {
	out := make([]model.Entry, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
