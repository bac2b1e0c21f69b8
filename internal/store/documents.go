package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sadopc/datamgr/internal/model"
)

// LoadEntries returns the persisted entries. A missing or unparseable
// document is replaced by the seed entries, which are written back at once.
// It never fails: a backend read error yields the seed without overwriting.
func (s *Store) LoadEntries() []model.Entry {
	entries, ok := loadDocument[model.Entry](s, EntriesKey)
	if ok {
		for i := range entries {
			if entries[i].Tags == nil {
				entries[i].Tags = []string{}
			}
		}
		return entries
	}
	return DefaultEntries(s.now())
}

// LoadTags is the tag-list counterpart of LoadEntries.
func (s *Store) LoadTags() []model.Tag {
	tags, ok := loadDocument[model.Tag](s, TagsKey)
	if ok {
		return tags
	}
	return DefaultTags()
}

func (s *Store) SaveEntries(entries []model.Entry) error {
	return saveDocument(s, EntriesKey, entries)
}

func (s *Store) SaveTags(tags []model.Tag) error {
	return saveDocument(s, TagsKey, tags)
}

// loadDocument reports ok=false when the caller should fall back to seed
// data. It seeds the backend itself when the document is absent or corrupt.
func loadDocument[T any](s *Store, key string) ([]T, bool) {
	ctx := context.Background()

	data, err := s.kv.Read(key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.log.Info(ctx, "no stored document, seeding defaults", "key", key)
		s.seed(key)
		return nil, false
	case err != nil:
		s.log.Error(ctx, "read document, serving defaults read-only", "key", key, "err", err)
		s.unreadable[key] = true
		return nil, false
	}

	var list []T
	if err := json.Unmarshal(data, &list); err != nil || list == nil {
		s.log.Warn(ctx, "corrupt document, seeding defaults", "key", key, "err", err)
		s.seed(key)
		return nil, false
	}
	return list, true
}

func saveDocument[T any](s *Store, key string, list []T) error {
	if s.unreadable[key] {
		return fmt.Errorf("save %s: %w", key, ErrUnreadable)
	}
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.write(key, data)
}

func (s *Store) seed(key string) {
	var err error
	switch key {
	case EntriesKey:
		err = s.SaveEntries(DefaultEntries(s.now()))
	case TagsKey:
		err = s.SaveTags(DefaultTags())
	}
	if err != nil {
		s.log.Warn(context.Background(), "persist seed data", "key", key, "err", err)
	}
}
