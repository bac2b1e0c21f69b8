package dataset

import (
	"context"
	"errors"

	"github.com/sadopc/datamgr/internal/model"
)

// MergeResult describes what an import merge changed.
type MergeResult struct {
	EntriesImported int
	EntriesSkipped  int
	TagsAdded       int
	TagsSkipped     int
}

// Merge folds validated import data into the collection. Tags whose id is
// already known are discarded; the current tag always wins. Entries are
// prepended as a block, in import order. With MergeAppend colliding entry
// ids are kept as duplicates.
func (d *Dataset) Merge(entries []model.Entry, tags []model.Tag) (MergeResult, error) {
	var res MergeResult

	known := make(map[string]bool, len(d.tags))
	for _, t := range d.tags {
		known[t.ID] = true
	}
	var newTags []model.Tag
	for _, t := range tags {
		if known[t.ID] {
			res.TagsSkipped++
			continue
		}
		known[t.ID] = true
		newTags = append(newTags, t)
	}

	incoming := make([]model.Entry, 0, len(entries))
	existing := make(map[string]bool, len(d.entries))
	if d.mergeMode == MergeSkipExisting {
		for _, e := range d.entries {
			existing[e.ID] = true
		}
	}
	for _, e := range entries {
		if d.mergeMode == MergeSkipExisting {
			if existing[e.ID] {
				res.EntriesSkipped++
				continue
			}
			existing[e.ID] = true
		}
		c := e.Clone()
		if c.Tags == nil {
			c.Tags = []string{}
		}
		incoming = append(incoming, c)
	}
	res.EntriesImported = len(incoming)
	res.TagsAdded = len(newTags)

	var errs []error
	if len(newTags) > 0 {
		d.tags = append(d.tags, newTags...)
		errs = append(errs, d.saveTags())
	}
	if len(incoming) > 0 {
		d.entries = append(incoming, d.entries...)
		errs = append(errs, d.saveEntries())
	}

	d.log.Info(context.Background(), "import merged",
		"entries", res.EntriesImported, "skipped", res.EntriesSkipped,
		"tags_added", res.TagsAdded, "tags_skipped", res.TagsSkipped)
	return res, errors.Join(errs...)
}
