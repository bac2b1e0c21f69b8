package dataset

import (
	"context"
	"strings"

	"github.com/sadopc/datamgr/internal/model"
)

// SetTags replaces the tag list wholesale.
func (d *Dataset) SetTags(tags []model.Tag) error {
	d.tags = append([]model.Tag{}, tags...)
	return d.saveTags()
}

// AddTag appends a new tag. An unknown colour falls back to blue.
func (d *Dataset) AddTag(name string, color model.TagColor) (model.Tag, error) {
	if !model.ValidColor(color) {
		color = "blue"
	}
	t := model.Tag{ID: d.newID(), Name: strings.TrimSpace(name), Color: color}
	d.tags = append(d.tags, t)
	d.log.Info(context.Background(), "tag created", "id", t.ID, "name", t.Name)
	return t, d.saveTags()
}

// RemoveTag deletes a tag. Entries keep the id; it simply stops resolving.
func (d *Dataset) RemoveTag(id string) error {
	kept := make([]model.Tag, 0, len(d.tags))
	for _, t := range d.tags {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(d.tags) {
		return nil
	}
	return d.SetTags(kept)
}

// TagUsage counts how many entries reference each tag id, dangling ids included.
func (d *Dataset) TagUsage() map[string]int {
	usage := make(map[string]int)
	for _, e := range d.entries {
		for _, id := range e.Tags {
			usage[id]++
		}
	}
	return usage
}
