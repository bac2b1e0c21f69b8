package dataset

import (
	"context"
	"strings"

	"github.com/sadopc/datamgr/internal/model"
)

// Draft is the user-editable part of an entry. Required-field checks (a
// non-empty machine id) belong to the form that produces it.
type Draft struct {
	Country     string
	MachineID   string
	Description string
	Category    string
	Priority    model.Priority
	Status      model.Status
	Tags        []string
	Email       model.EmailFlag
	Auth        model.AuthMode
	URL         string
	Notes       string
	Password    string
	Owner       string
	Orders      string
	Stores      []model.StoreRecord
}

// DraftOf extracts the editable fields of e.
func DraftOf(e model.Entry) Draft {
	c := e.Clone()
	return Draft{
		Country:     c.Country,
		MachineID:   c.MachineID,
		Description: c.Description,
		Category:    c.Category,
		Priority:    c.Priority,
		Status:      c.Status,
		Tags:        c.Tags,
		Email:       c.Email,
		Auth:        c.Auth,
		URL:         c.URL,
		Notes:       c.Notes,
		Password:    c.Password,
		Owner:       c.Owner,
		Orders:      c.Orders,
		Stores:      c.Stores,
	}
}

func (dr Draft) apply(e *model.Entry) {
	e.Country = strings.ToUpper(strings.TrimSpace(dr.Country))
	e.MachineID = dr.MachineID
	e.Description = dr.Description
	e.Category = dr.Category
	e.Priority = dr.Priority
	e.Status = dr.Status
	e.Tags = uniqueTags(dr.Tags)
	e.Email = dr.Email
	e.Auth = dr.Auth
	e.URL = dr.URL
	e.Notes = dr.Notes
	e.Password = dr.Password
	e.Owner = dr.Owner
	e.Orders = dr.Orders
	if dr.Stores != nil {
		e.Stores = append([]model.StoreRecord(nil), dr.Stores...)
	} else {
		e.Stores = nil
	}
	if e.Priority == "" {
		e.Priority = model.PriorityMedium
	}
	if e.Status == "" {
		e.Status = model.StatusActive
	}
}

// Create assigns a fresh id and timestamps and prepends the entry.
func (d *Dataset) Create(dr Draft) (model.Entry, error) {
	ts := d.timestamp()
	e := model.Entry{ID: d.newID(), CreatedAt: ts, UpdatedAt: ts}
	dr.apply(&e)

	d.entries = append([]model.Entry{e}, d.entries...)
	d.log.Info(context.Background(), "entry created", "id", e.ID, "machineId", e.MachineID)
	return e.Clone(), d.saveEntries()
}

// Update replaces the entry with e.ID. The stored id and createdAt win over
// whatever e carries; updatedAt is set to now.
func (d *Dataset) Update(e model.Entry) (model.Entry, error) {
	i := d.index(e.ID)
	if i < 0 {
		d.log.Warn(context.Background(), "update of unknown entry", "id", e.ID)
		return model.Entry{}, ErrNotFound
	}
	next := e.Clone()
	if next.Tags == nil {
		next.Tags = []string{}
	}
	next.CreatedAt = d.entries[i].CreatedAt
	next.UpdatedAt = d.timestamp()
	d.entries[i] = next
	return next.Clone(), d.saveEntries()
}

// Edit applies a Draft to an existing entry.
func (d *Dataset) Edit(id string, dr Draft) (model.Entry, error) {
	cur, ok := d.Get(id)
	if !ok {
		return model.Entry{}, ErrNotFound
	}
	dr.apply(&cur)
	return d.Update(cur)
}

// Patch runs fn against a copy of the entry and stores the result. It is used
// for detail-view sub-edits (email, auth, url, password, notes, orders,
// stores), each of which refreshes updatedAt.
func (d *Dataset) Patch(id string, fn func(*model.Entry)) (model.Entry, error) {
	cur, ok := d.Get(id)
	if !ok {
		return model.Entry{}, ErrNotFound
	}
	fn(&cur)
	cur.ID = id
	return d.Update(cur)
}

// Duplicate prepends a copy of the entry with a new id, a " (Copy)" suffix on
// the machine id and fresh timestamps.
func (d *Dataset) Duplicate(id string) (model.Entry, error) {
	src, ok := d.Get(id)
	if !ok {
		return model.Entry{}, ErrNotFound
	}
	ts := d.timestamp()
	dup := src.Clone()
	dup.ID = d.newID()
	dup.MachineID = src.MachineID + " (Copy)"
	dup.CreatedAt = ts
	dup.UpdatedAt = ts

	d.entries = append([]model.Entry{dup}, d.entries...)
	d.log.Info(context.Background(), "entry duplicated", "source", id, "id", dup.ID)
	return dup.Clone(), d.saveEntries()
}

// Delete removes every entry whose id is in ids and drops those ids from the
// selection. Unknown ids are ignored. It returns the number removed.
func (d *Dataset) Delete(ids ...string) (int, error) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := d.entries[:0:0]
	for _, e := range d.entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	removed := len(d.entries) - len(kept)
	d.pruneSelection(drop)
	if removed == 0 {
		return 0, nil
	}
	d.entries = kept
	d.log.Info(context.Background(), "entries deleted", "count", removed)
	return removed, d.saveEntries()
}

func uniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
