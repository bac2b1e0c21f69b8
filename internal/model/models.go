// Package model holds the records managed by datamgr: entries (tracked
// machines), the tags attached to them and the nested store sub-records.
package model

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

type Status string

const (
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
	StatusError     Status = "error"
)

var Statuses = []Status{StatusActive, StatusPending, StatusCompleted, StatusArchived, StatusError}

type EmailFlag string

const (
	EmailYes EmailFlag = "yes"
	EmailNo  EmailFlag = "no"
)

type AuthMode string

const (
	AuthAuto AuthMode = "auto"
	AuthPass AuthMode = "pass"
)

type TagColor string

// Palette is the fixed set of tag colours, in picker order.
var Palette = []TagColor{
	"red", "orange", "amber", "lime", "green", "teal",
	"cyan", "blue", "indigo", "purple", "pink", "rose",
}

// Tag is a named, coloured label referenced by id from entries.
type Tag struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Color TagColor `json:"color"`
}

// StoreRecord is a sub-record owned by exactly one Entry.
type StoreRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Entry is one tracked machine. CreatedAt and UpdatedAt are ISO-8601 strings
// kept exactly as stored so that imported documents round-trip unchanged.
type Entry struct {
	ID          string        `json:"id"`
	Country     string        `json:"country"`
	MachineID   string        `json:"machineId"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Priority    Priority      `json:"priority"`
	Status      Status        `json:"status"`
	Tags        []string      `json:"tags"`
	Email       EmailFlag     `json:"email,omitempty"`
	Auth        AuthMode      `json:"auth,omitempty"`
	URL         string        `json:"url,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	Password    string        `json:"password,omitempty"`
	Owner       string        `json:"owner,omitempty"`
	Orders      string        `json:"orders,omitempty"`
	Stores      []StoreRecord `json:"stores,omitempty"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

// EmailOrDefault treats a missing email flag as "no".
func (e Entry) EmailOrDefault() EmailFlag {
	if e.Email == EmailYes {
		return EmailYes
	}
	return EmailNo
}

// AuthOrDefault treats a missing auth mode as "auto".
func (e Entry) AuthOrDefault() AuthMode {
	if e.Auth == AuthPass {
		return AuthPass
	}
	return AuthAuto
}

func (e Entry) HasTag(id string) bool {
	for _, t := range e.Tags {
		if t == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with e.
func (e Entry) Clone() Entry {
	c := e
	c.Tags = append([]string{}, e.Tags...)
	if e.Stores != nil {
		c.Stores = append([]StoreRecord(nil), e.Stores...)
	}
	return c
}

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t the way entries store it: UTC, millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// TagIndex maps tag ids to tags. Lookups of dangling ids simply miss.
func TagIndex(tags []Tag) map[string]Tag {
	idx := make(map[string]Tag, len(tags))
	for _, t := range tags {
		idx[t.ID] = t
	}
	return idx
}

func ValidPriority(p Priority) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

func ValidStatus(s Status) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

func ValidColor(c TagColor) bool {
	for _, v := range Palette {
		if v == c {
			return true
		}
	}
	return false
}
