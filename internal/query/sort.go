package query

import (
	"sort"

	"github.com/sadopc/datamgr/internal/model"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Key names a sortable column.
type Key string

const (
	KeyNone        Key = ""
	KeyCountry     Key = "country"
	KeyMachineID   Key = "machineId"
	KeyDescription Key = "description"
	KeyCategory    Key = "category"
	KeyPriority    Key = "priority"
	KeyStatus      Key = "status"
	KeyOwner       Key = "owner"
	KeyCreatedAt   Key = "createdAt"
	KeyUpdatedAt   Key = "updatedAt"
)

// Keys lists the sortable columns in display order.
var Keys = []Key{
	KeyCountry, KeyMachineID, KeyDescription, KeyCategory, KeyPriority,
	KeyStatus, KeyOwner, KeyCreatedAt, KeyUpdatedAt,
}

func ValidKey(k Key) bool {
	for _, v := range Keys {
		if v == k {
			return true
		}
	}
	return false
}

// Sort is a single-column sort. The zero value keeps store order.
type Sort struct {
	Key Key
	Dir Direction
}

// Toggle is a click on column k: the same column flips asc/desc, a new
// column starts ascending.
func (s Sort) Toggle(k Key) Sort {
	if s.Key == k && s.Dir == Asc {
		return Sort{Key: k, Dir: Desc}
	}
	return Sort{Key: k, Dir: Asc}
}

func (s Sort) apply(entries []model.Entry) {
	if s.Key == KeyNone {
		return
	}
	desc := s.Dir == Desc
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := field(entries[i], s.Key), field(entries[j], s.Key)
		if desc {
			return a > b
		}
		return a < b
	})
}

// field returns the stored value of k. Timestamps are ISO-8601 strings, so
// string order is chronological order.
func field(e model.Entry, k Key) string {
	switch k {
	case KeyCountry:
		return e.Country
	case KeyMachineID:
		return e.MachineID
	case KeyDescription:
		return e.Description
	case KeyCategory:
		return e.Category
	case KeyPriority:
		return string(e.Priority)
	case KeyStatus:
		return string(e.Status)
	case KeyOwner:
		return e.Owner
	case KeyCreatedAt:
		return e.CreatedAt
	case KeyUpdatedAt:
		return e.UpdatedAt
	}
	return ""
}
