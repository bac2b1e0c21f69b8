package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/datamgr/internal/model"
	"github.com/sadopc/datamgr/internal/store"
)

func seed() []model.Entry {
	return store.DefaultEntries(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	got := Apply(seed(), Filter{Search: "srv-2024-002"}, Sort{})
	require.Len(t, got, 1)
	assert.Equal(t, "SRV-2024-002", got[0].MachineID)
}

func TestSearchFields(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"1", "2", "3", "4"}},
		{"dashboard", []string{"2"}}, // description
		{"REPORTS", []string{"4"}},   // category
		{"jp", []string{"3"}},        // country
		{"srv-2024", []string{"1", "2", "3", "4"}},
		{"nothing matches", []string{}},
	}
	for _, tt := range tests {
		got := IDs(Apply(seed(), Filter{Search: tt.query}, Sort{}))
		assert.Equal(t, tt.want, got, tt.query)
	}
}

func TestSearchIgnoresOtherFields(t *testing.T) {
	entries := []model.Entry{{ID: "a", MachineID: "X", Owner: "alice", Notes: "alice"}}
	assert.Empty(t, Apply(entries, Filter{Search: "alice"}, Sort{}))
}

func TestTagFilterUsesAND(t *testing.T) {
	got := IDs(Apply(seed(), Filter{Tags: []string{"1", "2"}}, Sort{}))
	assert.Equal(t, []string{"1"}, got)
}

func TestTagFilterMonotonic(t *testing.T) {
	entries := seed()
	sets := [][]string{{}, {"2"}, {"2", "1"}, {"2", "1", "6"}}
	prev := IDs(Apply(entries, Filter{}, Sort{}))
	for _, tags := range sets[1:] {
		cur := IDs(Apply(entries, Filter{Tags: tags}, Sort{}))
		for _, id := range cur {
			assert.Contains(t, prev, id, "adding tags must not widen the result (%v)", tags)
		}
		assert.LessOrEqual(t, len(cur), len(prev))
		prev = cur
	}
}

func TestDanglingTagFilterMatchesNothing(t *testing.T) {
	assert.Empty(t, Apply(seed(), Filter{Tags: []string{"does-not-exist"}}, Sort{}))
}

func TestCountryAndStatusFilters(t *testing.T) {
	got := IDs(Apply(seed(), Filter{Countries: []string{"US", "JP"}}, Sort{}))
	assert.Equal(t, []string{"1", "3"}, got)

	got = IDs(Apply(seed(), Filter{Statuses: []model.Status{model.StatusPending, model.StatusCompleted}}, Sort{}))
	assert.Equal(t, []string{"2", "4"}, got)
}

func TestFiltersCombineWithAND(t *testing.T) {
	f := Filter{
		Search:    "srv",
		Tags:      []string{"1"},
		Countries: []string{"JP", "DE"},
		Statuses:  []model.Status{model.StatusActive},
	}
	assert.Equal(t, []string{"3"}, IDs(Apply(seed(), f, Sort{})))
	assert.True(t, f.Active())
	assert.False(t, Filter{}.Active())
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	entries := seed()
	_ = Apply(entries, Filter{}, Sort{Key: KeyMachineID, Dir: Desc})
	assert.Equal(t, []string{"1", "2", "3", "4"}, IDs(entries))
}

func TestNoSortKeepsStoreOrder(t *testing.T) {
	entries := seed()
	entries[0], entries[3] = entries[3], entries[0]
	assert.Equal(t, []string{"4", "2", "3", "1"}, IDs(Apply(entries, Filter{}, Sort{})))
}

func TestSortToggle(t *testing.T) {
	var s Sort
	s = s.Toggle(KeyStatus)
	assert.Equal(t, Sort{Key: KeyStatus, Dir: Asc}, s)
	s = s.Toggle(KeyStatus)
	assert.Equal(t, Sort{Key: KeyStatus, Dir: Desc}, s)
	s = s.Toggle(KeyStatus)
	assert.Equal(t, Sort{Key: KeyStatus, Dir: Asc}, s)
	s = s.Toggle(KeyStatus).Toggle(KeyCountry)
	assert.Equal(t, Sort{Key: KeyCountry, Dir: Asc}, s)
}

func TestSortByStatusScenario(t *testing.T) {
	var s Sort
	s = s.Toggle(KeyStatus)
	asc := Apply(seed(), Filter{}, s)
	// active(1), active(3), completed(4), pending(2); ties keep store order.
	assert.Equal(t, []string{"1", "3", "4", "2"}, IDs(asc))

	s = s.Toggle(KeyStatus)
	desc := Apply(seed(), Filter{}, s)
	assert.Equal(t, []string{"2", "4", "1", "3"}, IDs(desc))

	s = s.Toggle(KeyCountry)
	byCountry := Apply(seed(), Filter{}, s)
	assert.Equal(t, []string{"2", "4", "3", "1"}, IDs(byCountry)) // DE GB JP US
}

func TestSortIsStable(t *testing.T) {
	entries := []model.Entry{
		{ID: "a", Priority: model.PriorityHigh},
		{ID: "b", Priority: model.PriorityLow},
		{ID: "c", Priority: model.PriorityHigh},
		{ID: "d", Priority: model.PriorityLow},
		{ID: "e", Priority: model.PriorityHigh},
	}
	asc := IDs(Apply(entries, Filter{}, Sort{Key: KeyPriority, Dir: Asc}))
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, asc)
	desc := IDs(Apply(entries, Filter{}, Sort{Key: KeyPriority, Dir: Desc}))
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, desc)
}

func TestSortByTimestamps(t *testing.T) {
	entries := []model.Entry{
		{ID: "old", UpdatedAt: "2023-01-01T00:00:00.000Z"},
		{ID: "new", UpdatedAt: "2024-06-01T00:00:00.000Z"},
		{ID: "mid", UpdatedAt: "2023-12-31T23:59:59.999Z"},
	}
	got := IDs(Apply(entries, Filter{}, Sort{Key: KeyUpdatedAt, Dir: Desc}))
	assert.Equal(t, []string{"new", "mid", "old"}, got)
}

func TestValidKey(t *testing.T) {
	for _, k := range Keys {
		assert.True(t, ValidKey(k), k)
	}
	assert.False(t, ValidKey("tags"))
	assert.False(t, ValidKey(KeyNone))
}

func TestCountries(t *testing.T) {
	entries := append(seed(), model.Entry{ID: "5", Country: "US"}, model.Entry{ID: "6"})
	assert.Equal(t, []string{"DE", "GB", "JP", "US"}, Countries(entries))
}

func TestToggleString(t *testing.T) {
	set := ToggleString(nil, "1")
	set = ToggleString(set, "2")
	assert.Equal(t, []string{"1", "2"}, set)
	set = ToggleString(set, "1")
	assert.Equal(t, []string{"2"}, set)
}

func TestToggleStatus(t *testing.T) {
	set := ToggleStatus(nil, model.StatusError)
	assert.Equal(t, []model.Status{model.StatusError}, set)
	assert.Empty(t, ToggleStatus(set, model.StatusError))
}
