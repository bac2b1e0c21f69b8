package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/datamgr/internal/dataset"
	"github.com/sadopc/datamgr/internal/logging"
	"github.com/sadopc/datamgr/internal/model"
	"github.com/sadopc/datamgr/internal/query"
)

type entriesMode int

const (
	modeList entriesMode = iota
	modeSearch
	modeDetail
)

type entriesModel struct {
	ds     *dataset.Dataset
	log    logging.Logger
	width  int
	height int

	all     []model.Entry
	visible []model.Entry
	tagIdx  map[string]model.Tag

	filter query.Filter
	sort   query.Sort
	cursor int
	offset int

	mode        entriesMode
	search      textinput.Model
	detailID    string
	storeCursor int

	formActive bool
	form       *huh.Form
	formType   string
	// ids the pending delete confirmation applies to
	pendingDelete []string

	// Form values as pointers (survive value copies)
	vals *entryFormValues
}

type entryFormValues struct {
	country     string
	machineID   string
	description string
	category    string
	priority    model.Priority
	status      model.Status
	tags        []string
	owner       string
	url         string
	password    string
	notes       string
	orders      string

	filterTags      []string
	filterStatuses  []model.Status
	filterCountries []string
	sortKey         query.Key
	confirm         bool

	storeName        string
	storeDescription string
}

func newEntriesModel(ds *dataset.Dataset, log logging.Logger) entriesModel {
	ti := textinput.New()
	ti.Placeholder = "machine id, description, category, country"
	ti.Prompt = "/ "
	ti.CharLimit = 200

	m := entriesModel{
		ds:     ds,
		log:    log,
		search: ti,
		vals:   &entryFormValues{},
	}
	m.refresh()
	return m
}

func (m *entriesModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.search.Width = max(10, w-12)
}

// refresh re-reads the dataset and re-applies filter and sort.
func (m *entriesModel) refresh() {
	m.all = m.ds.Entries()
	m.tagIdx = model.TagIndex(m.ds.Tags())
	m.apply()
}

func (m *entriesModel) apply() {
	m.visible = query.Apply(m.all, m.filter, m.sort)
	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
	m.clampOffset()
}

func (m entriesModel) capturing() bool {
	return m.formActive || m.mode == modeSearch
}

func (m entriesModel) current() (model.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return model.Entry{}, false
	}
	return m.visible[m.cursor], true
}

func (m entriesModel) pageSize() int {
	// panel border+padding, title, filter line, header, blank, hint
	return max(1, m.height-11)
}

func (m *entriesModel) clampOffset() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m entriesModel) update(msg tea.Msg) (entriesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == modeSearch {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch m.mode {
	case modeSearch:
		return m.updateSearch(km)
	case modeDetail:
		return m.updateDetail(km)
	}
	return m.updateList(km)
}

func (m entriesModel) updateList(msg tea.KeyMsg) (entriesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampOffset()
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		m.clampOffset()
	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.filter.Search)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, keys.TagFilter):
		return m.showTagFilter()
	case key.Matches(msg, keys.StatusFilter):
		return m.showStatusFilter()
	case key.Matches(msg, keys.Country):
		return m.showCountryFilter()
	case key.Matches(msg, keys.ClearFilters):
		if m.filter.Active() {
			m.filter = query.Filter{}
			m.apply()
			return m, status("Filters cleared")
		}
	case key.Matches(msg, keys.Sort):
		return m.showSortPicker()
	case key.Matches(msg, keys.Select):
		if e, ok := m.current(); ok {
			m.ds.ToggleOne(e.ID)
		}
	case key.Matches(msg, keys.SelectAll):
		m.ds.ToggleAll(query.IDs(m.visible))
	case key.Matches(msg, keys.New):
		return m.showEntryForm(nil)
	case key.Matches(msg, keys.Edit):
		if e, ok := m.current(); ok {
			return m.showEntryForm(&e)
		}
	case key.Matches(msg, keys.Duplicate):
		if e, ok := m.current(); ok {
			dup, err := m.ds.Duplicate(e.ID)
			m.cursor = 0
			return m, result(fmt.Sprintf("Duplicated as %s", dup.MachineID), err)
		}
	case key.Matches(msg, keys.Delete):
		return m.showDeleteConfirm()
	case key.Matches(msg, keys.Enter):
		if e, ok := m.current(); ok {
			m.mode = modeDetail
			m.detailID = e.ID
			m.storeCursor = 0
		}
	case key.Matches(msg, keys.Back):
		if len(m.ds.Selected()) > 0 {
			m.ds.ClearSelection()
		}
	}
	return m, nil
}

func (m entriesModel) updateSearch(msg tea.KeyMsg) (entriesModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeList
		m.search.Blur()
		m.search.SetValue("")
		m.filter.Search = ""
		m.apply()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.filter.Search {
		m.filter.Search = m.search.Value()
		m.cursor = 0
		m.apply()
	}
	return m, cmd
}

func (m entriesModel) view() string {
	if m.formActive && m.form != nil {
		return m.renderForm()
	}
	if m.mode == modeDetail {
		return m.renderDetail()
	}
	return m.renderList()
}

func (m entriesModel) renderList() string {
	w := m.width - 4
	selected := m.ds.Selected()

	title := titleStyle.Render("Entries")
	counts := mutedStyle.Render(fmt.Sprintf("  %d of %d", len(m.visible), len(m.all)))
	if len(selected) > 0 {
		counts += accentStyle.Render(fmt.Sprintf("  · %d selected", len(selected)))
	}

	var rows []string
	rows = append(rows, title+counts)
	if m.mode == modeSearch {
		rows = append(rows, m.search.View())
	} else {
		rows = append(rows, m.renderFilterLine())
	}

	if len(m.visible) == 0 {
		msg := "No entries yet. Press n to create one."
		if m.filter.Active() {
			msg = "No entries match the current filters. Press x to clear them."
		}
		rows = append(rows, "", mutedStyle.Render(msg))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	descWidth := max(10, w-80)
	header := fmt.Sprintf("    %-3s %-8s %-22s %-10s %-7s %-*s %-24s %s",
		"", "Country", "Machine ID", "Status", "Prio", descWidth, "Description", "Tags", "Modified")
	rows = append(rows, mutedStyle.Render(header+m.sortMarker()))

	all := m.ds.AllSelected(query.IDs(m.visible))
	end := min(len(m.visible), m.offset+m.pageSize())
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(i, descWidth))
	}
	if end < len(m.visible) || m.offset > 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("    rows %d-%d of %d", m.offset+1, end, len(m.visible))))
	}

	hint := "  n: new  e: edit  y: duplicate  d: delete  space: select  a: select all  enter: details"
	if all {
		hint = "  a: deselect all visible  d: delete selected  esc: clear selection"
	}
	rows = append(rows, "", mutedStyle.Render(hint))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m entriesModel) renderRow(i, descWidth int) string {
	e := m.visible[i]
	cursor := "  "
	style := normalItemStyle
	if i == m.cursor {
		cursor = cursorMarker
		style = selectedItemStyle
	}
	check := "[ ]"
	if m.ds.IsSelected(e.ID) {
		check = accentStyle.Render("[x]")
	}

	stat := statusStyle(e.Status).Render(fmt.Sprintf("%-10s", e.Status))
	prio := priorityStyle(e.Priority).Render(fmt.Sprintf("%-7s", e.Priority))
	tags := tagChips(e.Tags, m.tagIdx, 3)
	tagCell := tags + strings.Repeat(" ", max(0, 24-lipgloss.Width(tags)))

	return fmt.Sprintf("%s%s %s %s %s %s %s %s",
		style.Render(cursor), check,
		style.Render(fmt.Sprintf("%-8s", truncate(e.Country, 8))),
		style.Render(fmt.Sprintf("%-22s", truncate(e.MachineID, 22))),
		stat, prio,
		mutedStyle.Render(fmt.Sprintf("%-*s", descWidth, truncate(e.Description, descWidth))),
		tagCell+" "+mutedStyle.Render(formatDate(e.UpdatedAt)),
	)
}

func (m entriesModel) sortMarker() string {
	if m.sort.Key == query.KeyNone {
		return ""
	}
	arrow := "↑"
	if m.sort.Dir == query.Desc {
		arrow = "↓"
	}
	return "   sort: " + string(m.sort.Key) + " " + arrow
}

func (m entriesModel) renderFilterLine() string {
	if !m.filter.Active() {
		return mutedStyle.Render("/: search  t: tags  f: status  c: country  o: sort")
	}
	var parts []string
	if q := strings.TrimSpace(m.filter.Search); q != "" {
		parts = append(parts, fmt.Sprintf("search %q", q))
	}
	if len(m.filter.Tags) > 0 {
		var names []string
		for _, id := range m.filter.Tags {
			if t, ok := m.tagIdx[id]; ok {
				names = append(names, t.Name)
			} else {
				names = append(names, id)
			}
		}
		parts = append(parts, "tags "+strings.Join(names, "+"))
	}
	if len(m.filter.Statuses) > 0 {
		var ss []string
		for _, s := range m.filter.Statuses {
			ss = append(ss, string(s))
		}
		parts = append(parts, "status "+strings.Join(ss, "|"))
	}
	if len(m.filter.Countries) > 0 {
		parts = append(parts, "country "+strings.Join(m.filter.Countries, "|"))
	}
	return highlightStyle.Render("filters: "+strings.Join(parts, ", ")) + mutedStyle.Render("  x: clear")
}

// status reports an informational line in the footer.
func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// result reports the outcome of a dataset mutation. A persistence failure
// still keeps the change, so it is a warning rather than a failure.
func result(ok string, err error) tea.Cmd {
	switch {
	case err == nil:
		return status(ok)
	case errors.Is(err, dataset.ErrPersist):
		return func() tea.Msg {
			return statusMsg{text: ok + " (warning: changes could not be saved)", isError: true}
		}
	default:
		return func() tea.Msg { return statusMsg{text: "Error: " + err.Error(), isError: true} }
	}
}

func (m entriesModel) logErr(msg string, err error) {
	if err != nil {
		m.log.Warn(context.Background(), msg, "err", err)
	}
}
