package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/sadopc/datamgr/internal/dataset"
	"github.com/sadopc/datamgr/internal/model"
	"github.com/sadopc/datamgr/internal/query"
)

const (
	formNewEntry      = "new_entry"
	formEditEntry     = "edit_entry"
	formDetails       = "details"
	formStore         = "store"
	formTagFilter     = "tag_filter"
	formStatusFilter  = "status_filter"
	formCountryFilter = "country_filter"
	formSort          = "sort"
	formDelete        = "delete"
)

var formTitles = map[string]string{
	formNewEntry:      "New Entry",
	formEditEntry:     "Edit Entry",
	formDetails:       "Edit Details",
	formStore:         "Add Store",
	formTagFilter:     "Filter by Tags (all must match)",
	formStatusFilter:  "Filter by Status",
	formCountryFilter: "Filter by Country",
	formSort:          "Sort by",
	formDelete:        "Delete",
}

func maxLen(field string, n int, required bool) func(string) error {
	return func(s string) error {
		if required && strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		if utf8.RuneCountInString(s) > n {
			return fmt.Errorf("%s must be at most %d characters", field, n)
		}
		return nil
	}
}

func (m entriesModel) tagOptions(selected []string) []huh.Option[string] {
	tags := m.ds.Tags()
	opts := make([]huh.Option[string], len(tags))
	for i, t := range tags {
		opts[i] = huh.NewOption(tagStyle(t.Color).Render("●")+" "+t.Name, t.ID).
			Selected(contains(selected, t.ID))
	}
	return opts
}

func (m entriesModel) showEntryForm(e *model.Entry) (entriesModel, tea.Cmd) {
	v := m.vals
	*v = entryFormValues{priority: model.PriorityMedium, status: model.StatusActive}
	m.formType = formNewEntry
	if e != nil {
		m.formType = formEditEntry
		m.detailID = e.ID
		v.country = e.Country
		v.machineID = e.MachineID
		v.description = e.Description
		v.category = e.Category
		v.priority = e.Priority
		v.status = e.Status
		v.tags = append([]string{}, e.Tags...)
		v.owner = e.Owner
	}

	prioOpts := make([]huh.Option[model.Priority], len(model.Priorities))
	for i, p := range model.Priorities {
		prioOpts[i] = huh.NewOption(string(p), p)
	}
	statusOpts := make([]huh.Option[model.Status], len(model.Statuses))
	for i, s := range model.Statuses {
		statusOpts[i] = huh.NewOption(string(s), s)
	}

	fields := []huh.Field{
		huh.NewInput().Title("Machine ID").Value(&v.machineID).Validate(maxLen("machine id", 200, true)),
		huh.NewInput().Title("Country").Placeholder("US").Value(&v.country).Validate(maxLen("country", 10, false)),
		huh.NewText().Title("Description").Value(&v.description).Validate(maxLen("description", 5000, false)),
		huh.NewInput().Title("Category").Value(&v.category).Validate(maxLen("category", 100, false)),
		huh.NewSelect[model.Priority]().Title("Priority").Options(prioOpts...).Value(&v.priority),
		huh.NewSelect[model.Status]().Title("Status").Options(statusOpts...).Value(&v.status),
		huh.NewInput().Title("Owner").Value(&v.owner).Validate(maxLen("owner", 200, false)),
	}
	if len(m.ds.Tags()) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().Title("Tags").
			Options(m.tagOptions(v.tags)...).Value(&v.tags))
	}

	return m.openForm(huh.NewGroup(fields...))
}

func (m entriesModel) showDetailsForm(e model.Entry) (entriesModel, tea.Cmd) {
	v := m.vals
	v.url, v.password, v.notes, v.orders = e.URL, e.Password, e.Notes, e.Orders
	m.formType = formDetails

	return m.openForm(huh.NewGroup(
		huh.NewInput().Title("URL").Value(&v.url).Validate(maxLen("url", 2000, false)),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&v.password).
			Validate(maxLen("password", 500, false)),
		huh.NewText().Title("Orders").Value(&v.orders).Validate(maxLen("orders", 10000, false)),
		huh.NewText().Title("Notes").Value(&v.notes).Validate(maxLen("notes", 10000, false)),
	))
}

func (m entriesModel) showStoreForm() (entriesModel, tea.Cmd) {
	v := m.vals
	v.storeName, v.storeDescription = "", ""
	m.formType = formStore

	return m.openForm(huh.NewGroup(
		huh.NewInput().Title("Store name").Value(&v.storeName).Validate(maxLen("name", 200, true)),
		huh.NewText().Title("Description").Value(&v.storeDescription).Validate(maxLen("description", 2000, false)),
	))
}

func (m entriesModel) showTagFilter() (entriesModel, tea.Cmd) {
	if len(m.ds.Tags()) == 0 {
		return m, status("No tags defined")
	}
	m.vals.filterTags = append([]string{}, m.filter.Tags...)
	m.formType = formTagFilter
	return m.openForm(huh.NewGroup(
		huh.NewMultiSelect[string]().Title("Tags").
			Options(m.tagOptions(m.vals.filterTags)...).Value(&m.vals.filterTags),
	))
}

func (m entriesModel) showStatusFilter() (entriesModel, tea.Cmd) {
	m.vals.filterStatuses = append([]model.Status{}, m.filter.Statuses...)
	m.formType = formStatusFilter

	opts := make([]huh.Option[model.Status], len(model.Statuses))
	for i, s := range model.Statuses {
		opts[i] = huh.NewOption(statusStyle(s).Render(string(s)), s).
			Selected(containsStatus(m.vals.filterStatuses, s))
	}
	return m.openForm(huh.NewGroup(
		huh.NewMultiSelect[model.Status]().Title("Statuses").Options(opts...).Value(&m.vals.filterStatuses),
	))
}

func (m entriesModel) showCountryFilter() (entriesModel, tea.Cmd) {
	countries := query.Countries(m.all)
	if len(countries) == 0 {
		return m, status("No countries recorded")
	}
	m.vals.filterCountries = append([]string{}, m.filter.Countries...)
	m.formType = formCountryFilter

	opts := make([]huh.Option[string], len(countries))
	for i, c := range countries {
		opts[i] = huh.NewOption(c, c).Selected(contains(m.vals.filterCountries, c))
	}
	return m.openForm(huh.NewGroup(
		huh.NewMultiSelect[string]().Title("Countries").Options(opts...).Value(&m.vals.filterCountries),
	))
}

func (m entriesModel) showSortPicker() (entriesModel, tea.Cmd) {
	m.vals.sortKey = m.sort.Key
	if m.vals.sortKey == query.KeyNone {
		m.vals.sortKey = query.Keys[0]
	}
	m.formType = formSort

	opts := make([]huh.Option[query.Key], len(query.Keys))
	for i, k := range query.Keys {
		label := string(k)
		if k == m.sort.Key {
			label += "  (selecting again reverses)"
		}
		opts[i] = huh.NewOption(label, k)
	}
	return m.openForm(huh.NewGroup(
		huh.NewSelect[query.Key]().Title("Column").Options(opts...).Value(&m.vals.sortKey),
	))
}

// showDeleteConfirm targets the selection when there is one, otherwise the
// entry under the cursor.
func (m entriesModel) showDeleteConfirm() (entriesModel, tea.Cmd) {
	targets := m.ds.Selected()
	title := ""
	if len(targets) > 0 {
		title = fmt.Sprintf("Delete %d selected %s?", len(targets), pluralWord(len(targets), "entry", "entries"))
	} else {
		e, ok := m.current()
		if !ok {
			return m, nil
		}
		targets = []string{e.ID}
		title = fmt.Sprintf("Delete %s?", e.MachineID)
	}
	m.pendingDelete = targets
	m.vals.confirm = false
	m.formType = formDelete
	return m.openForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Description("This cannot be undone.").
			Affirmative("Delete").Negative("Cancel").Value(&m.vals.confirm),
	))
}

func (m entriesModel) openForm(g *huh.Group) (entriesModel, tea.Cmd) {
	m.form = huh.NewForm(g).
		WithShowHelp(true).
		WithShowErrors(true).
		WithTheme(formTheme())
	if m.width > 0 {
		m.form = m.form.WithWidth(max(20, m.width-8))
	}
	m.formActive = true
	return m, m.form.Init()
}

func (m entriesModel) updateForm(msg tea.Msg) (entriesModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			m.pendingDelete = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.formActive = false
		m.form = nil
		return m.completeForm()
	case huh.StateAborted:
		m.formActive = false
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m entriesModel) completeForm() (entriesModel, tea.Cmd) {
	v := m.vals
	switch m.formType {
	case formNewEntry:
		e, err := m.ds.Create(m.draft())
		m.logErr("create entry", err)
		m.cursor, m.offset = 0, 0
		return m, result("Created "+e.MachineID, err)

	case formEditEntry:
		cur, ok := m.ds.Get(m.detailID)
		if !ok {
			return m, result("", dataset.ErrNotFound)
		}
		dr := dataset.DraftOf(cur)
		edited := m.draft()
		edited.Email, edited.Auth = dr.Email, dr.Auth
		edited.URL, edited.Password, edited.Notes, edited.Orders, edited.Stores = dr.URL, dr.Password, dr.Notes, dr.Orders, dr.Stores
		e, err := m.ds.Edit(m.detailID, edited)
		m.logErr("edit entry", err)
		return m, result("Updated "+e.MachineID, err)

	case formDetails:
		e, err := m.ds.Patch(m.detailID, func(e *model.Entry) {
			e.URL, e.Password, e.Notes, e.Orders = v.url, v.password, v.notes, v.orders
		})
		return m, result("Updated "+e.MachineID, err)

	case formStore:
		e, err := m.ds.Patch(m.detailID, func(e *model.Entry) {
			e.Stores = append(e.Stores, model.StoreRecord{
				ID:          uuid.NewString(),
				Name:        strings.TrimSpace(v.storeName),
				Description: v.storeDescription,
			})
		})
		m.storeCursor = max(0, len(e.Stores)-1)
		return m, result("Store added", err)

	case formTagFilter:
		m.filter.Tags = v.filterTags
	case formStatusFilter:
		m.filter.Statuses = v.filterStatuses
	case formCountryFilter:
		m.filter.Countries = v.filterCountries
	case formSort:
		m.sort = m.sort.Toggle(v.sortKey)

	case formDelete:
		targets := m.pendingDelete
		m.pendingDelete = nil
		if !v.confirm || len(targets) == 0 {
			return m, nil
		}
		n, err := m.ds.Delete(targets...)
		m.logErr("delete entries", err)
		if m.mode == modeDetail {
			m.mode = modeList
		}
		msg := fmt.Sprintf("Deleted %d %s", n, pluralWord(n, "entry", "entries"))
		return m, result(msg, err)
	}

	m.cursor = 0
	m.offset = 0
	m.apply()
	return m, nil
}

func (m entriesModel) draft() dataset.Draft {
	v := m.vals
	return dataset.Draft{
		Country:     v.country,
		MachineID:   strings.TrimSpace(v.machineID),
		Description: v.description,
		Category:    strings.TrimSpace(v.category),
		Priority:    v.priority,
		Status:      v.status,
		Tags:        v.tags,
		Owner:       strings.TrimSpace(v.owner),
	}
}

func (m entriesModel) renderForm() string {
	title := titleStyle.Render(formTitles[m.formType])
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
	return panelStyle.Width(m.width - 4).Render(content)
}

func formTheme() *huh.Theme {
	if activeTheme == themePlain {
		return huh.ThemeCharm()
	}
	return huh.ThemeBase16()
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsStatus(set []model.Status, s model.Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
