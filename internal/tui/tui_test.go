package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/datamgr/internal/dataset"
	"github.com/sadopc/datamgr/internal/model"
	"github.com/sadopc/datamgr/internal/store"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory(store.WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestApp(t *testing.T) (App, *dataset.Dataset, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	ds := dataset.New(s, s.LoadEntries(), s.LoadTags())
	app := NewApp(ds, s, Options{
		Theme:     themeTerminal,
		ExportDir: t.TempDir(),
		Now:       func() time.Time { return fixedNow },
	})
	t.Cleanup(func() { applyTheme(themeTerminal) })
	return app, ds, s
}

func sized(app App) App {
	m, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

func press(t *testing.T, app App, ks ...string) App {
	t.Helper()
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := app.Update(msg)
		app = m.(App)
	}
	return app
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app, _, _ := newTestApp(t)

	if app.activeView != viewEntries {
		t.Fatal("default view should be entries")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if len(app.entries.visible) != 4 {
		t.Fatalf("expected 4 seeded entries, got %d", len(app.entries.visible))
	}
}

func TestAppIsFormActiveDefault(t *testing.T) {
	app, _, _ := newTestApp(t)

	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppLoadingState(t *testing.T) {
	app, _, _ := newTestApp(t)
	// Width 0 means not yet sized
	output := app.View()
	if output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppViewStates(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = sized(app)

	views := []viewState{viewEntries, viewTags, viewStats, viewSettings}
	for _, v := range views {
		app.activeView = v
		output := app.View()
		if output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppNarrowTerminal(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, width := range []int{1, 8, 12} {
		m, _ := app.Update(tea.WindowSizeMsg{Width: width, Height: 10})
		app = m.(App)
		for _, tab := range []string{"1", "2", "3", "4"} {
			app = press(t, app, tab)
			if app.View() == "" {
				t.Fatalf("tab %s rendered empty at width %d", tab, width)
			}
		}
	}
}

func TestAppStartupWarning(t *testing.T) {
	s := newTestStore(t)
	ds := dataset.New(s, s.LoadEntries(), s.LoadTags())
	app := NewApp(ds, s, Options{Theme: themeTerminal, Warning: "stored data could not be read"})
	app = sized(app)

	if !app.statusErr {
		t.Fatal("startup warning should be flagged as an error")
	}
	if !strings.Contains(app.renderFooter(), "stored data could not be read") {
		t.Fatal("footer should show the startup warning")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = sized(app)

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppHeaderFollowsTheme(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = sized(app)

	if !strings.Contains(app.renderHeader(), "datamgr:~$") {
		t.Fatal("terminal theme header should show the prompt title")
	}
	m, _ := app.Update(themeChangedMsg{theme: themePlain})
	app = m.(App)
	if !strings.Contains(app.renderHeader(), "Data Manager") {
		t.Fatal("plain theme header should show the product title")
	}
}

func TestAppStatusMessage(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = sized(app)

	m, _ := app.Update(statusMsg{text: "test status"})
	app = m.(App)
	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}

	m, _ = app.Update(statusMsg{text: "boom", isError: true})
	app = m.(App)
	if !app.statusErr || !strings.Contains(app.renderFooter(), "boom") {
		t.Fatal("error status should be shown and flagged")
	}
}

func TestAppTabSwitching(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = sized(app)

	app = press(t, app, "2")
	if app.activeView != viewTags {
		t.Fatalf("expected tags view, got %d", app.activeView)
	}
	app = press(t, app, "tab", "tab")
	if app.activeView != viewSettings {
		t.Fatalf("expected settings view, got %d", app.activeView)
	}
	app = press(t, app, "tab")
	if app.activeView != viewEntries {
		t.Fatal("tab should wrap around to entries")
	}
}

func TestAppHelpToggle(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = sized(app)

	app = press(t, app, "?")
	if !app.showHelp || !app.help.ShowAll {
		t.Fatal("? should expand help")
	}
	app = press(t, app, "?")
	if app.showHelp {
		t.Fatal("? should collapse help again")
	}
}

func TestAppSyncAfterExternalChange(t *testing.T) {
	app, ds, _ := newTestApp(t)
	app = sized(app)

	if _, err := ds.Delete("1"); err != nil {
		t.Fatal(err)
	}
	// any message triggers a resync
	m, _ := app.Update(statusMsg{text: "x"})
	app = m.(App)

	if len(app.entries.visible) != 3 {
		t.Fatalf("entries view not refreshed: %d", len(app.entries.visible))
	}
	if app.stats.total != 3 {
		t.Fatalf("stats not refreshed: %d", app.stats.total)
	}
	if app.tags.usage["1"] != 1 {
		t.Fatalf("tag usage not refreshed: %d", app.tags.usage["1"])
	}
}

// ============================================================
// Export / import
// ============================================================

func TestAppExportPicker(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = sized(app)

	app = press(t, app, "E")
	if !app.exportPicking {
		t.Fatal("E should open export picker")
	}
	if !strings.Contains(app.View(), "data-export-2024-06-15.json") {
		t.Fatal("picker should list the json file name")
	}

	app = press(t, app, "down")
	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = m.(App)
	if app.exportPicking {
		t.Fatal("picker should close on enter")
	}
	if cmd == nil {
		t.Fatal("export should return a command")
	}

	done, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatal("expected exportDoneMsg")
	}
	want := filepath.Join(app.opts.ExportDir, "data-export-2024-06-15.csv")
	if done.path != want {
		t.Fatalf("expected %s, got %s", want, done.path)
	}
	data, err := os.ReadFile(done.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "SRV-2024-003") {
		t.Fatal("csv export missing entry")
	}
}

func TestAppExportPickerCancel(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = sized(app)

	app = press(t, app, "E", "esc")
	if app.exportPicking {
		t.Fatal("esc should close picker")
	}
}

func TestAppRunImport(t *testing.T) {
	app, ds, _ := newTestApp(t)
	app = sized(app)

	path := filepath.Join(t.TempDir(), "in.json")
	doc := `{"entries":[{"id":"n1","country":"FR","machineId":"SRV-FR-1","description":"Paris edge",` +
		`"category":"Edge","priority":"low","status":"active","tags":["7"],` +
		`"createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"2024-01-01T00:00:00.000Z"}],` +
		`"tags":[{"id":"7","name":"Edge","color":"teal"},{"id":"1","name":"Other","color":"red"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := app.runImport(path)
	msg, ok := cmd().(statusMsg)
	if !ok {
		t.Fatal("expected statusMsg")
	}
	if msg.isError {
		t.Fatalf("unexpected error: %s", msg.text)
	}
	if !strings.Contains(msg.text, "Imported 1 entry, 1 new tag") {
		t.Fatalf("unexpected status %q", msg.text)
	}
	if ds.Len() != 5 {
		t.Fatalf("expected 5 entries, got %d", ds.Len())
	}
	if tag, _ := ds.Tag("1"); tag.Name != "Important" {
		t.Fatal("existing tag should be kept")
	}
}

func TestAppRunImportRejectsInvalid(t *testing.T) {
	app, ds, _ := newTestApp(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"entries":[{"id":"x"}],"tags":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	msg := app.runImport(path)().(statusMsg)
	if !msg.isError {
		t.Fatal("invalid document should report an error")
	}
	if ds.Len() != 4 {
		t.Fatal("rejected import must not change entries")
	}
}

func TestAppImportFormEscape(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = sized(app)

	app = press(t, app, "I")
	if !app.importing {
		t.Fatal("I should open the import prompt")
	}
	app = press(t, app, "esc")
	if app.importing {
		t.Fatal("esc should close the import prompt")
	}
}

// ============================================================
// Entries view
// ============================================================

func TestEntriesSearch(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = sized(app)

	app = press(t, app, "/")
	if !app.isFormActive() {
		t.Fatal("search mode should capture keys")
	}
	app = press(t, app, "j", "p")
	if len(app.entries.visible) != 1 || app.entries.visible[0].ID != "3" {
		t.Fatalf("expected only entry 3, got %v", app.entries.visible)
	}

	// enter keeps the query
	app = press(t, app, "enter")
	if app.entries.filter.Search != "jp" || len(app.entries.visible) != 1 {
		t.Fatal("enter should keep the search")
	}

	// esc in search mode clears it
	app = press(t, app, "/", "esc")
	if app.entries.filter.Search != "" || len(app.entries.visible) != 4 {
		t.Fatal("esc should clear the search")
	}
}

func TestEntriesSelectAllScopedToVisible(t *testing.T) {
	app, ds, _ := newTestApp(t)
	app = sized(app)

	app = press(t, app, "/", "j", "p", "enter", "a")
	sel := ds.Selected()
	if len(sel) != 1 || sel[0] != "3" {
		t.Fatalf("select all should cover visible only, got %v", sel)
	}

	app = press(t, app, "a")
	if len(ds.Selected()) != 0 {
		t.Fatal("second select all should clear")
	}
}

func TestEntriesDeleteConfirm(t *testing.T) {
	app, ds, _ := newTestApp(t)
	app = sized(app)

	app = press(t, app, "a", "d")
	if !app.entries.formActive || app.entries.formType != formDelete {
		t.Fatal("d should open delete confirmation")
	}
	if len(app.entries.pendingDelete) != 4 {
		t.Fatalf("delete should target the selection, got %v", app.entries.pendingDelete)
	}

	app.entries.vals.confirm = true
	var cmd tea.Cmd
	app.entries, cmd = app.entries.completeForm()
	msg := cmd().(statusMsg)
	if msg.text != "Deleted 4 entries" {
		t.Fatalf("unexpected status %q", msg.text)
	}
	if ds.Len() != 0 || len(ds.Selected()) != 0 {
		t.Fatal("entries and selection should be empty")
	}
}

func TestEntriesDeleteCancelled(t *testing.T) {
	app, ds, _ := newTestApp(t)
	app = sized(app)

	app = press(t, app, "d")
	if len(app.entries.pendingDelete) != 1 || app.entries.pendingDelete[0] != "1" {
		t.Fatalf("delete should target the cursor entry, got %v", app.entries.pendingDelete)
	}
	app = press(t, app, "esc")
	if app.entries.formActive || ds.Len() != 4 {
		t.Fatal("esc should cancel without deleting")
	}
}

func TestEntriesDetailToggles(t *testing.T) {
	app, ds, _ := newTestApp(t)
	app = sized(app)

	app = press(t, app, "enter")
	if app.entries.mode != modeDetail || app.entries.detailID != "1" {
		t.Fatal("enter should open the detail view of entry 1")
	}

	app = press(t, app, "m", "u")
	e, _ := ds.Get("1")
	if e.Email != model.EmailYes {
		t.Fatalf("email should be yes, got %q", e.Email)
	}
	if e.Auth != model.AuthPass {
		t.Fatalf("auth should be pass, got %q", e.Auth)
	}
	if !strings.Contains(app.View(), "SRV-2024-001") {
		t.Fatal("detail view should show the machine id")
	}

	app = press(t, app, "esc")
	if app.entries.mode != modeList {
		t.Fatal("esc should return to the list")
	}
}

func TestEntriesDuplicate(t *testing.T) {
	app, ds, _ := newTestApp(t)
	app = sized(app)

	app = press(t, app, "y")
	if ds.Len() != 5 {
		t.Fatalf("expected 5 entries, got %d", ds.Len())
	}
	if len(app.entries.visible) != 5 {
		t.Fatal("list should show the duplicate")
	}
}

// ============================================================
// Tags and stats
// ============================================================

func TestTagsViewUsage(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = sized(app)
	app = press(t, app, "2")

	out := app.View()
	for _, name := range []string{"Important", "Work", "Done"} {
		if !strings.Contains(out, name) {
			t.Fatalf("tags view missing %q", name)
		}
	}
	if app.tags.usage["2"] != 3 {
		t.Fatalf("expected Work used 3 times, got %d", app.tags.usage["2"])
	}
}

func TestStatsCounts(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = sized(app)
	app = press(t, app, "3")

	counts := map[string]int{}
	for _, r := range app.stats.rows {
		counts[r.label] = r.count
	}
	if counts["active"] != 2 || counts["pending"] != 1 || counts["completed"] != 1 {
		t.Fatalf("unexpected status counts %v", counts)
	}

	app = press(t, app, "enter")
	counts = map[string]int{}
	for _, r := range app.stats.rows {
		counts[r.label] = r.count
	}
	if counts["high"] != 2 || counts["medium"] != 1 || counts["low"] != 1 {
		t.Fatalf("unexpected priority counts %v", counts)
	}
	if len(app.stats.countries) != 4 {
		t.Fatalf("expected 4 countries, got %d", len(app.stats.countries))
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsThemePersisted(t *testing.T) {
	app, _, s := newTestApp(t)

	var cmd tea.Cmd
	app.settings, cmd = app.settings.saveTheme(themePlain)
	if cmd == nil {
		t.Fatal("saving theme should emit messages")
	}
	v, err := s.GetSetting(store.SettingTheme)
	if err != nil {
		t.Fatal(err)
	}
	if v != themePlain {
		t.Fatalf("expected plain, got %q", v)
	}

	ds := dataset.New(s, s.LoadEntries(), s.LoadTags())
	again := NewApp(ds, s, Options{Theme: themeTerminal})
	if again.settings.theme != themePlain || activeTheme != themePlain {
		t.Fatal("saved theme should win over the configured default")
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatDate(t *testing.T) {
	if got := formatDate("2024-06-15T12:00:00.000Z"); got != "Jun 15, 2024" {
		t.Fatalf("got %q", got)
	}
	if got := formatDate("not a date"); got != "not a date" {
		t.Fatalf("unparseable dates should be shown raw, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"toolongvalue", 5, "tool…"},
		{"ünïcödé", 4, "ünï…"},
		{"anything", 0, ""},
		{"anything", -3, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestTagChips(t *testing.T) {
	idx := model.TagIndex([]model.Tag{
		{ID: "1", Name: "A", Color: "red"},
		{ID: "2", Name: "B", Color: "blue"},
		{ID: "3", Name: "C", Color: "green"},
	})

	out := tagChips([]string{"1", "missing", "2", "3"}, idx, 2)
	if !strings.Contains(out, "A") || !strings.Contains(out, "B") {
		t.Fatalf("expected first two tags, got %q", out)
	}
	if strings.Contains(out, "missing") {
		t.Fatal("dangling ids should be skipped")
	}
	if !strings.Contains(out, "+1") {
		t.Fatalf("expected overflow marker, got %q", out)
	}
}

func TestPluralWord(t *testing.T) {
	if pluralWord(1, "entry", "entries") != "entry" || pluralWord(0, "entry", "entries") != "entries" {
		t.Fatal("pluralWord picked the wrong form")
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 4 {
		t.Fatalf("expected 4 view names, got %d", len(viewNames))
	}
	if viewNames[viewEntries] != "Entries" || viewNames[viewSettings] != "Settings" {
		t.Fatal("view names out of order")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	bindings := keys.ShortHelp()
	if len(bindings) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they render)
// ============================================================

func TestStylesRender(t *testing.T) {
	t.Cleanup(func() { applyTheme(themeTerminal) })

	for _, theme := range themeNames {
		applyTheme(theme)
		styles := []struct {
			name string
			fn   func() string
		}{
			{"activeTab", func() string { return activeTabStyle.Render("test") }},
			{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
			{"panel", func() string { return panelStyle.Render("test") }},
			{"activePanel", func() string { return activePanelStyle.Render("test") }},
			{"title", func() string { return titleStyle.Render("test") }},
			{"accent", func() string { return accentStyle.Render("test") }},
			{"success", func() string { return successStyle.Render("test") }},
			{"warning", func() string { return warningStyle.Render("test") }},
			{"error", func() string { return errorStyle.Render("test") }},
			{"muted", func() string { return mutedStyle.Render("test") }},
			{"highlight", func() string { return highlightStyle.Render("test") }},
			{"header", func() string { return headerStyle.Render("test") }},
			{"footer", func() string { return footerStyle.Render("test") }},
			{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
			{"normalItem", func() string { return normalItemStyle.Render("test") }},
		}
		for _, s := range styles {
			if s.fn() == "" {
				t.Fatalf("%s: style %q rendered empty", theme, s.name)
			}
		}
	}
}

func TestApplyThemeFallback(t *testing.T) {
	t.Cleanup(func() { applyTheme(themeTerminal) })

	applyTheme(themePlain)
	if activeTheme != themePlain || cursorMarker != "> " {
		t.Fatal("plain theme not applied")
	}
	applyTheme("neon")
	if activeTheme != themeTerminal || cursorMarker != "$ " {
		t.Fatal("unknown theme should fall back to terminal")
	}
}
