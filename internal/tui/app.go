// Package tui is the interactive terminal front end: an entries table with
// search, filters and bulk selection, a tag manager, summary charts and
// settings, rendered in either the plain or the terminal theme.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-homedir"

	"github.com/sadopc/datamgr/internal/dataset"
	"github.com/sadopc/datamgr/internal/export"
	"github.com/sadopc/datamgr/internal/importer"
	"github.com/sadopc/datamgr/internal/logging"
)

// Options carries what the TUI needs from configuration.
type Options struct {
	// Theme is used when no theme has been saved yet.
	Theme      string
	ExportDir  string
	DataDir    string
	Backend    string
	ConfigFile string
	Logger     logging.Logger
	Now        func() time.Time

	// Warning is shown in the status line at startup.
	Warning string
}

// changeSet records dataset notifications between two updates.
type changeSet struct {
	data bool
}

// App is the root Bubble Tea model.
type App struct {
	ds      *dataset.Dataset
	opts    Options
	log     logging.Logger
	changes *changeSet
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	importing     bool
	importForm    *huh.Form
	importPath    *string

	entries  entriesModel
	tags     tagsModel
	stats    statsModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(ds *dataset.Dataset, settings SettingsStore, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger.With("component", "tui")

	h := help.New()
	h.ShowAll = false

	sm := newSettingsModel(settings, log, []infoRow{
		{"data dir", opts.DataDir},
		{"backend", opts.Backend},
		{"export dir", opts.ExportDir},
		{"config file", orNone(opts.ConfigFile)},
	})
	applyTheme(sm.loadTheme(opts.Theme))
	sm.theme = activeTheme

	changes := &changeSet{}
	ds.Subscribe(func(c dataset.Change) {
		if c.Kind != dataset.SelectionChanged {
			changes.data = true
		}
	})

	path := ""
	a := App{
		ds:         ds,
		opts:       opts,
		log:        log,
		changes:    changes,
		activeView: viewEntries,
		entries:    newEntriesModel(ds, log),
		tags:       newTagsModel(ds),
		stats:      newStatsModel(ds),
		settings:   sm,
		importPath: &path,
		help:       h,
		status:     opts.Warning,
		statusErr:  opts.Warning != "",
	}
	a.stats.refresh()
	return a
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.handle(msg)
	app := m.(App)
	app.sync()
	return app, cmd
}

// sync reloads every view after the dataset changed.
func (a *App) sync() {
	if !a.changes.data {
		return
	}
	a.changes.data = false
	a.entries.refresh()
	a.tags.refresh()
	a.stats.refresh()
}

func (a App) handle(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.entries.setSize(a.width, contentHeight)
		a.tags.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}
		if a.importing {
			return a.updateImport(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Import):
			return a.showImport()
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewEntries
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTags
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewStats
			a.stats.refresh()
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewStats {
				a.stats.refresh()
			}
			return a, nil
		}

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case themeChangedMsg:
		applyTheme(msg.theme)
		a.stats.refresh()
		return a, nil
	}

	if a.importing {
		return a.updateImport(msg)
	}
	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewEntries:
		a.entries, cmd = a.entries.update(msg)
	case viewTags:
		a.tags, cmd = a.tags.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewEntries:
		return a.entries.capturing()
	case viewTags:
		return a.tags.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewEntries:
		content = a.entries.view()
	case viewTags:
		content = a.tags.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	switch {
	case a.exportPicking:
		content = a.renderExportPicker()
	case a.importing && a.importForm != nil:
		content = a.renderImport()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	name := "Data Manager"
	if activeTheme == themeTerminal {
		name = "datamgr:~$"
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render(name)
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

var exportFormats = []export.Format{export.FormatJSON, export.FormatCSV}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("%d entries to %s", a.ds.Len(), a.opts.ExportDir)))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = cursorMarker
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+export.DefaultFileName(f, a.opts.Now())))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport snapshots the collections now and writes them off the update loop.
func (a App) doExport(format export.Format) tea.Cmd {
	entries, tags := a.ds.Entries(), a.ds.Tags()
	path := filepath.Join(a.opts.ExportDir, export.DefaultFileName(format, a.opts.Now()))
	log := a.log
	return func() tea.Msg {
		if err := export.ToFile(format, entries, tags, path); err != nil {
			log.Error(context.Background(), "export", "format", format, "path", path, "err", err)
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		log.Info(context.Background(), "exported", "format", format, "path", path, "entries", len(entries))
		return exportDoneMsg{path: path}
	}
}

func (a App) showImport() (tea.Model, tea.Cmd) {
	*a.importPath = ""
	a.importForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Import JSON file").
				Description("Entries are added; existing tags are kept.").
				Placeholder("~/data-export.json").
				Value(a.importPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true).WithTheme(formTheme())
	a.importing = true
	return a, a.importForm.Init()
}

func (a App) updateImport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		a.importing = false
		a.importForm = nil
		return a, nil
	}

	form, cmd := a.importForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.importForm = f
	}
	if a.importForm.State != huh.StateCompleted {
		return a, cmd
	}

	a.importing = false
	a.importForm = nil
	return a, a.runImport(*a.importPath)
}

// runImport merges on the update loop since it mutates the dataset.
func (a App) runImport(path string) tea.Cmd {
	ctx := context.Background()
	expanded, err := homedir.Expand(path)
	if err != nil {
		expanded = path
	}

	rep, err := importer.ImportFile(a.ds, expanded)
	if err != nil && importer.Classify(err) != importer.KindPersist {
		a.log.Warn(ctx, "import rejected", "path", expanded, "err", err)
		return func() tea.Msg { return statusMsg{text: importer.Message(err), isError: true} }
	}

	text := fmt.Sprintf("Imported %d %s, %d new %s",
		rep.EntriesImported, pluralWord(rep.EntriesImported, "entry", "entries"),
		rep.TagsAdded, pluralWord(rep.TagsAdded, "tag", "tags"))
	if rep.EntriesSkipped > 0 {
		text += fmt.Sprintf(", %d duplicate ids skipped", rep.EntriesSkipped)
	}
	a.log.Info(ctx, "imported", "path", expanded, "entries", rep.EntriesImported, "tags", rep.TagsAdded)
	return result(text, err)
}

func (a App) renderImport() string {
	title := titleStyle.Render("Import")
	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", a.importForm.View()))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
