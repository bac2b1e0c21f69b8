package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/datamgr/internal/logging"
	"github.com/sadopc/datamgr/internal/store"
)

// SettingsStore persists UI preferences. *store.Store satisfies it.
type SettingsStore interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

type settingsModel struct {
	settings SettingsStore
	log      logging.Logger
	info     []infoRow
	width    int
	height   int

	theme      string
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formValue *string
}

// infoRow is a read-only line shown under the editable settings.
type infoRow struct {
	label string
	value string
}

func newSettingsModel(s SettingsStore, log logging.Logger, info []infoRow) settingsModel {
	th := ""
	return settingsModel{
		settings:  s,
		log:       log,
		info:      info,
		theme:     activeTheme,
		formValue: &th,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

// loadTheme returns the persisted theme, or fallback when none is stored.
func (s settingsModel) loadTheme(fallback string) string {
	v, err := s.settings.GetSetting(store.SettingTheme)
	if err != nil || v == "" {
		return fallback
	}
	if _, ok := palettes[v]; !ok {
		return fallback
	}
	return v
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Enter), key.Matches(km, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.formValue = s.theme

	opts := make([]huh.Option[string], len(themeNames))
	for i, name := range themeNames {
		opts[i] = huh.NewOption(name, name)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Description("Changes the look only; data and filters are kept.").
				Options(opts...).Value(s.formValue),
		).Title("Appearance"),
	).WithShowHelp(true).WithShowErrors(true).WithTheme(formTheme())

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s.saveTheme(*s.formValue)
	}

	return s, cmd
}

func (s settingsModel) saveTheme(theme string) (settingsModel, tea.Cmd) {
	s.theme = theme
	changed := func() tea.Msg { return themeChangedMsg{theme: theme} }
	if err := s.settings.SetSetting(store.SettingTheme, theme); err != nil {
		s.log.Warn(context.Background(), "save theme", "theme", theme, "err", err)
		return s, tea.Batch(changed, func() tea.Msg {
			return statusMsg{text: "Theme applied but not saved: " + err.Error(), isError: true}
		})
	}
	return s, tea.Batch(changed, status("Theme: "+theme))
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	label := lipgloss.NewStyle().Width(16)
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("  %s %s", label.Render("theme"), highlightStyle.Render(s.theme)))
	for _, r := range s.info {
		rows = append(rows, fmt.Sprintf("  %s %s", label.Render(r.label), mutedStyle.Render(r.value)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to change the theme"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
