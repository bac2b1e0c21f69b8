package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/datamgr/internal/model"
)

func (m entriesModel) updateDetail(msg tea.KeyMsg) (entriesModel, tea.Cmd) {
	e, ok := m.ds.Get(m.detailID)
	if !ok {
		m.mode = modeList
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		m.mode = modeList
	case key.Matches(msg, keys.ToggleEmail):
		next := model.EmailYes
		if e.EmailOrDefault() == model.EmailYes {
			next = model.EmailNo
		}
		_, err := m.ds.Patch(e.ID, func(e *model.Entry) { e.Email = next })
		return m, result("Email: "+string(next), err)
	case key.Matches(msg, keys.ToggleAuth):
		next := model.AuthPass
		if e.AuthOrDefault() == model.AuthPass {
			next = model.AuthAuto
		}
		_, err := m.ds.Patch(e.ID, func(e *model.Entry) { e.Auth = next })
		return m, result("Auth: "+string(next), err)
	case key.Matches(msg, keys.Edit):
		return m.showDetailsForm(e)
	case key.Matches(msg, keys.AddStore):
		return m.showStoreForm()
	case key.Matches(msg, keys.Up):
		if m.storeCursor > 0 {
			m.storeCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.storeCursor < len(e.Stores)-1 {
			m.storeCursor++
		}
	case key.Matches(msg, keys.Delete):
		if m.storeCursor < len(e.Stores) {
			idx := m.storeCursor
			name := e.Stores[idx].Name
			_, err := m.ds.Patch(e.ID, func(e *model.Entry) {
				e.Stores = append(e.Stores[:idx:idx], e.Stores[idx+1:]...)
				if len(e.Stores) == 0 {
					e.Stores = nil
				}
			})
			if m.storeCursor > 0 && m.storeCursor >= len(e.Stores)-1 {
				m.storeCursor--
			}
			return m, result("Removed store "+name, err)
		}
	}
	return m, nil
}

func (m entriesModel) renderDetail() string {
	w := m.width - 4
	e, ok := m.ds.Get(m.detailID)
	if !ok {
		return panelStyle.Width(w).Render(mutedStyle.Render("Entry no longer exists. Press esc."))
	}

	label := lipgloss.NewStyle().Width(14).Foreground(colorMuted)
	line := func(k, v string) string {
		if v == "" {
			v = mutedStyle.Render("-")
		}
		return "  " + label.Render(k) + " " + v
	}

	password := ""
	if e.Password != "" {
		password = strings.Repeat("•", min(12, len([]rune(e.Password))))
	}

	var tagNames []string
	for _, id := range e.Tags {
		if t, ok := m.tagIdx[id]; ok {
			tagNames = append(tagNames, tagStyle(t.Color).Render(t.Name))
		}
	}

	rows := []string{
		titleStyle.Render(e.MachineID) + mutedStyle.Render("  "+e.ID),
		"",
		line("Country", e.Country),
		line("Category", e.Category),
		line("Priority", priorityStyle(e.Priority).Render(string(e.Priority))),
		line("Status", statusStyle(e.Status).Render(string(e.Status))),
		line("Tags", strings.Join(tagNames, " ")),
		line("Owner", e.Owner),
		line("Email", highlightStyle.Render(string(e.EmailOrDefault()))),
		line("Auth", highlightStyle.Render(string(e.AuthOrDefault()))),
		line("URL", e.URL),
		line("Password", password),
		line("Orders", e.Orders),
		line("Created", formatDate(e.CreatedAt)),
		line("Modified", formatDate(e.UpdatedAt)),
		"",
		line("Description", ""),
	}
	if e.Description != "" {
		rows[len(rows)-1] = line("Description", lipgloss.NewStyle().Width(max(20, w-24)).Render(e.Description))
	}
	if e.Notes != "" {
		rows = append(rows, line("Notes", lipgloss.NewStyle().Width(max(20, w-24)).Render(e.Notes)))
	}

	rows = append(rows, "", titleStyle.Render(fmt.Sprintf("Stores (%d)", len(e.Stores))))
	if len(e.Stores) == 0 {
		rows = append(rows, mutedStyle.Render("  No stores. Press s to add one."))
	}
	for i, s := range e.Stores {
		cursor := "  "
		style := normalItemStyle
		if i == m.storeCursor {
			cursor = cursorMarker
			style = selectedItemStyle
		}
		desc := ""
		if s.Description != "" {
			desc = mutedStyle.Render("  " + truncate(s.Description, 60))
		}
		rows = append(rows, style.Render(cursor+s.Name)+desc)
	}

	rows = append(rows, "", mutedStyle.Render("  m: toggle email  u: toggle auth  e: edit details  s: add store  d: remove store  esc: back"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
