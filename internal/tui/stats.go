package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/datamgr/internal/dataset"
	"github.com/sadopc/datamgr/internal/model"
)

type statsMode int

const (
	statsByStatus statsMode = iota
	statsByPriority
)

type countRow struct {
	label string
	count int
	style lipgloss.Style
}

type statsModel struct {
	ds     *dataset.Dataset
	width  int
	height int

	mode      statsMode
	total     int
	rows      []countRow
	countries []countRow

	chart barchart.Model
}

func newStatsModel(ds *dataset.Dataset) statsModel {
	return statsModel{
		ds:    ds,
		chart: barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
	s.buildChart()
}

func (s *statsModel) refresh() {
	entries := s.ds.Entries()
	s.total = len(entries)
	s.rows = nil

	switch s.mode {
	case statsByPriority:
		counts := make(map[model.Priority]int)
		for _, e := range entries {
			counts[e.Priority]++
		}
		for _, p := range model.Priorities {
			s.rows = append(s.rows, countRow{label: string(p), count: counts[p], style: priorityStyle(p)})
		}
	default:
		counts := make(map[model.Status]int)
		for _, e := range entries {
			counts[e.Status]++
		}
		for _, st := range model.Statuses {
			s.rows = append(s.rows, countRow{label: string(st), count: counts[st], style: statusStyle(st)})
		}
	}

	byCountry := make(map[string]int)
	for _, e := range entries {
		c := e.Country
		if c == "" {
			c = "-"
		}
		byCountry[c]++
	}
	s.countries = nil
	for c, n := range byCountry {
		s.countries = append(s.countries, countRow{label: c, count: n, style: highlightStyle})
	}
	sort.Slice(s.countries, func(i, j int) bool {
		if s.countries[i].count != s.countries[j].count {
			return s.countries[i].count > s.countries[j].count
		}
		return s.countries[i].label < s.countries[j].label
	})

	s.buildChart()
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Enter):
			if s.mode == statsByStatus {
				s.mode = statsByPriority
			} else {
				s.mode = statsByStatus
			}
			s.refresh()
		}
	}
	return s, nil
}

func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	bars := make([]barchart.BarData, 0, len(s.rows))
	for _, r := range s.rows {
		bars = append(bars, barchart.BarData{
			Label: r.label,
			Values: []barchart.BarValue{{
				Name:  r.label,
				Value: float64(r.count),
				Style: r.style,
			}},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	statusTab := inactiveTabStyle.Render("By status")
	priorityTab := inactiveTabStyle.Render("By priority")
	if s.mode == statsByStatus {
		statusTab = activeTabStyle.Render("By status")
	} else {
		priorityTab = activeTabStyle.Render("By priority")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ", statusTab, priorityTab, "  ",
		mutedStyle.Render(fmt.Sprintf("%d %s", s.total, pluralWord(s.total, "entry", "entries"))),
	)

	if s.total == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("  No entries yet"),
		))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", s.chart.View(), "", s.renderTable(w), "", s.renderCountries(),
			"", mutedStyle.Render("  enter: switch breakdown"),
		),
	)
}

func (s statsModel) renderTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %8s %8s", "", "Entries", "Share")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 30)))))
	for _, r := range s.rows {
		share := 0.0
		if s.total > 0 {
			share = float64(r.count) * 100 / float64(s.total)
		}
		rows = append(rows, fmt.Sprintf("  %s %8d %7.0f%%", r.style.Render(fmt.Sprintf("%-12s", r.label)), r.count, share))
	}
	return strings.Join(rows, "\n")
}

func (s statsModel) renderCountries() string {
	if len(s.countries) == 0 {
		return ""
	}
	var items []string
	for i, c := range s.countries {
		if i == 8 {
			items = append(items, mutedStyle.Render(fmt.Sprintf("+%d more", len(s.countries)-i)))
			break
		}
		items = append(items, fmt.Sprintf("%s %d", c.style.Render(c.label), c.count))
	}
	return "  " + mutedStyle.Render("Countries: ") + strings.Join(items, "  ")
}
