package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	New          key.Binding
	Edit         key.Binding
	Duplicate    key.Binding
	Delete       key.Binding
	Search       key.Binding
	TagFilter    key.Binding
	StatusFilter key.Binding
	Country      key.Binding
	ClearFilters key.Binding
	Sort         key.Binding
	Select       key.Binding
	SelectAll    key.Binding
	ToggleEmail  key.Binding
	ToggleAuth   key.Binding
	AddStore     key.Binding
	Export       key.Binding
	Import       key.Binding
	Tab1         key.Binding
	Tab2         key.Binding
	Tab3         key.Binding
	Tab4         key.Binding
	Tab          key.Binding
	Help         key.Binding
	Enter        key.Binding
	Back         key.Binding
	Up           key.Binding
	Down         key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "duplicate"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	TagFilter: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "tags"),
	),
	StatusFilter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "status"),
	),
	Country: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "country"),
	),
	ClearFilters: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear filters"),
	),
	Sort: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "sort"),
	),
	Select: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "select"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select all"),
	),
	ToggleEmail: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "email"),
	),
	ToggleAuth: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "auth"),
	),
	AddStore: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "add store"),
	),
	Export: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "export"),
	),
	Import: key.NewBinding(
		key.WithKeys("I"),
		key.WithHelp("I", "import"),
	),
	Tab1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "entries"),
	),
	Tab2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "tags"),
	),
	Tab3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "stats"),
	),
	Tab4: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "settings"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Search, k.Select, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Edit, k.Duplicate, k.Delete},
		{k.Search, k.TagFilter, k.StatusFilter, k.Country, k.ClearFilters, k.Sort},
		{k.Select, k.SelectAll, k.ToggleEmail, k.ToggleAuth, k.AddStore},
		{k.Export, k.Import, k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}
