package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/datamgr/internal/dataset"
	"github.com/sadopc/datamgr/internal/model"
)

type tagsModel struct {
	ds     *dataset.Dataset
	width  int
	height int

	tags   []model.Tag
	usage  map[string]int
	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "new" or "delete"

	// Form field pointers (survive value copies)
	formName    *string
	formColor   *model.TagColor
	formConfirm *bool
}

func newTagsModel(ds *dataset.Dataset) tagsModel {
	name, color, confirm := "", model.Palette[0], false
	t := tagsModel{
		ds:          ds,
		formName:    &name,
		formColor:   &color,
		formConfirm: &confirm,
	}
	t.refresh()
	return t
}

func (t *tagsModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t *tagsModel) refresh() {
	t.tags = t.ds.Tags()
	t.usage = t.ds.TagUsage()
	if t.cursor >= len(t.tags) {
		t.cursor = max(0, len(t.tags)-1)
	}
}

func (t tagsModel) update(msg tea.Msg) (tagsModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}
	switch {
	case key.Matches(km, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(km, keys.Down):
		if t.cursor < len(t.tags)-1 {
			t.cursor++
		}
	case key.Matches(km, keys.New):
		return t.showNewTagForm()
	case key.Matches(km, keys.Delete):
		if len(t.tags) > 0 {
			return t.showDeleteConfirm()
		}
	}
	return t, nil
}

func (t tagsModel) showNewTagForm() (tagsModel, tea.Cmd) {
	*t.formName = ""
	*t.formColor = model.Palette[0]
	t.formType = "new"

	colorOptions := make([]huh.Option[model.TagColor], len(model.Palette))
	for i, c := range model.Palette {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("%s %s", tagStyle(c).Render("●"), c), c)
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Tag Name").Value(t.formName).Validate(maxLen("name", 100, true)),
			huh.NewSelect[model.TagColor]().Title("Color").Options(colorOptions...).Value(t.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true).WithTheme(formTheme())

	t.formActive = true
	return t, t.form.Init()
}

func (t tagsModel) showDeleteConfirm() (tagsModel, tea.Cmd) {
	tag := t.tags[t.cursor]
	*t.formConfirm = false
	t.formType = "delete"

	desc := "No entries use this tag."
	if n := t.usage[tag.ID]; n > 0 {
		desc = fmt.Sprintf("%d %s keep the tag id but will no longer show it.", n, pluralWord(n, "entry", "entries"))
	}
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(fmt.Sprintf("Delete tag %q?", tag.Name)).Description(desc).
				Affirmative("Delete").Negative("Cancel").Value(t.formConfirm),
		),
	).WithShowHelp(true).WithTheme(formTheme())

	t.formActive = true
	return t, t.form.Init()
}

func (t tagsModel) updateForm(msg tea.Msg) (tagsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		t.form = nil
		switch t.formType {
		case "new":
			tag, err := t.ds.AddTag(*t.formName, *t.formColor)
			return t, result("Created tag "+tag.Name, err)
		case "delete":
			if *t.formConfirm && t.cursor < len(t.tags) {
				tag := t.tags[t.cursor]
				return t, result("Deleted tag "+tag.Name, t.ds.RemoveTag(tag.ID))
			}
		}
	}

	return t, cmd
}

func (t tagsModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Tag")
		if t.formType == "delete" {
			title = titleStyle.Render("Delete Tag")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Tags")
	if len(t.tags) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tags yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-10s %7s", "", "Name", "Color", "Entries")))

	for i, tag := range t.tags {
		dot := tagStyle(tag.Color).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = cursorMarker
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor)+dot+" "+
			style.Render(fmt.Sprintf("%-24s %-10s %7d", truncate(tag.Name, 24), tag.Color, t.usage[tag.ID])))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
