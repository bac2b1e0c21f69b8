package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/datamgr/internal/model"
)

// viewState represents the currently active view.
type viewState int

const (
	viewEntries viewState = iota
	viewTags
	viewStats
	viewSettings
)

var viewNames = []string{"Entries", "Tags", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

type themeChangedMsg struct {
	theme string
}

// --- Helpers ---

// formatDate renders a stored timestamp as a short local date. Values that
// do not parse are shown raw.
func formatDate(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("Jan 02, 2006")
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// tagChips renders up to limit resolved tags and a "+N" for the rest.
// Dangling ids are skipped.
func tagChips(ids []string, idx map[string]model.Tag, limit int) string {
	var chips []string
	shown, extra := 0, 0
	for _, id := range ids {
		t, ok := idx[id]
		if !ok {
			continue
		}
		if shown == limit {
			extra++
			continue
		}
		chips = append(chips, tagStyle(t.Color).Render(t.Name))
		shown++
	}
	if extra > 0 {
		chips = append(chips, mutedStyle.Render(fmt.Sprintf("+%d", extra)))
	}
	return strings.Join(chips, " ")
}

func pluralWord(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
