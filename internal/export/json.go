// Package export writes entries and tags to JSON (lossless, re-importable)
// and CSV (flat, for spreadsheets).
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/datamgr/internal/model"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q (want json or csv)", s)
}

type document struct {
	Entries []model.Entry `json:"entries"`
	Tags    []model.Tag   `json:"tags"`
}

// WriteJSON writes {"entries": [...], "tags": [...]} indented by two spaces.
func WriteJSON(w io.Writer, entries []model.Entry, tags []model.Tag) error {
	doc := document{Entries: entries, Tags: tags}
	if doc.Entries == nil {
		doc.Entries = []model.Entry{}
	}
	if doc.Tags == nil {
		doc.Tags = []model.Tag{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func ToJSON(entries []model.Entry, tags []model.Tag, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, entries, tags); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return f.Close()
}

// Write dispatches on format.
func Write(w io.Writer, format Format, entries []model.Entry, tags []model.Tag) error {
	if format == FormatCSV {
		return WriteCSV(w, entries, tags)
	}
	return WriteJSON(w, entries, tags)
}

// ToFile dispatches on format.
func ToFile(format Format, entries []model.Entry, tags []model.Tag, path string) error {
	if format == FormatCSV {
		return ToCSV(entries, tags, path)
	}
	return ToJSON(entries, tags, path)
}

// DefaultFileName is data-export-YYYY-MM-DD.<format> in local time.
func DefaultFileName(format Format, now time.Time) string {
	return fmt.Sprintf("data-export-%s.%s", now.Format("2006-01-02"), format)
}
