package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sadopc/datamgr/internal/model"
)

var csvHeader = []string{
	"ID", "Country", "Machine ID", "Description", "Category", "Priority", "Status",
	"Tags", "Email", "Auth", "URL", "Owner", "Orders", "Notes", "Created At", "Updated At",
}

// WriteCSV writes one row per entry. Tag ids are resolved to names; ids with
// no matching tag are written as-is. Passwords and stores are never exported.
func WriteCSV(w io.Writer, entries []model.Entry, tags []model.Tag) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	idx := model.TagIndex(tags)
	for _, e := range entries {
		row := []string{
			e.ID,
			e.Country,
			e.MachineID,
			e.Description,
			e.Category,
			string(e.Priority),
			string(e.Status),
			tagNames(e.Tags, idx),
			string(e.EmailOrDefault()),
			string(e.AuthOrDefault()),
			e.URL,
			e.Owner,
			e.Orders,
			e.Notes,
			e.CreatedAt,
			e.UpdatedAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ToCSV(entries []model.Entry, tags []model.Tag, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, entries, tags); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}

func tagNames(ids []string, idx map[string]model.Tag) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		if t, ok := idx[id]; ok {
			names[i] = t.Name
		} else {
			names[i] = id
		}
	}
	return strings.Join(names, ", ")
}
