package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/sadopc/datamgr/internal/model"
	"github.com/sadopc/datamgr/internal/query"
)

type listOptions struct {
	Search    string
	Tags      []string
	Countries []string
	Statuses  []string
	Sort      string
	Desc      bool
}

func addList(topLevel *cobra.Command, ro *rootOptions) {
	o := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print entries as a table, optionally filtered and sorted.",
		Example: `
datamgr list
datamgr list --status active --tag Work
datamgr list --search srv-2024 --sort machineId --desc
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, s, err := o.query()
			if err != nil {
				return err
			}

			e, err := setup(cmd, ro)
			if err != nil {
				return err
			}
			defer e.Close()

			tags := e.ds.Tags()
			f.Tags, err = resolveTags(o.Tags, tags)
			if err != nil {
				return err
			}

			all := e.ds.Entries()
			shown := query.Apply(all, f, s)
			printEntries(cmd, shown, tags)

			faint := color.New(color.Faint)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), faint.Sprintf("%d of %d %s", len(shown), len(all), plural(len(all), "entry", "entries")))
			return nil
		},
	}

	cmd.Flags().StringVarP(&o.Search, "search", "s", "", "Case-insensitive text in machine id, description, category or country.")
	cmd.Flags().StringSliceVarP(&o.Tags, "tag", "t", nil, "Only entries carrying every given tag (name or id).")
	cmd.Flags().StringSliceVarP(&o.Countries, "country", "c", nil, "Only entries from one of the given countries.")
	cmd.Flags().StringSliceVar(&o.Statuses, "status", nil, "Only entries in one of the given statuses.")
	cmd.Flags().StringVar(&o.Sort, "sort", "", "Sort column: "+keyNames()+".")
	cmd.Flags().BoolVar(&o.Desc, "desc", false, "Sort descending.")

	topLevel.AddCommand(cmd)
}

// query validates the flags that don't depend on stored data.
func (o *listOptions) query() (query.Filter, query.Sort, error) {
	f := query.Filter{Search: o.Search, Countries: o.Countries}
	for _, st := range o.Statuses {
		status := model.Status(strings.ToLower(st))
		if !model.ValidStatus(status) {
			return f, query.Sort{}, fmt.Errorf("unknown status %q", st)
		}
		f.Statuses = append(f.Statuses, status)
	}

	var s query.Sort
	if o.Sort != "" {
		k := query.Key(o.Sort)
		if !query.ValidKey(k) {
			return f, s, fmt.Errorf("unknown sort column %q (want one of %s)", o.Sort, keyNames())
		}
		s = query.Sort{Key: k, Dir: query.Asc}
		if o.Desc {
			s.Dir = query.Desc
		}
	}
	return f, s, nil
}

// resolveTags maps tag names (case-insensitive) or ids to ids.
func resolveTags(names []string, tags []model.Tag) ([]string, error) {
	var ids []string
	for _, n := range names {
		found := ""
		for _, t := range tags {
			if t.ID == n || strings.EqualFold(t.Name, n) {
				found = t.ID
				break
			}
		}
		if found == "" {
			return nil, fmt.Errorf("unknown tag %q", n)
		}
		ids = append(ids, found)
	}
	return ids, nil
}

func printEntries(cmd *cobra.Command, entries []model.Entry, tags []model.Tag) {
	bold := color.New(color.Bold)
	idx := model.TagIndex(tags)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Machine"), bold.Sprint("Country"), bold.Sprint("Status"),
		bold.Sprint("Priority"), bold.Sprint("Tags"), bold.Sprint("Description"))
	for _, e := range entries {
		var names []string
		for _, id := range e.Tags {
			if t, ok := idx[id]; ok {
				names = append(names, t.Name)
			}
		}
		tbl.AddRow(e.ID, e.MachineID, e.Country, statusColor(e.Status).Sprint(e.Status),
			e.Priority, strings.Join(names, ","), e.Description)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), tbl)
}

func statusColor(s model.Status) *color.Color {
	switch s {
	case model.StatusActive:
		return color.New(color.FgGreen)
	case model.StatusPending:
		return color.New(color.FgYellow)
	case model.StatusCompleted:
		return color.New(color.FgBlue)
	case model.StatusError:
		return color.New(color.FgRed, color.Bold)
	}
	return color.New(color.Faint)
}

func keyNames() string {
	names := make([]string, len(query.Keys))
	for i, k := range query.Keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
