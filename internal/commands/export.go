package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/sadopc/datamgr/internal/export"
)

type exportOptions struct {
	Format string
	Output string
}

func addExport(topLevel *cobra.Command, ro *rootOptions) {
	o := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all entries and tags to a JSON or CSV file.",
		Long: `Write all entries and tags to a JSON or CSV file. Without --output the
file is named data-export-<date>.<format> and placed in the export directory.
CSV output leaves out passwords and stores.`,
		Example: `
datamgr export
datamgr export --format csv -o machines.csv
datamgr export -o - | jq .entries
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(o.Format)
			if err != nil {
				return err
			}

			e, err := setup(cmd, ro)
			if err != nil {
				return err
			}
			defer e.Close()

			entries, tags := e.ds.Entries(), e.ds.Tags()
			if o.Output == "-" {
				return export.Write(cmd.OutOrStdout(), format, entries, tags)
			}

			path := o.Output
			if path == "" {
				path = filepath.Join(e.cfg.ExportDir, export.DefaultFileName(format, time.Now()))
			} else if path, err = homedir.Expand(path); err != nil {
				return err
			}
			if err := export.ToFile(format, entries, tags, path); err != nil {
				return err
			}

			e.log.Info(context.Background(), "exported", "format", format, "path", path, "entries", len(entries))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s to %s\n", len(entries), plural(len(entries), "entry", "entries"), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&o.Format, "format", "f", string(export.FormatJSON), "Output format: json or csv.")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "", "Output file, or - for stdout.")

	topLevel.AddCommand(cmd)
}
