package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/sadopc/datamgr/internal/importer"
)

func addImport(topLevel *cobra.Command, ro *rootOptions) {
	var dedupe bool

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Merge entries and tags from a JSON export.",
		Long: `Merge entries and tags from a JSON export. The whole document is checked
before anything changes; an invalid file is rejected as a unit. Imported
entries are placed before the existing ones and existing tags keep their
current name and colour. Use - to read a pasted document from stdin.`,
		Example: `
datamgr import data-export-2024-06-15.json
datamgr import backup.json --dedupe
pbpaste | datamgr import -
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path != "-" {
				var err error
				if path, err = homedir.Expand(path); err != nil {
					return err
				}
			}

			e, err := setup(cmd, ro)
			if err != nil {
				return err
			}
			defer e.Close()

			var rep importer.Report
			if path == "-" {
				rep, err = importer.ImportReader(e.ds, cmd.InOrStdin())
			} else {
				rep, err = importer.ImportFile(e.ds, path)
			}
			switch importer.Classify(err) {
			case importer.KindNone:
			case importer.KindPersist:
				warn := color.New(color.FgYellow)
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), warn.Sprint("warning: imported data could not be saved"))
			default:
				e.log.Warn(context.Background(), "import rejected", "path", path, "err", err)
				return errors.New(importer.Message(err))
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Imported %d %s, %d new %s\n",
				rep.EntriesImported, plural(rep.EntriesImported, "entry", "entries"),
				rep.TagsAdded, plural(rep.TagsAdded, "tag", "tags"))
			if rep.EntriesSkipped > 0 || rep.TagsSkipped > 0 {
				faint := color.New(color.Faint)
				_, _ = fmt.Fprintln(out, faint.Sprintf("skipped %d existing %s, kept %d existing %s",
					rep.EntriesSkipped, plural(rep.EntriesSkipped, "entry", "entries"),
					rep.TagsSkipped, plural(rep.TagsSkipped, "tag", "tags")))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "Skip imported entries whose id already exists.")

	topLevel.AddCommand(cmd)
}
