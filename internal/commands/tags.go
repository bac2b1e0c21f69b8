package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func addTags(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Print tags and how many entries use each.",
		Example: `
datamgr tags
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, ro)
			if err != nil {
				return err
			}
			defer e.Close()

			usage := e.ds.TagUsage()
			bold := color.New(color.Bold)

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Color"), bold.Sprint("Entries"))
			for _, t := range e.ds.Tags() {
				tbl.AddRow(t.ID, t.Name, t.Color, usage[t.ID])
			}
			tbl.RightAlign(3)

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
