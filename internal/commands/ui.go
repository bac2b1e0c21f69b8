package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/datamgr/internal/tui"
)

func runUI(cmd *cobra.Command, o *rootOptions) error {
	e, err := setup(cmd, o)
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.NewApp(e.ds, e.store, tui.Options{
		Theme:      e.cfg.Theme,
		ExportDir:  e.cfg.ExportDir,
		DataDir:    e.cfg.DataDir,
		Backend:    e.cfg.Backend,
		ConfigFile: e.cfg.File,
		Warning:    e.warning(),
		Logger:     e.log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
