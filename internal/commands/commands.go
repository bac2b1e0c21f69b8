// Package commands wires the cobra command tree: the root command runs the
// TUI and the subcommands script the same dataset.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sadopc/datamgr/internal/config"
	"github.com/sadopc/datamgr/internal/dataset"
	"github.com/sadopc/datamgr/internal/logging"
	"github.com/sadopc/datamgr/internal/store"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	ConfigFile string
	DataDir    string
	Backend    string
	Theme      string
}

func New() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "datamgr",
		Short: "Manage machine entries, tags and their stores from the terminal.",
		Long: `datamgr keeps a local list of machine entries with tags, status and
priority. Run it without a subcommand for the interactive UI.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, o)
		},
	}
	cmd.SetOut(color.Output)

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.ConfigFile, "config", "", "Config file (default is ./.datamgr.yaml or ~/.datamgr.yaml).")
	pf.StringVar(&o.DataDir, "data-dir", "", "Directory holding the database and log file.")
	pf.StringVar(&o.Backend, "backend", "", "Storage backend: sqlite or diskv.")
	pf.StringVar(&o.Theme, "theme", "", "UI theme: plain or terminal.")

	AddCommands(cmd, o)
	return cmd
}

func AddCommands(topLevel *cobra.Command, o *rootOptions) {
	addList(topLevel, o)
	addExport(topLevel, o)
	addImport(topLevel, o)
	addTags(topLevel, o)
}

// env is everything a command needs once configuration has been resolved.
type env struct {
	cfg   *config.Config
	store *store.Store
	ds    *dataset.Dataset
	log   logging.Logger

	closers []io.Closer
}

// setup loads configuration, opens the log file and the store, and builds
// the dataset from whatever the store holds.
func setup(cmd *cobra.Command, o *rootOptions) (*env, error) {
	cfg, err := config.Load(o.ConfigFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	log, closer, err := logging.NewFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	e.closers = append(e.closers, closer)
	e.log = log.With("command", cmd.Name())

	s, err := store.Open(cfg.Backend, cfg.DataDir, store.WithLogger(e.log))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = s
	e.closers = append(e.closers, s)

	mode := dataset.MergeAppend
	if cfg.ImportDedupe {
		mode = dataset.MergeSkipExisting
	}
	e.ds = dataset.New(s, s.LoadEntries(), s.LoadTags(),
		dataset.WithLogger(e.log),
		dataset.WithMergeMode(mode),
	)

	if cmd.HasParent() && e.store.Degraded() {
		warn := color.New(color.FgYellow)
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), warn.Sprint("warning: "+e.warning()))
	}

	e.log.Debug(context.Background(), "environment ready",
		"data_dir", cfg.DataDir, "backend", cfg.Backend, "config", cfg.File)
	return e, nil
}

// warning describes a degraded store, or is empty.
func (e *env) warning() string {
	if e.store == nil || !e.store.Degraded() {
		return ""
	}
	return "stored data could not be read; showing defaults and changes will not be saved"
}

// Close releases in reverse order of acquisition.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
