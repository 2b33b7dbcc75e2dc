package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/eqsolve/internal/catalog"
	"github.com/san-kum/eqsolve/internal/config"
	"github.com/san-kum/eqsolve/internal/logging"
	"github.com/san-kum/eqsolve/internal/resolver"
	"github.com/san-kum/eqsolve/internal/storage"
	"github.com/san-kum/eqsolve/internal/tui"
	"github.com/spf13/cobra"
)

// flags holds every command-line flag. A fresh set is made per root command.
type flags struct {
	configFile  string
	dataDir     string
	catalogPath string
	catalogOnly bool
	logLevel    string
	preset      string

	set       []string
	solveFor  string
	formula   string
	guess     float64
	trace     bool
	precision int
	noSave    bool

	category string
	asYAML   bool

	vary    string
	from    float64
	to      float64
	points  int
	svgPath string

	output    string
	addr      string
	writePath string
	checkPath string
}

// app is the wiring shared by every command.
type app struct {
	cfg      *config.Config
	catalog  *catalog.Catalog
	resolver *resolver.Resolver
	history  *storage.Store
	logger   *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:          "eqsolve",
		Short:        "solve physics and astronomy equations for any variable",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.setup(cmd)
			if err != nil {
				return err
			}
			return tui.Run(tui.Options{
				Catalog:   a.catalog,
				Resolver:  a.resolver,
				Precision: a.cfg.Solver.Precision,
				History:   a.history,
				Logger:    a.logger,
			})
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&f.dataDir, "data", config.DefaultDataDir, "data directory for solve history")
	pf.StringVar(&f.catalogPath, "catalog", "", "extra equation catalog (yaml)")
	pf.BoolVar(&f.catalogOnly, "catalog-only", false, "use only the --catalog file, without the built-in equations")
	pf.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&f.preset, "preset", "", "solver preset")

	rootCmd.AddCommand(
		f.solveCmd(),
		f.listCmd(),
		f.showCmd(),
		f.sweepCmd(),
		f.batchCmd(),
		f.historyCmd(),
		f.presetsCmd(),
		f.configCmd(),
		f.serveCmd(),
	)

	return rootCmd
}

// setup loads the config and applies flags on top of it. Flags only win
// when they were given explicitly.
func (f *flags) setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadLayered(f.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if f.preset != "" {
		p := config.GetPreset(f.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
		cfg.Solver = *p
	}

	fs := cmd.Flags()
	if fs.Changed("data") {
		cfg.DataDir = f.dataDir
	}
	if fs.Changed("catalog") {
		cfg.CatalogPath = f.catalogPath
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fs.Lookup("guess") != nil && fs.Changed("guess") {
		cfg.Solver.InitialGuess = f.guess
	}
	if fs.Lookup("precision") != nil && fs.Changed("precision") {
		cfg.Solver.Precision = f.precision
	}
	if fs.Lookup("addr") != nil && fs.Changed("addr") {
		cfg.Server.Addr = f.addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

	cat := catalog.Builtin()
	switch {
	case f.catalogOnly && cfg.CatalogPath == "":
		return nil, errors.New("--catalog-only needs a catalog file")
	case f.catalogOnly:
		cat, err = catalog.Load(cfg.CatalogPath)
	case cfg.CatalogPath != "":
		cat, err = catalog.LoadOverBuiltin(cfg.CatalogPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if cfg.CatalogPath != "" {
		logger.Debug("loaded catalog", "path", cfg.CatalogPath, "equations", cat.Len(), "builtin", !f.catalogOnly)
	}

	r, err := cfg.Solver.Resolver()
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		catalog:  cat,
		resolver: r,
		history:  storage.New(cfg.DataDir),
		logger:   logger,
	}, nil
}

// parseBindings turns "name=value" pairs into bindings.
func parseBindings(pairs []string) (map[string]float64, error) {
	bindings := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid binding %q, want name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %q", name, raw)
		}
		if _, dup := bindings[name]; dup {
			return nil, fmt.Errorf("%s given more than once", name)
		}
		bindings[name] = v
	}
	return bindings, nil
}
