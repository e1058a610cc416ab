package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"route-tracker/internal/config"
	"route-tracker/internal/format"
	"route-tracker/internal/logging"
	"route-tracker/internal/model"
	"route-tracker/internal/tracker"
	"route-tracker/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	Dataset    string
	DataDir    string
	Backend    string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "routetrack",
		Short:        "Local-first route checklist tracker (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Register a route file and open it in the TUI
  routetrack datasets add hk ./hollow-knight.route.json
  routetrack

  # Scriptable commands
  routetrack check p1-s1 p1-s2
  routetrack status --bar

  # Where did I leave off?
  routetrack resume
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !format.Valid(app.Format) {
			return writeErr(cmd, fmt.Errorf("unknown format: %s (want json|edn)", app.Format))
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("ROUTETRACK_CONFIG", ""), "Path to config.yaml (default: <config dir>/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Dataset, "dataset", envOr("ROUTETRACK_DATASET", ""), "Dataset name (default: the current dataset)")
	cmd.PersistentFlags().StringVar(&app.DataDir, "data-dir", "", "Directory holding progress state (overrides data_dir)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Progress store backend (sqlite|json|memory)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("ROUTETRACK_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newCheckCmd(app, true))
	cmd.AddCommand(newCheckCmd(app, false))
	cmd.AddCommand(newResumeCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newAutoCollapseCmd(app))
	cmd.AddCommand(newViewportCmd(app))
	cmd.AddCommand(newDatasetsCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	cfg, _, err := loadConfig(app)
	if err != nil {
		return err
	}
	log := openLog(cfg)
	defer log.Close()

	s, err := tracker.Open(tracker.Options{Config: cfg, Dataset: app.Dataset, Log: log})
	var le *model.LoadError
	if errors.As(err, &le) {
		// A broken dataset gets an error screen rather than a partial route.
		log.Error("dataset load failed", "path", le.Path, "err", le.Err)
		return tui.Run(tui.Options{LoadErr: err, Glyphs: cfg.TUI.Glyphs, Log: log})
	}
	if err != nil {
		return err
	}
	defer s.Close()
	return tui.Run(tui.Options{Session: s, Glyphs: cfg.TUI.Glyphs, Log: log})
}

func configPath(app *App) (string, error) {
	if p := strings.TrimSpace(app.ConfigPath); p != "" {
		return p, nil
	}
	return config.DefaultPath()
}

// loadConfig applies flag overrides on top of file and env settings.
func loadConfig(app *App) (*config.Config, string, error) {
	path, err := configPath(app)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if v := strings.TrimSpace(app.DataDir); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(app.Backend); v != "" {
		cfg.Backend = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// openLog falls back to a discarding logger; a read-only config dir must not
// break scripted commands.
func openLog(cfg *config.Config) *logging.Logger {
	dir, err := config.ConfigDir()
	if err != nil {
		return logging.Discard()
	}
	l, err := logging.New(dir, cfg.LogLevel)
	if err != nil {
		return logging.Discard()
	}
	return l
}

func openSession(app *App) (*tracker.Session, func(), error) {
	cfg, _, err := loadConfig(app)
	if err != nil {
		return nil, nil, err
	}
	log := openLog(cfg)
	s, err := tracker.Open(tracker.Options{Config: cfg, Dataset: app.Dataset, Log: log})
	if err != nil {
		_ = log.Close()
		return nil, nil, err
	}
	return s, func() {
		_ = s.Close()
		_ = log.Close()
	}, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteData(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(strings.TrimSpace(p))
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
