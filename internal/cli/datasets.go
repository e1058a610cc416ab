package cli

import (
	"strings"

	"route-tracker/internal/config"
	"route-tracker/internal/model"

	"github.com/spf13/cobra"
)

func newDatasetsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"dataset"},
		Short:   "Manage registered route files",
	}
	cmd.AddCommand(newDatasetsListCmd(app))
	cmd.AddCommand(newDatasetsAddCmd(app))
	cmd.AddCommand(newDatasetsUseCmd(app))
	cmd.AddCommand(newDatasetsScanCmd(app))
	return cmd
}

type datasetJSON struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Namespace string `json:"namespace,omitempty"`
	Milestone string `json:"milestone,omitempty"`
	Current   bool   `json:"current"`
}

func datasetsOut(cfg *config.Config) []datasetJSON {
	out := make([]datasetJSON, 0, len(cfg.Datasets))
	for _, name := range cfg.Names() {
		d := cfg.Datasets[name]
		out = append(out, datasetJSON{
			Name:      name,
			Path:      d.Path,
			Namespace: d.Namespace,
			Milestone: d.Milestone,
			Current:   name == cfg.Current,
		})
	}
	return out
}

func newDatasetsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, datasetsOut(cfg))
		},
	}
}

func newDatasetsAddCmd(app *App) *cobra.Command {
	var namespace, milestone string
	var use bool
	cmd := &cobra.Command{
		Use:   "add <name> <path>",
		Short: "Register a route file (validated before it is saved)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			file, err := absPath(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := model.Load(file); err != nil {
				return writeErr(cmd, err)
			}
			name := strings.TrimSpace(args[0])
			if err := cfg.AddDataset(name, config.Dataset{
				Path:      file,
				Namespace: strings.TrimSpace(namespace),
				Milestone: strings.TrimSpace(milestone),
			}); err != nil {
				return writeErr(cmd, err)
			}
			if use {
				if err := cfg.Use(name); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := cfg.Save(path); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, datasetsOut(cfg))
		},
	}
	cmd.Flags().StringVar(&namespace, "namespace", "", "Storage namespace (default: the file's namespace, else the dataset name)")
	cmd.Flags().StringVar(&milestone, "milestone", "", "Milestone step id (default: the file's milestone)")
	cmd.Flags().BoolVar(&use, "use", false, "Make this the current dataset")
	return cmd
}

func newDatasetsUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Select the current dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.Use(strings.TrimSpace(args[0])); err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.Save(path); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, datasetsOut(cfg))
		},
	}
}

func newDatasetsScanCmd(app *App) *cobra.Command {
	var add bool
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Find route files (" + config.ScanPattern + ") under a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			found, err := config.Scan(root)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !add {
				return writeOut(cmd, app, found)
			}

			cfg, path, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var added []config.Found
			var skipped []map[string]string
			for _, f := range found {
				if _, exists := cfg.Datasets[f.Name]; exists {
					skipped = append(skipped, map[string]string{"name": f.Name, "path": f.Path, "reason": "name already registered"})
					continue
				}
				if _, err := model.Load(f.Path); err != nil {
					skipped = append(skipped, map[string]string{"name": f.Name, "path": f.Path, "reason": err.Error()})
					continue
				}
				if err := cfg.AddDataset(f.Name, config.Dataset{Path: f.Path}); err != nil {
					return writeErr(cmd, err)
				}
				added = append(added, f)
			}
			if len(added) > 0 {
				if err := cfg.Save(path); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"added": added, "skipped": skipped})
		},
	}
	cmd.Flags().BoolVar(&add, "add", false, "Register every valid file found")
	return cmd
}
