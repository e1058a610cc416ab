package cli

import (
	"route-tracker/internal/tracker"

	"github.com/spf13/cobra"
)

func newAutoCollapseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "autocollapse [on|off]",
		Short:     "Show or set whether completed legs collapse automatically",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			if len(args) == 1 {
				var on bool
				switch args[0] {
				case "on", "true":
					on = true
				case "off", "false":
				default:
					return writeErr(cmd, usageError{arg: args[0], want: "on|off"})
				}
				if err := s.SetAutoCollapse(on); err != nil {
					return writeErr(cmd, err)
				}
			}
			var collapsed []string
			for _, id := range s.Checklist.GroupIDs() {
				if s.Collapse.IsCollapsed(id) {
					collapsed = append(collapsed, id)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"autoCollapse": s.AutoCollapse(),
				"collapsed":    collapsed,
			})
		},
	}
}

func viewportOut(s *tracker.Session) map[string]any {
	return map[string]any{
		"key":       s.Map.Key(),
		"transform": s.Map.Snapshot(),
		"limits":    s.Map.Limits(),
	}
}

func newViewportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewport",
		Short: "Inspect or reset the saved map pan/zoom",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved map transform",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			return writeOut(cmd, app, viewportOut(s))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Return the map to the default transform",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			s.Map.ResetView()
			return writeOut(cmd, app, viewportOut(s))
		},
	})
	return cmd
}
