package cli

import (
	"route-tracker/internal/checklist"
	"route-tracker/internal/model"
	"route-tracker/internal/progress"
	"route-tracker/internal/tracker"

	"github.com/spf13/cobra"
)

type stepJSON struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	PartID  string `json:"partId"`
	GroupID string `json:"groupId"`
}

func stepOut(ref model.StepRef) *stepJSON {
	return &stepJSON{ID: ref.StepID, Text: ref.Text, PartID: ref.PartID, GroupID: ref.GroupID}
}

type groupJSON struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Stats     checklist.Stats `json:"stats"`
	Collapsed bool            `json:"collapsed"`
}

func statusOut(s *tracker.Session) map[string]any {
	var next *stepJSON
	if ref, ok := s.Locator.Locate(); ok {
		next = stepOut(ref)
	}
	var groups []groupJSON
	for _, g := range s.Route.Groups() {
		if g.StepCount() == 0 {
			continue
		}
		groups = append(groups, groupJSON{
			ID:        g.ID,
			Title:     g.Title,
			Stats:     s.Checklist.StatsForGroup(g.ID),
			Collapsed: s.Collapse.IsCollapsed(g.ID),
		})
	}
	return map[string]any{
		"dataset":      s.Name,
		"namespace":    s.Namespace(),
		"title":        s.Route.Title,
		"stats":        s.Checklist.Stats(),
		"progress":     s.Progress(),
		"autoCollapse": s.AutoCollapse(),
		"theme":        s.Theme(),
		"resume":       next,
		"groups":       groups,
	}
}

func newStatusCmd(app *App) *cobra.Command {
	var bar bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show completion progress for the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			if bar {
				return progress.WriteBar(cmd.OutOrStdout(), s.Progress(), 40)
			}
			return writeOut(cmd, app, statusOut(s))
		},
	}
	cmd.Flags().BoolVar(&bar, "bar", false, "Render a progress bar instead of structured output")
	return cmd
}

func newCheckCmd(app *App, checked bool) *cobra.Command {
	use, short := "check <step-id>...", "Mark steps as done"
	if !checked {
		use, short = "uncheck <step-id>...", "Mark steps as not done"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			// Validate every id before writing any of them.
			for _, id := range args {
				if _, ok := s.Route.FindStep(id); !ok {
					return writeErr(cmd, errNotFound("step", id))
				}
			}
			for _, id := range args {
				if err := s.SetChecked(id, checked); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"steps":    args,
				"checked":  checked,
				"progress": s.Progress(),
			})
		},
	}
}

func newResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Show the first step that is not done yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			ref, ok := s.Locator.Locate()
			if !ok {
				return writeOut(cmd, app, nil)
			}
			out := map[string]any{"step": stepOut(ref)}
			if p, ok := s.Route.FindPart(ref.PartID); ok {
				out["part"] = p.ShortTitle()
			}
			if g, ok := s.Route.FindGroup(ref.GroupID); ok {
				out["leg"] = g.Title
			}
			return writeOut(cmd, app, out)
		},
	}
}
