package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// confirm asks a yes/no question on the command's streams. Anything but "y" aborts.
func confirm(cmd *cobra.Command, label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    nopWriteCloser{cmd.ErrOrStderr()},
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all progress and preferences for the dataset (irreversible)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Reset all progress for %q", s.Namespace()))
				if err != nil {
					return writeErr(cmd, err)
				}
				if !ok {
					return writeErr(cmd, errors.New("reset cancelled"))
				}
			}
			if err := s.Reset(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"namespace": s.Namespace(),
				"reset":     true,
				"progress":  s.Progress(),
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
