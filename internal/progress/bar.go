package progress

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// WriteBar renders ind as a single static bar line, for non-interactive output.
func WriteBar(w io.Writer, ind Indicator, width int) error {
	if width <= 0 {
		width = 40
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(width),
		progressbar.OptionSetDescription(ind.Label),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
	)
	if err := bar.Set(ind.Percent); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
