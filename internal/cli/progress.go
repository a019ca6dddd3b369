package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/miosync-masa/digit-consonance/internal/resonance"
	"github.com/schollz/progressbar/v3"
)

// ScanProgress drives a progress bar from resonance scan callbacks.
type ScanProgress struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
}

// NewScanProgress creates a progress bar for total zeros written to w.
func NewScanProgress(w io.Writer, total int, description string) *ScanProgress {
	p := &ScanProgress{writer: w}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Callback returns the function to pass to resonance.WithProgress.
func (p *ScanProgress) Callback() resonance.ProgressFunc {
	return func(done, _ int) {
		if err := p.bar.Set(done); err != nil {
			slog.Debug("Failed to update progress bar", "error", err)
		}
	}
}

// Finish completes the bar if the scan stopped early.
func (p *ScanProgress) Finish() {
	if p.bar.IsFinished() {
		return
	}
	if err := p.bar.Finish(); err != nil {
		slog.Debug("Failed to finish progress bar", "error", err)
	}
}
