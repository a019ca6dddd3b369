package main

import (
	"strings"

	"github.com/miosync-masa/digit-consonance/internal/config"
	"github.com/miosync-masa/digit-consonance/internal/consonance"
	"github.com/spf13/cobra"
)

// defaultSummaryDigits are common RSA-like digit counts.
var defaultSummaryDigits = []int{30, 50, 77, 100, 154, 256, 617}

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary [N...]",
		Short: "Show the consonance distribution across digit counts",
		Long: `Tabulate consonant and dissonant counts for several digit counts.

Examples:
  consonance summary                      # 30, 50, 77, 100, 154, 256, 617
  consonance summary 77 154
  consonance summary 77 --thresholds 3,4,5`,
		RunE: runSummary,
	}

	addEnumerateFlags(cmd)
	cmd.Flags().IntSlice("thresholds", nil, "Also sweep these thresholds over the first digit count")

	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		config.KeyThreshold: "threshold",
		config.KeyRange:     "range",
	}); err != nil {
		return err
	}

	digits, err := parseIntList(args)
	if err != nil {
		return err
	}
	if len(digits) == 0 {
		digits = defaultSummaryDigits
	}

	opts, err := enumerateOptions()
	if err != nil {
		return err
	}

	rows, err := consonance.Summarize(digits, opts...)
	if err != nil {
		return err
	}

	f := newFormatter()
	sections := []string{f.FormatSummary(rows)}

	thresholds, _ := cmd.Flags().GetIntSlice("thresholds")
	if len(thresholds) > 0 {
		sweep, err := consonance.ThresholdSweep(digits[0], thresholds, opts...)
		if err != nil {
			return err
		}
		sections = append(sections, f.FormatSweep(digits[0], sweep))
	}

	return render(cmd.OutOrStdout(), strings.Join(sections, "\n\n"))
}
