package main

import (
	"fmt"
	"log/slog"

	"github.com/miosync-masa/digit-consonance/internal/config"
	"github.com/miosync-masa/digit-consonance/internal/consonance"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func addEnumerateFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("threshold", "k", consonance.DefaultKappaThreshold, "Consonance threshold κ")
	cmd.Flags().String("range", string(consonance.RangeHalf), "Numerator range: half (1..N/2) or full (1..N-1)")
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Partition digit ratios into consonant and dissonant patterns",
		Long: `Classify every digit ratio p/N for a digit count N.

Examples:
  consonance analyze                  # 77-digit ratios, κ ≤ 4
  consonance analyze -n 154 -k 3      # 154 digits with a stricter threshold
  consonance analyze --range full     # all numerators 1..N-1`,
		RunE: runAnalyze,
	}

	cmd.Flags().IntP("digits", "n", 77, "Digit count N")
	addEnumerateFlags(cmd)
	cmd.Flags().Bool("coprime", false, "Only numerators coprime to N")
	cmd.Flags().Int("max-display", 10, "Patterns listed per class (0 = all)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if err := bindFlags(cmd, map[string]string{
		config.KeyDigits:     "digits",
		config.KeyThreshold:  "threshold",
		config.KeyRange:      "range",
		config.KeyMaxDisplay: "max-display",
	}); err != nil {
		return err
	}

	opts, err := enumerateOptions()
	if err != nil {
		return err
	}
	if coprime, _ := cmd.Flags().GetBool("coprime"); coprime {
		opts = append(opts, consonance.WithCoprimeOnly())
	}

	digits := viper.GetInt(config.KeyDigits)
	analysis, err := consonance.Enumerate(digits, opts...)
	if err != nil {
		return fmt.Errorf("failed to analyze %d digits: %w", digits, err)
	}

	slog.Debug("enumerated digit ratios",
		"digits", digits,
		"consonant", len(analysis.Consonant),
		"dissonant", len(analysis.Dissonant))

	return render(cmd.OutOrStdout(), newFormatter().FormatAnalysis(analysis))
}
