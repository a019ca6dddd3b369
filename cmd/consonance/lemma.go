package main

import (
	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/consonance"
	"github.com/spf13/cobra"
)

func lemmaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lemma",
		Short: "State and verify Tamaki's Lemma (a1 = ⌊d_N/d_p⌋)",
		RunE:  runLemma,
	}

	cmd.Flags().IntSlice("digits", consonance.DefaultLemmaDigits, "Digit counts N to test")
	cmd.Flags().IntSlice("samples", consonance.DefaultLemmaSamples, "Factor digit counts d_p to test")

	return cmd
}

func runLemma(cmd *cobra.Command, _ []string) error {
	digits, _ := cmd.Flags().GetIntSlice("digits")
	samples, _ := cmd.Flags().GetIntSlice("samples")

	report := consonance.VerifyLemma(digits, samples)
	if report.Total == 0 {
		return common.NewUserError("no test cases: every sample is at least half of its digit count", common.ErrInvalidRange)
	}

	return render(cmd.OutOrStdout(), newFormatter().FormatLemma(report))
}
