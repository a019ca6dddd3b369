package main

import (
	"github.com/miosync-masa/digit-consonance/internal/config"
	"github.com/miosync-masa/digit-consonance/internal/consonance"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func basesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bases",
		Short: "Check the lemma and consonance in other number bases",
		Long: `Recount digits of power pairs in several bases, verify Tamaki's Lemma
in each base and compare the consonance classification across bases.
Finishes with N = 2^127 - 1 against p = 2^50 written in bases 2, 8, 10 and 16.`,
		RunE: runBases,
	}

	cmd.Flags().IntSlice("bases", consonance.DefaultBases(), "Bases to compare (2-62)")
	cmd.Flags().IntP("threshold", "k", consonance.DefaultKappaThreshold, "Consonance threshold κ")
	cmd.Flags().IntSlice("representation-bases", consonance.DefaultRepresentationBases, "Bases for the 2^127-1 vs 2^50 report")
	cmd.Flags().Bool("no-representations", false, "Skip the 2^127-1 vs 2^50 report")

	return cmd
}

func runBases(cmd *cobra.Command, _ []string) error {
	if err := bindFlags(cmd, map[string]string{config.KeyThreshold: "threshold"}); err != nil {
		return err
	}

	bases, _ := cmd.Flags().GetIntSlice("bases")
	threshold := viper.GetInt(config.KeyThreshold)

	reports, err := consonance.CompareBases(consonance.DefaultBaseCases(), bases, threshold)
	if err != nil {
		return err
	}
	kappa, err := consonance.KappaInvariance(consonance.DefaultKappaCases(), bases, threshold)
	if err != nil {
		return err
	}

	f := newFormatter()
	out := f.FormatBases(reports, kappa)

	skip, _ := cmd.Flags().GetBool("no-representations")
	if repBases, _ := cmd.Flags().GetIntSlice("representation-bases"); !skip && len(repBases) > 0 {
		mersenne := consonance.MersenneCase()
		perBase, err := consonance.CompareRepresentations(mersenne, repBases, threshold)
		if err != nil {
			return err
		}
		out += "\n\n" + f.FormatRepresentations(mersenne.Label, perBase)
	}

	return render(cmd.OutOrStdout(), out)
}
