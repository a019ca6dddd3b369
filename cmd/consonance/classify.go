package main

import (
	"fmt"
	"strconv"

	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/config"
	"github.com/miosync-masa/digit-consonance/internal/consonance"
	"github.com/miosync-masa/digit-consonance/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <p> <N>",
		Short: "Classify a single digit ratio p/N",
		Long: `Expand p/N as a continued fraction and report its consonance degree,
the Tamaki's Lemma check and the reconstructed fraction.

Example:
  consonance classify 20 77`,
		Args: cobra.ExactArgs(2),
		RunE: runClassify,
	}

	cmd.Flags().IntP("threshold", "k", consonance.DefaultKappaThreshold, "Consonance threshold κ")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{config.KeyThreshold: "threshold"}); err != nil {
		return err
	}

	p, err := strconv.Atoi(args[0])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("numerator %q is not an integer", args[0]), err)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("digit count %q is not an integer", args[1]), err)
	}

	threshold := viper.GetInt(config.KeyThreshold)
	pattern, err := consonance.Classify(model.NewRatio(p, n), threshold)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("cannot classify %d/%d: need 0 < p < N", p, n), err)
	}

	return render(cmd.OutOrStdout(), newFormatter().FormatPattern(pattern, threshold))
}
