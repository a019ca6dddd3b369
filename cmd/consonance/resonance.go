package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/miosync-masa/digit-consonance/internal/cli"
	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/config"
	"github.com/miosync-masa/digit-consonance/internal/resonance"
	"github.com/miosync-masa/digit-consonance/internal/service"
	"github.com/miosync-masa/digit-consonance/internal/zeta"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// progressMinZeros is the table size from which a progress bar is shown.
const progressMinZeros = 2000

func resonanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resonance",
		Short: "Find zeta zeros resonating with an integer N",
		Long: `Score every zero 1/2 + iγ against N by cos(γ ln N), flag zeros above the
threshold and look for digit signatures (p, q) in their cycle counts.

Zeros come from a JSON file (--zeros) or a table imported with
'consonance zeros import' (--table).

Examples:
  consonance resonance --target 999...829
  consonance resonance --target 999...829 --table odlyzko-10k --workers 4
  consonance resonance --target 999...829 --precision arbitrary --bits 320`,
		Args: cobra.NoArgs,
		RunE: runResonance,
	}

	cmd.Flags().StringP("target", "N", "", "Integer N to scan (decimal)")
	cmd.Flags().String("zeros", "data/zeta_zeros_10000.json", "Zero table JSON file")
	cmd.Flags().String("table", "", "Cached zero table name (overrides --zeros)")
	cmd.Flags().Int("max-zeros", 0, "Use only the first N zeros (0 = all)")
	cmd.Flags().Float64("threshold", resonance.DefaultThreshold, "Resonance cutoff for cos(γ ln N)")
	cmd.Flags().Float64("dist-threshold", resonance.DefaultDistThreshold, "Signature pattern distance cutoff")
	cmd.Flags().Float64("harmonic-threshold", resonance.DefaultHarmonicThreshold, "Harmonic consistency cutoff")
	cmd.Flags().Bool("no-harmonic", false, "Disable the harmonic consistency filter")
	cmd.Flags().Bool("all-splits", false, "Also report mirrored (q, p) splits")
	cmd.Flags().String("precision", string(resonance.PrecisionFloat64), "Phase arithmetic: float64 or arbitrary")
	cmd.Flags().Uint("bits", resonance.DefaultBits, "Mantissa bits for arbitrary precision")
	cmd.Flags().Int("workers", 1, "Parallel scoring workers")
	cmd.Flags().Int("max-display", 10, "Signatures to list (0 = all)")
	cmd.Flags().Bool("no-progress", false, "Never show a progress bar")

	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runResonance(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := bindFlags(cmd, map[string]string{
		config.KeyZerosFile:         "zeros",
		config.KeyResThreshold:      "threshold",
		config.KeyDistThreshold:     "dist-threshold",
		config.KeyHarmonicThreshold: "harmonic-threshold",
		config.KeyPrecision:         "precision",
		config.KeyBits:              "bits",
		config.KeyWorkers:           "workers",
		config.KeyMaxDisplay:        "max-display",
	}); err != nil {
		return err
	}

	targetText, _ := cmd.Flags().GetString("target")
	target, ok := new(big.Int).SetString(strings.TrimSpace(targetText), 10)
	if !ok {
		return common.NewUserError(fmt.Sprintf("target %q is not a decimal integer", targetText), common.ErrInvalidTarget)
	}

	source, cleanup, err := zeroSource(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	table, err := source.LoadZeros(ctx)
	if err != nil {
		if name, _ := cmd.Flags().GetString("table"); name != "" {
			return tableError(name, err)
		}
		return zeroFileError(source.Describe(), err)
	}

	opts, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	var progress *cli.ScanProgress
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress && table.Len() >= progressMinZeros {
		progress = cli.NewScanProgress(cmd.ErrOrStderr(), table.Len(), "Scoring zeta zeros...")
		opts = append(opts, resonance.WithProgress(progress.Callback()))
	}

	report, err := resonance.Scan(ctx, target, table, opts...)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		if common.IsInputError(err) {
			return common.NewUserError(fmt.Sprintf("resonance scan failed: %v", err), err)
		}
		return fmt.Errorf("resonance scan failed: %w", err)
	}

	common.LogInfo("Resonance scan complete", common.Fields{
		"zeros":      len(report.Results),
		"resonant":   len(report.Resonant),
		"signatures": len(report.Signatures),
		"elapsed":    report.Elapsed,
	})

	return render(cmd.OutOrStdout(), newFormatter().FormatResonance(report, source.Describe()))
}

// zeroSource picks the cached table when --table is set, otherwise the JSON file.
func zeroSource(cmd *cobra.Command) (service.ZeroSource, func(), error) {
	maxZeros, _ := cmd.Flags().GetInt("max-zeros")

	name, _ := cmd.Flags().GetString("table")
	if name == "" {
		path := config.ExpandPath(viper.GetString(config.KeyZerosFile))
		return zeta.FileSource{Path: path, MaxZeros: maxZeros}, func() {}, nil
	}

	store, err := initStorage(cmd.Context())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return zeta.StoreSource{Store: store, Name: name, MaxZeros: maxZeros}, func() { closeStore(store) }, nil
}

func scanOptions(cmd *cobra.Command) ([]resonance.Option, error) {
	precision, err := resonance.ParsePrecision(viper.GetString(config.KeyPrecision))
	if err != nil {
		return nil, err
	}

	opts := []resonance.Option{
		resonance.WithThreshold(viper.GetFloat64(config.KeyResThreshold)),
		resonance.WithDistThreshold(viper.GetFloat64(config.KeyDistThreshold)),
		resonance.WithHarmonicFilter(viper.GetFloat64(config.KeyHarmonicThreshold)),
		resonance.WithPrecision(precision, viper.GetUint(config.KeyBits)),
		resonance.WithWorkers(viper.GetInt(config.KeyWorkers)),
	}
	if noHarmonic, _ := cmd.Flags().GetBool("no-harmonic"); noHarmonic {
		opts = append(opts, resonance.WithoutHarmonicFilter())
	}
	if allSplits, _ := cmd.Flags().GetBool("all-splits"); allSplits {
		opts = append(opts, resonance.WithAllSplits())
	}
	return opts, nil
}
