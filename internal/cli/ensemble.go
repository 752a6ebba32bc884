package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gcrsim/gcrsim/internal/sim"
)

func init() {
	ensembleCmd.Flags().StringVar(&ensemblePreset, "preset", "baseline", "scenario preset (see 'gcrsim run --help')")
	ensembleCmd.Flags().StringVar(&ensembleConfigPath, "config", "", "path to a YAML scenario file, overriding --preset")
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 0, "number of ensemble members (0 uses the scenario's monte_carlo_runs)")
	rootCmd.AddCommand(ensembleCmd)
}

var (
	ensemblePreset     string
	ensembleConfigPath string
	ensembleRuns       int
)

var ensembleCmd = &cobra.Command{
	Use:   "ensemble",
	Short: "Run a Monte-Carlo ensemble of the same scenario with independently seeded members",
	RunE:  runEnsemble,
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(ensemblePreset, ensembleConfigPath)
	if err != nil {
		return err
	}

	runs := ensembleRuns
	if runs <= 0 {
		runs = s.MonteCarloRuns
	}
	if runs <= 0 {
		runs = 1
	}

	result := sim.RunEnsemble(s, runs)
	printEnsembleSummary(result)
	return nil
}

func printEnsembleSummary(result sim.EnsembleResult) {
	fmt.Printf("ensemble: %d members (%d aborted)\n", len(result.Members), result.AbortedCount)
	fmt.Printf("  final CO2 ppm:  mean %.1f, stddev %.2f\n", result.MeanFinalCO2PPM, result.StdDevFinalCO2PPM)
	fmt.Printf("  final XCR supply: mean %s, stddev %s\n",
		humanize.CommafWithDigits(result.MeanFinalXCRSupply, 0),
		humanize.CommafWithDigits(result.StdDevFinalXCRSupply, 0))
	fmt.Printf("  net-zero reached: %.0f%% of members\n", result.NetZeroReachedFraction*100)
}
