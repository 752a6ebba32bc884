package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gcrsim/gcrsim/internal/scenario"
	"github.com/gcrsim/gcrsim/internal/sim"
	"github.com/gcrsim/gcrsim/internal/store"
)

func init() {
	runCmd.Flags().StringVar(&runPreset, "preset", "baseline", "scenario preset: baseline, high-inflation, low-inflation, cdr-buildout-stop, empty-adoption, shock-test, zero-shock, bau-twin")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to a YAML scenario file, overriding --preset")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "SQLite path to persist the run (disabled if empty)")
	rootCmd.AddCommand(runCmd)
}

var (
	runPreset     string
	runConfigPath string
	runDBPath     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single simulation scenario to completion",
	RunE:  runRun,
}

func loadScenario(preset, configPath string) (scenario.Scenario, error) {
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return scenario.Scenario{}, fmt.Errorf("read scenario config: %w", err)
		}
		s := scenario.DefaultScenario()
		if err := yaml.Unmarshal(data, &s); err != nil {
			return scenario.Scenario{}, fmt.Errorf("parse scenario config: %w", err)
		}
		return s, nil
	}
	return presetByName(preset)
}

func presetByName(name string) (scenario.Scenario, error) {
	switch name {
	case "baseline", "":
		return scenario.Baseline(), nil
	case "high-inflation":
		return scenario.HighInflation(), nil
	case "low-inflation":
		return scenario.LowInflation(), nil
	case "cdr-buildout-stop":
		return scenario.CDRBuildoutStop(), nil
	case "empty-adoption":
		return scenario.EmptyAdoption(), nil
	case "shock-test":
		return scenario.ShockTest(), nil
	case "zero-shock":
		return scenario.ZeroShock(), nil
	case "bau-twin":
		return scenario.BAUTwin(), nil
	default:
		return scenario.Scenario{}, fmt.Errorf("unknown preset %q", name)
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(runPreset, runConfigPath)
	if err != nil {
		return err
	}

	simulation, err := sim.New(s)
	if err != nil {
		return fmt.Errorf("construct simulation: %w", err)
	}

	result := simulation.Run()
	printRunSummary(result)

	if runDBPath != "" {
		db, err := store.Open(runDBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()
		if err := db.SaveRun(result); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("saved run %s to %s\n", result.RunID, runDBPath)
	}

	if result.Aborted {
		return fmt.Errorf("run aborted at tick %d: %s", result.AbortedAtTick, result.AbortReason)
	}
	return nil
}

func printRunSummary(result sim.RunResult) {
	fmt.Printf("run %s — %d years, %d diagnostics\n", result.RunID, len(result.Snapshots), len(result.Diagnostics))
	if len(result.Snapshots) == 0 {
		return
	}
	final := result.Snapshots[len(result.Snapshots)-1]
	fmt.Printf("  final CO2:       %.1f ppm (BAU %.1f ppm, %.1f ppm avoided)\n", final.CO2PPM, final.BAUCO2PPM, final.CO2Avoided)
	fmt.Printf("  final XCR supply: %s\n", humanize.CommafWithDigits(final.XCRSupply, 0))
	fmt.Printf("  final price:      $%s/XCR (floor $%s)\n", humanize.FormatFloat("#,###.##", final.MarketPrice), humanize.FormatFloat("#,###.##", final.PriceFloor))
	fmt.Printf("  active countries: %d\n", final.ActiveCountries)
	if final.CDRBuildoutStopped {
		fmt.Println("  CDR buildout: stopped")
	}
	if result.Aborted {
		fmt.Printf("  ABORTED at tick %d: %s\n", result.AbortedAtTick, result.AbortReason)
	}
}
