// Package cli implements the gcrsim command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gcrsim",
	Short: "gcrsim — Global Carbon Reward agent-based economic simulator",
	Long: `gcrsim runs the Global Carbon Reward simulation: a discrete-time,
multi-agent model of the atmospheric carbon cycle, a project portfolio
(CDR, conventional mitigation, avoided deforestation), the XCR token
economy, and the CEA policy controller.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
