// Package cmd provides the command-line interface of the sampler.
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcmc",
	Short: "Sample the standard Cauchy distribution with Metropolis-Hastings.",
	Long: `mcmc runs random-walk Metropolis-Hastings chains that target the ` +
		`standard Cauchy distribution and reports their autocorrelation and ` +
		`convergence diagnostics. Runs can be recorded into SQLite files and ` +
		`analyzed later.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

// dieOnErr exits through atexit so that open recorders are flushed.
func dieOnErr(err error) {
	if err != nil {
		log.Printf("Error: %v", err)
		atexit.Exit(1)
	}
}
