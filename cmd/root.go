package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fieldscan/internal/config"
	"fieldscan/internal/logger"
)

var version = "1.0.0"

// cfg holds the environment-derived process configuration, resolved once in
// main and passed in through Execute.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "fieldscan",
	Short: "Extract fixed-position fields from scanned PDFs via OCR",
	Long: `fieldscan extracts fixed-position numeric and text fields from scanned,
fixed-layout PDF documents (lab reports, repetitive forms) using OCR.

Field regions are described in a JSON job configuration as pixel rectangles
on the rasterized pages. Results are emitted either as a JSON array of
per-page records on stdout, or written into a spreadsheet file.

The job configuration path is taken from the FIELDSCAN_CONFIG environment
variable (default: config.json), or from the --config flag.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Use \"fieldscan extract\" or \"fieldscan export\"; see --help for details.")
	},
}

// Execute runs the CLI with the given process configuration.
func Execute(c *config.Config) {
	cfg = c
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
