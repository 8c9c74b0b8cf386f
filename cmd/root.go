// Package cmd provides the sisypho CLI: recording UI interactions and
// addressing UI elements by descriptive path.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HarishgunaS/sisypho-sdk/internal/output"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
	"github.com/HarishgunaS/sisypho-sdk/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sisypho",
	Short: "Record and replay desktop UI interactions",
	Long:  "Captures system input events correlated with accessibility elements, and addresses UI elements by descriptive paths that survive UI changes.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log at debug level")
	rootCmd.PersistentFlags().String("log-file", "", "Log file path (default: .sisypho.log)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if platform.RequestPermissionsFunc != nil {
			platform.RequestPermissionsFunc()
		}

		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		logFile, _ := rootCmd.PersistentFlags().GetString("log-file")
		configureLogger(logFile, verbose)

		// Use the root persistent flag directly to avoid conflicts with
		// subcommand local flags.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml", "":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if pretty, err := rootCmd.PersistentFlags().GetBool("pretty"); err == nil && pretty {
			output.PrettyOutput = true
		}
		return nil
	}
}
