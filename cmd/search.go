package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HarishgunaS/sisypho-sdk/internal/axpath"
	"github.com/HarishgunaS/sisypho-sdk/internal/output"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find UI elements by text",
	Long: `Search the frontmost application's UI tree for elements whose title, label,
value, or identifier contains the query (case-insensitive). Each match is
printed with a descriptive path that can be passed to resolve.

Examples:
  sisypho search Submit
  sisypho search --scope 'Window[{"title":"Mail"}]' --max-results 5 Reply`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().String("scope", "", "Descriptive path scoping the search (default: application root)")
	searchCmd.Flags().Int("max-results", axpath.DefaultSearchLimit, "Maximum matches to return")
}

func runSearch(cmd *cobra.Command, args []string) error {
	scopePath, _ := cmd.Flags().GetString("scope")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	reader := provider.Reader

	root, err := reader.ApplicationRoot()
	if err != nil {
		return fmt.Errorf("application root: %w", err)
	}
	scope := root
	if scopePath != "" {
		path, err := axpath.ParsePath(scopePath)
		if err != nil {
			return err
		}
		scope, err = axpath.NewResolver(reader).Resolve(root, path)
		if err != nil {
			return err
		}
	}

	matches, err := axpath.Search(reader, scope, args[0], maxResults)
	if err != nil {
		return err
	}
	if matches == nil {
		matches = []axpath.Match{}
	}
	return output.Print(matches)
}
