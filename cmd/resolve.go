package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HarishgunaS/sisypho-sdk/internal/axpath"
	"github.com/HarishgunaS/sisypho-sdk/internal/output"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Resolve a descriptive path to a live UI element",
	Long: `Resolve a descriptive path against the frontmost application's UI tree and
print the matching element. Resolution tolerates renamed siblings, reordered
children, and removed wrapper containers.

Examples:
  sisypho resolve 'Window[{"title":"Mail"}] > Button[{"title":"Send"}]'
  sisypho resolve 'Button[title="Send"]'
  sisypho resolve --action AXPress 'Button[{"title":"Send"}]'`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().String("action", "", "Perform an accessibility action on the resolved element")
}

func runResolve(cmd *cobra.Command, args []string) error {
	action, _ := cmd.Flags().GetString("action")

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	reader := provider.Reader

	path, err := axpath.ParsePath(args[0])
	if err != nil {
		return err
	}
	root, err := reader.ApplicationRoot()
	if err != nil {
		return fmt.Errorf("application root: %w", err)
	}
	el, err := axpath.NewResolver(reader).Resolve(root, path)
	if err != nil {
		return err
	}

	if action != "" {
		if err := reader.Perform(el, action); err != nil {
			return fmt.Errorf("perform %s: %w", action, err)
		}
	}

	snap, err := reader.Info(el)
	if err != nil {
		return fmt.Errorf("read element: %w", err)
	}
	canonical, err := axpath.NewGenerator(reader).Generate(root, el)
	if err != nil {
		return err
	}
	return output.Print(output.ElementResult{Path: canonical.String(), Element: snap})
}
