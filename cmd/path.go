package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HarishgunaS/sisypho-sdk/internal/axpath"
	"github.com/HarishgunaS/sisypho-sdk/internal/output"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

var pathCmd = &cobra.Command{
	Use:   "path [path]",
	Short: "Generate a descriptive path for an element",
	Long: `Generate a descriptive path for the element at the given screen coordinates,
or resolve an existing path and print its canonical regenerated form.

Examples:
  sisypho path --x 512 --y 384
  sisypho path 'Button[title="Send"]'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPath,
}

func init() {
	rootCmd.AddCommand(pathCmd)
	pathCmd.Flags().Float64("x", 0, "Screen X coordinate")
	pathCmd.Flags().Float64("y", 0, "Screen Y coordinate")
}

func runPath(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	reader := provider.Reader
	gen := axpath.NewGenerator(reader)

	if cmd.Flags().Changed("x") && cmd.Flags().Changed("y") {
		x, _ := cmd.Flags().GetFloat64("x")
		y, _ := cmd.Flags().GetFloat64("y")
		path, snap, err := gen.GenerateAt(x, y)
		if err != nil {
			return err
		}
		return output.Print(output.ElementResult{Path: path.String(), Element: snap})
	}

	if len(args) == 0 {
		return fmt.Errorf("either --x and --y coordinates or a path argument is required")
	}
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
	canonical, err := gen.Generate(root, el)
	if err != nil {
		return err
	}
	snap, err := reader.Info(el)
	if err != nil {
		return fmt.Errorf("read element: %w", err)
	}
	return output.Print(output.ElementResult{Path: canonical.String(), Element: snap})
}
