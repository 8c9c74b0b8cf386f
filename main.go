package main

import (
	"github.com/HarishgunaS/sisypho-sdk/cmd"

	// Register the macOS platform backend.
	_ "github.com/HarishgunaS/sisypho-sdk/internal/platform/darwin"
)

func main() {
	cmd.Execute()
}
