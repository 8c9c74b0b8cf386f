package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
	"github.com/HarishgunaS/sisypho-sdk/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing element addressing tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes descriptive-path
addressing as tools: resolve a path to an element, list children, perform
accessibility actions, search elements, and generate paths from coordinates.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  sisypho serve
  sisypho serve --transport streamable-http --port 8080
  sisypho serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", viper.GetString(serveTransportKey), "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", viper.GetInt(servePortKey), "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", viper.GetInt(serveCacheTTLKey), "Application root cache TTL in milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.Reader == nil {
		return fmt.Errorf("accessibility reader not available on this platform")
	}

	cfg := server.Config{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
	}
	return server.New(provider, cfg, globalLogger).Serve(cfg)
}
