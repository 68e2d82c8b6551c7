package cli

import (
	"os"

	"github.com/draupnir/draupnir/internal/observability/logging"
	"github.com/draupnir/draupnir/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveHTTPAddr    string
	serveNoTools     bool
	serveNoResources bool
	serveNoPrompts   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the corpus over MCP stdio (or HTTP with --http)",
	Long: `serve speaks JSON-RPC 2.0 over newline-delimited JSON on
stdin/stdout so a tool-calling client can browse, search and validate
the policy corpus. With --http the same RPC surface is exposed on a
listen address instead.`,
	RunE: runServe,
}

func GetServeCmd() *cobra.Command {
	return serveCmd
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "Serve JSON-RPC over HTTP on this address instead of stdio")
	serveCmd.Flags().BoolVar(&serveNoTools, "no-tools", false, "Disable the tools capability")
	serveCmd.Flags().BoolVar(&serveNoResources, "no-resources", false, "Disable the resources capability")
	serveCmd.Flags().BoolVar(&serveNoPrompts, "no-prompts", false, "Disable the prompts capability")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.From(ctx)

	eng, err := newEngine()
	if err != nil {
		return err
	}

	caps := server.Capabilities{
		Tools:     !serveNoTools,
		Resources: !serveNoResources,
		Prompts:   !serveNoPrompts,
	}
	srv := server.New(eng, caps)

	if serveHTTPAddr != "" {
		log.Event(ctx, "cli", "serve.start", map[string]any{
			"mode": "http",
			"addr": serveHTTPAddr,
			"root": eng.Root(),
		})
		return srv.ServeHTTP(ctx, serveHTTPAddr)
	}

	log.Event(ctx, "cli", "serve.start", map[string]any{
		"mode": "stdio",
		"root": eng.Root(),
	})
	return srv.Run(ctx, os.Stdin, os.Stdout)
}
