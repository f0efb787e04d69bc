package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/threadlight/internal/adapters/driving/mcp"
	"github.com/custodia-labs/threadlight/internal/logger"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --http to serve over HTTP instead, for the MCP Inspector or remote access.

Examples:
  # Stdio mode (default)
  threadlight mcp

  # HTTP mode
  threadlight mcp --http 127.0.0.1:8421

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "threadlight": {
        "command": "/path/to/threadlight",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "HTTP listen address (empty = use stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	logger.Section("MCP server")
	ports := &mcp.Ports{
		Messages: messageService,
	}
	if attachmentService != nil {
		ports.Attachments = attachmentService
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		cmd.PrintErrf("MCP server listening on http://%s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}

	return server.Run(cmd.Context())
}
