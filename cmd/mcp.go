package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ymaeda-ai/insurag/internal/engine"
	mcpserver "github.com/ymaeda-ai/insurag/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the retrieve_documents and ask_question tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		svc, err := createServiceFromConfig(cfg)
		if err != nil {
			return err
		}
		defer svc.Close()

		// Warm synchronously: MCP clients expect tools to work as soon
		// as the handshake completes.
		if eng, ok := svc.(*engine.Engine); ok {
			if err := eng.Warmup(context.Background()); err != nil {
				return fmt.Errorf("warming up: %w", err)
			}
		}

		mcpserver.Version = Version

		fmt.Fprintln(os.Stderr, "insurag MCP server started on stdio")

		srv := mcpserver.NewServer(svc)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
