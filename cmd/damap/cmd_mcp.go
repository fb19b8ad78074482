package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/damap/mcpserver"
)

func newMCPCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server on stdio offering extraction tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			server, err := mcpserver.New(version, root, cfg)
			if err != nil {
				return err
			}
			return server.ServeStdio()
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "project root the tools work on")

	return cmd
}
