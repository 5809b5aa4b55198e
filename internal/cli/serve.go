package cli

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/otsl/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		maxBody int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the converter over HTTP",
		Long: `Serve starts an HTTP server with two endpoints:

  POST /v1/convert   HTML body (or JSON {"html": ...}) to OTSL per table
  POST /v1/dataset   annotation records to JSONL results`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := server.New(loggerFromContext(cmd.Context()))
			s.SetMaxBodyBytes(maxBody)
			return s.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	return cmd
}
