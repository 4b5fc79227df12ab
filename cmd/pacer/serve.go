package main

import (
	"fmt"
	"net"

	"github.com/aretw0/pacer/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the chat, tools, sessions, health and metrics endpoints over HTTP
until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}

		app, err := newApp(cli.Options{JSONLogs: true})
		if err != nil {
			return err
		}
		defer app.Close()

		ln, err := net.Listen("tcp", cfg.HTTP.Addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.HTTP.Addr, err)
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()
		return cli.Serve(sc, app, ln)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
}
