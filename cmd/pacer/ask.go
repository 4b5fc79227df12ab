package main

import (
	"strings"

	"github.com/aretw0/pacer/internal/cli"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [request]",
	Short: "Answer a single request",
	Example: `  pacer ask show me some links
  pacer ask /steps
  pacer ask --session demo /advanced`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		sessionID, _ := cmd.Flags().GetString("session")

		app, err := newApp(cli.Options{Quiet: true})
		if err != nil {
			return err
		}
		defer app.Close()

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		_, err = cli.Ask(sc, app, strings.Join(args, " "), cli.ChatOptions{
			SessionID: sessionID,
			JSON:      jsonMode,
			Out:       cmd.OutOrStdout(),
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().Bool("json", false, "NDJSON output")
	askCmd.Flags().StringP("session", "s", "", "Session id to continue")
}
