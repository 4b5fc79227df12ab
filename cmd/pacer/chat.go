package main

import (
	"github.com/aretw0/pacer/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Starts a conversation on stdin/stdout. Type a request, or "/command prompt"
to pick a scenario explicitly (e.g. "/steps"). Ctrl+C cancels the running
request; "exit" or end of input leaves.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		sessionID, _ := cmd.Flags().GetString("session")

		app, err := newApp(cli.Options{Quiet: true})
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.RunChat(cmd.Context(), app, cli.ChatOptions{
			SessionID: sessionID,
			JSON:      jsonMode,
			Plain:     plain,
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Bool("json", false, "NDJSON input and output")
	chatCmd.Flags().Bool("plain", false, "Do not render markdown")
	chatCmd.Flags().StringP("session", "s", "", "Record the conversation under this session id")

	rootCmd.Flags().AddFlagSet(chatCmd.Flags())
	rootCmd.RunE = chatCmd.RunE
}
