package main

import (
	"github.com/aretw0/pacer/internal/cli"
	"github.com/spf13/cobra"
)

var toolCmd = &cobra.Command{
	Use:   "tool [name]",
	Short: "Invoke a progress tool, or list them",
	Example: `  pacer tool
  pacer tool progress-demo-simple --args '{"steps": 5}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cli.Options{Quiet: true})
		if err != nil {
			return err
		}
		defer app.Close()

		if len(args) == 0 {
			cli.ListTools(app, cmd.OutOrStdout())
			return nil
		}

		raw, _ := cmd.Flags().GetString("args")
		toolArgs, err := cli.ParseToolArgs(raw)
		if err != nil {
			return err
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()
		return cli.RunTool(sc, app, args[0], toolArgs, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(toolCmd)
	toolCmd.Flags().String("args", "", "Tool arguments as a JSON object")
}
