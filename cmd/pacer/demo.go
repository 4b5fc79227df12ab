package main

import (
	"github.com/aretw0/pacer/internal/cli"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo [name]",
	Short: "Run a native progress demo, or list them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			cli.ListDemos(cmd.OutOrStdout())
			return nil
		}

		app, err := newApp(cli.Options{Quiet: true})
		if err != nil {
			return err
		}
		defer app.Close()

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()
		return cli.RunDemo(sc, app, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
