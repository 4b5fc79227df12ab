package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/pacer/internal/cli"
	"github.com/aretw0/pacer/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg   config.Config
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "pacer",
	Short: "pacer is a conversational assistant that demonstrates progress reporting",
	Long: `pacer answers chat requests with timed progress demos, streams progress
and markdown as it goes, honours cancellation, and suggests what to try next.

Without a subcommand it starts an interactive chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := applyFlags(cmd, &c); err != nil {
			return err
		}
		cfg = c
		debug, _ = cmd.Flags().GetBool("debug")
		return nil
	},
}

// applyFlags overrides configuration values with the flags the user set.
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("time-scale") {
		c.TimeScale, _ = flags.GetFloat64("time-scale")
	}
	if flags.Changed("workspace") {
		c.WorkspaceRoot, _ = flags.GetString("workspace")
	}
	if flags.Changed("store") {
		c.Store.Kind, _ = flags.GetString("store")
	}
	if flags.Changed("redis") {
		c.Store.RedisAddr, _ = flags.GetString("redis")
	}
	if flags.Changed("seed") {
		c.Seed, _ = flags.GetUint64("seed")
	}
	return c.Validate()
}

func newApp(opts cli.Options) (*cli.App, error) {
	opts.Debug = debug
	return cli.NewApp(cfg, opts)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default: ./"+config.DefaultPath+" if present)")
	pf.Bool("debug", false, "Log debug output to stderr")
	pf.Float64("time-scale", 1, "Multiply every demo duration by this factor (0 = instant)")
	pf.String("workspace", "", "Workspace folder inspected by the links scenario and the analyzer tool")
	pf.String("store", config.StoreMemory, "History store: memory or redis")
	pf.String("redis", "", "Redis address for the redis store")
	pf.Uint64("seed", 0, "Seed for simulated variation (0 = random)")
}
