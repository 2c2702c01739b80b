package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"
	"github.com/foomo/deadlinks/config"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deadlinks",
		Short: "Detect broken references in generated html documents",
		Long: `deadlinks checks every hyperlink, image, media source, form action and
iframe in a folder of html documents. Local references have to exist in the
folder, remote ones must not answer a HEAD request with 404 or 410.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "", "path to a yaml config file")
	cmd.PersistentFlags().Bool("recursive", true, "include sub folders")
	cmd.PersistentFlags().String("policy", string(config.PolicyCollectAll), "collect-all or fail-fast")
	cmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "timeout for remote HEAD requests")
	cmd.PersistentFlags().Int("concurrency", config.DefaultConcurrency, "documents scanned in parallel")
	cmd.PersistentFlags().Int("remote-concurrency", config.DefaultRemoteConcurrency, "remote HEAD requests in parallel")
	cmd.PersistentFlags().String("agent", config.DefaultAgent, "User-Agent for remote requests")
	cmd.PersistentFlags().StringSlice("ignore", nil, "ignore targets with these prefixes")
	cmd.PersistentFlags().Bool("no-remote", false, "do not check remote urls")
	cmd.PersistentFlags().Bool("robots", false, "respect robots.txt of remote hosts")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewServeCmd())
	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadConfig file values first, explicitly set flags win
func loadConfig(cmd *cobra.Command, root, path string) (*config.Config, error) {
	conf := config.Default()
	flags := cmd.Flags()
	if configFile, _ := flags.GetString("config"); configFile != "" {
		fileConf, errConf := config.Get(configFile)
		if errConf != nil {
			return nil, fmt.Errorf("config error: %w", errConf)
		}
		conf = fileConf
	}
	if root != "" {
		conf.Root = root
	}
	if path != "" {
		conf.Path = path
	}
	if flags.Changed("recursive") {
		conf.Recursive, _ = flags.GetBool("recursive")
	}
	if flags.Changed("policy") {
		policy, _ := flags.GetString("policy")
		conf.Policy = config.Policy(policy)
	}
	if flags.Changed("timeout") {
		conf.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("concurrency") {
		conf.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("remote-concurrency") {
		conf.RemoteConcurrency, _ = flags.GetInt("remote-concurrency")
	}
	if flags.Changed("agent") {
		conf.Agent, _ = flags.GetString("agent")
	}
	if flags.Changed("ignore") {
		conf.Ignore, _ = flags.GetStringSlice("ignore")
	}
	if noRemote, _ := flags.GetBool("no-remote"); noRemote {
		conf.CheckRemote = false
	}
	if robots, _ := flags.GetBool("robots"); robots {
		conf.RespectRobots = true
	}
	if errValidate := conf.Validate(); errValidate != nil {
		return nil, errValidate
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		spew.Fdump(cmd.ErrOrStderr(), conf)
	}
	return conf, nil
}
