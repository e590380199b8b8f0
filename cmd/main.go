package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xhad/infographic/internal/logger"
	cfgPkg "github.com/xhad/infographic/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// app holds what every subcommand shares: the loaded configuration and the
// log file handle.
type app struct {
	configPath string
	envFile    string
	logLevel   string

	cfg       *cfgPkg.Config
	logCloser io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "infographic",
		Short:        "Turn documents into structured infographic analyses",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to config file")
	flags.StringVar(&a.envFile, "env-file", ".env", "Path to a .env file loaded before the config")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level, overrides the config file")

	root.AddCommand(
		newAnalyzeCmd(a),
		newExtractCmd(a),
		newNormalizeCmd(a),
		newThemeCmd(a),
		newSimilarCmd(a),
	)
	return root
}

func (a *app) setup() error {
	if err := cfgPkg.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	cfg, err := cfgPkg.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	if verrs := cfg.Validate(); len(verrs) > 0 {
		errs := make([]error, 0, len(verrs))
		for _, verr := range verrs {
			errs = append(errs, verr)
		}
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	closer, err := logger.Init(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logCloser = closer
	return nil
}

func (a *app) teardown() {
	if a.logCloser != nil {
		a.logCloser.Close()
		a.logCloser = nil
	}
}
