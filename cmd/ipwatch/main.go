package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"ipwatch/internal/app"
	"ipwatch/internal/config"
	"ipwatch/internal/logger"
	"ipwatch/internal/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	exitCode := app.ExitOK
	root := newRootCmd(&exitCode)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		// Flag and argument errors; run failures set exitCode themselves
		return app.ExitFailure
	}
	return exitCode
}

func newRootCmd(exitCode *int) *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:           "ipwatch",
		Short:         "Record local IPv4 address changes and send an email notification",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			*exitCode = run(cmd.Context(), cmd.OutOrStdout(), configPath, logLevel)
			return nil
		},
	}

	root.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	root.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.GetInfo()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), info.String())
		},
	})

	return root
}

// run performs one check. Setup failures are printed to out, where the
// logger writes its status lines once it exists.
func run(parent context.Context, out io.Writer, configPath, logLevel string) int {
	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Failed to load config: %v\n", err)
		return app.ExitConfig
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	// Initialize logger
	log, err := logger.New(&cfg.Log)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Failed to initialize logger: %v\n", err)
		return app.ExitFailure
	}
	defer func() {
		_ = log.Sync()
	}()
	log = log.Named("ipwatch")

	log.Info("Configuration loaded", zap.String("file", cfg.File))

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, log)
	if err != nil {
		log.Error("Failed to initialize", zap.Error(err))
		return app.ExitCode(err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	if _, err := a.Run(ctx); err != nil {
		return app.ExitCode(err)
	}
	return app.ExitOK
}
