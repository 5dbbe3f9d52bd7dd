package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/pybuild-tools/version-freezer/internal/config"
	"github.com/pybuild-tools/version-freezer/internal/logger"
	"github.com/pybuild-tools/version-freezer/internal/service/freezer"
	"github.com/pybuild-tools/version-freezer/internal/version"
)

var (
	// configPath to the settings YAML file.
	configPath string
	// sourceDir optionally overrides the source directory from the settings.
	sourceDir string
	// releaseFlag forces the release flag when the flag was given.
	releaseFlag bool
	// debugFlag forces the debug flag when the flag was given.
	debugFlag bool
	// quiet reduces logging to errors only.
	quiet bool
	// logLevel optionally sets the log level by name.
	logLevel string

	// rootCmd represents the base command that freezes a package version.
	rootCmd = &cobra.Command{
		Use:   "version-freezer",
		Short: "Freeze a Python package version into a generated version.py",
		Long: "Compute the effective version of a Python package from its settings file " +
			"and git state, then regenerate the package's version.py when the version " +
			"string, release flag or debug flag changed. The effective version is " +
			"printed to stdout for consumption by build scripts.",
		Args: cobra.NoArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogging()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &freezer.Options{
				ConfigPath: configPath,
				SourceDir:  sourceDir,
			}

			// Only explicitly given flags become overrides; the freezer keeps
			// prior or derived values otherwise.
			if cmd.Flags().Changed("release") {
				options.Release = &releaseFlag
			}

			if cmd.Flags().Changed("debug") {
				options.Debug = &debugFlag
			}

			effective, err := freezer.Run(ctx, options)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), effective)

			return nil
		},
	}
)

// Execute runs the version-freezer CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configureLogging applies the quiet/log-level flags to the global logger.
func configureLogging() {
	if quiet {
		logger.SetLevel(zapcore.ErrorLevel)
		return
	}

	if logLevel == "" {
		return
	}

	if level, ok := logger.ParseLogLevel(logLevel); ok {
		logger.SetLevel(level)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to settings file")
	rootCmd.Flags().StringVar(&sourceDir, "srcdir", "", "source directory holding the package tree")
	rootCmd.Flags().BoolVar(&releaseFlag, "release", false, "force the release flag instead of deriving it")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "force the debug flag instead of keeping the frozen one")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}
