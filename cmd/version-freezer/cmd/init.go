package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pybuild-tools/version-freezer/internal/config"
	"github.com/pybuild-tools/version-freezer/internal/logger"
)

// initCmd writes a starter settings file for a package.
var initCmd = &cobra.Command{
	Use:   "init [package-name] [version]",
	Short: "Write a starter settings file",
	Long: "Create a settings file for the given package name and version so later " +
		"invocations of version-freezer can run without arguments.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.Config{
			PackageName: args[0],
			Version:     args[1],
			SourceDir:   sourceDir,
		}

		if err := config.Save(configPath, cfg); err != nil {
			return err
		}

		logger.InfoKV(cmd.Context(), "Wrote freezer settings", "path", configPath)

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to settings file")
	initCmd.Flags().StringVar(&sourceDir, "srcdir", "", "source directory holding the package tree")

	rootCmd.AddCommand(initCmd)
}
