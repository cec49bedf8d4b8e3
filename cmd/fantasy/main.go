package main

import (
	"fmt"
	"os"

	"fantasysala/internal/config"
	"fantasysala/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fantasy",
	Short: "Fantasy Fútbol Sala terminal client",
	Long: `fantasy is a terminal client for the Fantasy Fútbol Sala web application.

Run "fantasy register" to create an account with the interactive form, or
pass --no-tui with the field flags for a scripted registration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		// The interactive form owns the terminal; it only logs to a file.
		mode := logging.ModeCommand
		if cmd == registerCmd && !noTUI {
			mode = logging.ModeInteractive
		}
		logger, err = logging.New(cfg.Logging, mode, verbose)
		if err != nil {
			return err
		}
		logging.For(logger, cfg.Logging, logging.CategoryBoot).Debug("config loaded",
			zap.String("path", configPath),
			zap.String("api", cfg.API.BaseURL))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fantasy %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the config file")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
