package cmd

import (
	"log/slog"
	"os"

	"github.com/MeKo-Tech/imagebatch/internal/config"
	"github.com/MeKo-Tech/imagebatch/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "imagebatch",
	Short: "Prepare batched image tensors for ONNX inference",
	Long: `imagebatch discovers images under a file or directory, letterboxes and
normalizes them in parallel, and assembles fixed-shape batch tensors for a
downstream inference engine.

Examples:
  imagebatch list images/
  imagebatch run images/ --shape 8x3x640x640
  imagebatch run images/ --shape 8x3x640x640 --model yolo.onnx`,
	Version:      version.String(),
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME/.config/imagebatch, /etc/imagebatch)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
}

// initConfig wires the config file flag and logging level before any
// subcommand runs.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	level := slog.LevelInfo
	if v, _ := rootCmd.PersistentFlags().GetBool("verbose"); v {
		level = slog.LevelDebug
	} else {
		switch lv, _ := rootCmd.PersistentFlags().GetString("log-level"); lv {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig loads the validated configuration after flag binding.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}
	return loader.Load()
}
