package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chrisdamba/foodswipe/internal/logging"
	"github.com/chrisdamba/foodswipe/internal/models"
)

var (
	cfgFile string
	cfg     *models.Config
)

var rootCmd = &cobra.Command{
	Use:   "foodswipe",
	Short: "Swipe through nearby dishes and build a menu",
	Long: `foodswipe deals recommended dishes from restaurants near you as a deck of cards.
Skip, save, open or exclude each one; exclusions and dietary taboos shape the next batch.
Without an API key the deck is served from a fixed fallback batch.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = models.LoadConfig(viper.GetViper(), cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		logging.Init(logging.Config{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			Output: cmd.ErrOrStderr(),
		})
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSwipe(cmd, args)
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.foodswipe.yaml)")

	flags := rootCmd.PersistentFlags()
	flags.String("source", models.SourceGemini, "Recommendation source: gemini or synthetic")
	flags.String("model", "gemini-2.5-flash", "Gemini model name")
	flags.Int("batch-size", 5, "Dishes requested per fetch")
	flags.Duration("request-timeout", 0, "Timeout for one recommendation request")
	flags.Int("seed", 0, "Seed for the synthetic source (0 is random)")
	flags.Bool("location-enabled", false, "Share a location with the recommendation source")
	flags.Float64("latitude", 0, "Latitude when location is enabled")
	flags.Float64("longitude", 0, "Longitude when location is enabled")
	flags.String("username", "", "Name to log in with")
	flags.String("log-level", "info", "Log level: trace, debug, info, warn, error, disabled")
	flags.String("log-format", "console", "Log format: console or json")
	flags.String("output-destination", "none", "Swipe analytics output: none, console, json, parquet or kafka")
	flags.String("output-path", ".", "Base path for json and parquet output")
	flags.String("kafka-broker-list", "", "Kafka broker list")

	bindFlags(flags)
}

// bindFlags binds every changed flag to its config key (batch-size -> batch_size).
// Unchanged flags are left to the config file, environment and defaults.
func bindFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		cobra.CheckErr(viper.BindPFlag(key, f))
	})
}

func initConfig() {
	if cfgFile != "" {
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	candidate := filepath.Join(home, ".foodswipe.yaml")
	if _, err := os.Stat(candidate); err == nil {
		cfgFile = candidate
		fmt.Fprintln(os.Stderr, "Using config file:", cfgFile)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
