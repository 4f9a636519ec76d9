// Package cmd implements the snapserve command-line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/snapserve/snapserve/pkg/logging"
)

var (
	configFile string

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "snapserve",
	Short: "QR-code restaurant ordering platform",
	Long: `SnapServe is a contactless restaurant ordering platform. Customers
scan a table QR code, browse the menu, and order; staff and admin dashboards
receive new orders, status changes, and negative-feedback alerts in real time
over WebSocket.`,
}

// Execute runs the root command with signal-aware context.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Default().Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./snapserve.yaml)")
}

// initConfig loads .env files, the config file, and environment variables.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("snapserve")
	}

	// .env.local overrides .env
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}

	viper.SetEnvPrefix("SNAPSERVE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// The Gemini key is conventionally unprefixed.
	_ = viper.BindEnv("gemini-api-key", "GEMINI_API_KEY", "SNAPSERVE_GEMINI_API_KEY")

	if err := viper.ReadInConfig(); err == nil {
		logging.Default().Debug().Str("file", viper.ConfigFileUsed()).Msg("Loaded config file")
	}
}
