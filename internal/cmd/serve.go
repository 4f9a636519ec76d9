package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/snapserve/snapserve/internal/server"
	"github.com/snapserve/snapserve/pkg/logging"
)

// serveCmd starts the API and WebSocket server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SnapServe API and WebSocket server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := logging.Default()

		config := server.DefaultConfig()
		config.Host = viper.GetString("host")
		if port := viper.GetInt("port"); port != 0 {
			config.Port = port
		}
		if limit := viper.GetInt("rate-limit"); limit != 0 {
			config.RateLimit = limit
		}
		if ttl := viper.GetDuration("cache-ttl"); ttl != 0 {
			config.CacheTTL = ttl
		}
		if origins := viper.GetStringSlice("allowed-origins"); len(origins) > 0 {
			config.AllowedOrigins = origins
		}
		config.GeminiAPIKey = viper.GetString("gemini-api-key")
		config.GeminiModel = viper.GetString("gemini-model")
		config.SeedPath = viper.GetString("seed")

		srv, err := server.New(cmd.Context(), config, logger)
		if err != nil {
			return err
		}

		logger.Info().
			Str("version", Version).
			Int("port", config.Port).
			Msg("Starting SnapServe")

		return srv.Start(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "host interface to bind")
	serveCmd.Flags().Int("port", 8080, "port to listen on")
	serveCmd.Flags().Int("rate-limit", 120, "requests per minute per IP (0 disables)")
	serveCmd.Flags().Duration("cache-ttl", server.DefaultConfig().CacheTTL, "response cache lifetime")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "CORS allowed origins")
	serveCmd.Flags().String("seed", "", "YAML seed fixture (default: embedded demo data)")
	serveCmd.Flags().String("gemini-model", "", "Gemini model override")

	for _, name := range []string{"host", "port", "rate-limit", "cache-ttl", "allowed-origins", "seed", "gemini-model"} {
		if err := viper.BindPFlag(name, serveCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}
