package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Execute parses arguments and runs the selected subcommand.
func Execute() error {
	var (
		port       string
		configPath string
	)

	root := &cobra.Command{
		Use:           "classquiz",
		Short:         "Quiz authoring and play over WebSocket",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&port, "port", envOr("PORT", "8080"), "HTTP listen port")
	root.PersistentFlags().StringVar(&configPath, "config", envOr("CONFIG_PATH", "config/config.yaml"), "YAML config file")

	root.AddCommand(NewStartCmd(&configPath, &port))
	root.AddCommand(NewMigrateCmd(&configPath))
	return root.Execute()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
