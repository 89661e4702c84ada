package main

import (
	"os"

	"github.com/Ayash-Bera/mentor/backend/internal/config"
	"github.com/Ayash-Bera/mentor/backend/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Adaptive tutoring chat backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config-dir", ".", "Directory containing config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads .env and the configuration and builds the logger.
func bootstrap(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	envErr := godotenv.Load()

	dir, _ := cmd.Flags().GetString("config-dir")
	cfg, err := config.LoadFrom(dir)
	if err != nil {
		return nil, nil, err
	}

	logger := utils.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		logger.WithError(envErr).Debug("No .env file loaded")
	}
	return cfg, logger, nil
}
