package main

import (
	"fmt"
	"log"
	"os"

	"github.com/NeuralTrust/ExamWatch/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "examwatch",
	Short: "Proctoring backend for online assessments",
	Long:  "Serves the student proctoring channel and the admin API, and keeps the assessment session store migrated.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile := os.Getenv("ENV_FILE")
		if envFile == "" {
			envFile = ".env"
		}
		if err := godotenv.Load(envFile); err != nil {
			log.Println("no .env file found, using system environment variables")
		}
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		if err := config.Load(configPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config", "Directory holding config.yaml")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
