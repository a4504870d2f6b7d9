package main

import (
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/config"
	infraLogger "github.com/NeuralTrust/ExamWatch/pkg/infra/logger"
	"github.com/spf13/cobra"
)

var migrateTimeout time.Duration

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", 2*time.Minute, "Give up applying migrations after this long")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := infraLogger.NewLogger("admin")
		db, err := openDatabase(logger, config.GetConfig())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Migrate(migrateTimeout)
	},
}
