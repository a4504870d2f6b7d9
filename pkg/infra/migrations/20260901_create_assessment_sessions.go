package migrations

import (
	"github.com/NeuralTrust/ExamWatch/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260901_create_assessment_sessions",
		Name: "Create assessment_sessions table",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE EXTENSION IF NOT EXISTS pgcrypto;
			`).Error; err != nil {
				return err
			}

			return db.Exec(`
				CREATE TABLE IF NOT EXISTS assessment_sessions (
					id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					assessment_id       UUID NOT NULL,
					user_id             TEXT NOT NULL,
					warning_count       INTEGER NOT NULL DEFAULT 0 CHECK (warning_count >= 0),
					is_completed        BOOLEAN NOT NULL DEFAULT FALSE,
					is_cancelled        BOOLEAN NOT NULL DEFAULT FALSE,
					cancellation_reason TEXT,
					score               INTEGER,
					started_at          TIMESTAMPTZ NOT NULL,
					completed_at        TIMESTAMPTZ,
					created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_assessment_sessions_assessment_id
					ON assessment_sessions(assessment_id);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS assessment_sessions;`).Error
		},
	})
}
