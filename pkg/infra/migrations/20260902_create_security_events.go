package migrations

import (
	"github.com/NeuralTrust/ExamWatch/pkg/infra/database"
	"gorm.io/gorm"
)

// security_events has no foreign key to assessment_sessions: general
// events carry no session and the log must accept writes even for ids
// it cannot resolve.
func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260902_create_security_events",
		Name: "Create security_events table",

		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE TABLE IF NOT EXISTS security_events (
					id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					kind          TEXT NOT NULL,
					occurred_at   TIMESTAMPTZ NOT NULL,
					details       TEXT,
					assessment_id UUID,
					session_id    UUID,
					user_id       TEXT,
					created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_security_events_session_id
					ON security_events(session_id, occurred_at);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS security_events;`).Error
		},
	})
}
