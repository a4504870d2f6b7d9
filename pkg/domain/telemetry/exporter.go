package telemetry

import (
	"context"

	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
)

// Exporter ships security events to an external system in addition to the
// primary store. Prototypes are registered unconfigured and turned into
// live exporters through WithSettings.
type Exporter interface {
	Name() string
	ValidateConfig(settings map[string]interface{}) error
	WithSettings(settings map[string]interface{}) (Exporter, error)
	Handle(ctx context.Context, evt *securityevent.Event) error
	Close()
}
