package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExporter struct {
	name            string
	validateErr     error
	withSettingsErr error
	settings        map[string]interface{}
}

func (s *stubExporter) Name() string { return s.name }

func (s *stubExporter) ValidateConfig(map[string]interface{}) error { return s.validateErr }

func (s *stubExporter) WithSettings(settings map[string]interface{}) (telemetry.Exporter, error) {
	if s.withSettingsErr != nil {
		return nil, s.withSettingsErr
	}
	return &stubExporter{name: s.name, settings: settings}, nil
}

func (s *stubExporter) Handle(context.Context, *securityevent.Event) error { return nil }

func (s *stubExporter) Close() {}

func TestExporterLocator_UnknownExporter(t *testing.T) {
	locator := NewExporterLocator()

	_, err := locator.GetExporter(telemetry.ExporterConfig{Name: "kafka"})

	assert.EqualError(t, err, "unknown exporter: kafka")
	assert.Error(t, locator.ValidateExporter(telemetry.ExporterConfig{Name: "kafka"}))
}

func TestExporterLocator_ReturnsConfiguredInstance(t *testing.T) {
	proto := &stubExporter{name: "kafka"}
	locator := NewExporterLocator(WithExporter("kafka", proto))
	settings := map[string]interface{}{"host": "localhost"}

	exp, err := locator.GetExporter(telemetry.ExporterConfig{Name: "kafka", Settings: settings})

	require.NoError(t, err)
	configured, ok := exp.(*stubExporter)
	require.True(t, ok)
	assert.NotSame(t, proto, configured)
	assert.Equal(t, settings, configured.settings)
}

func TestExporterLocator_PropagatesErrors(t *testing.T) {
	invalid := NewExporterLocator(WithExporter("kafka", &stubExporter{name: "kafka", validateErr: errors.New("bad config")}))
	_, err := invalid.GetExporter(telemetry.ExporterConfig{Name: "kafka"})
	assert.EqualError(t, err, "bad config")

	broken := NewExporterLocator(WithExporter("kafka", &stubExporter{name: "kafka", withSettingsErr: errors.New("no broker")}))
	_, err = broken.GetExporter(telemetry.ExporterConfig{Name: "kafka"})
	assert.EqualError(t, err, "no broker")
}
