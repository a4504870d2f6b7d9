package securitylog

import (
	"context"

	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/telemetry"
)

// Sink is one durable destination for security events.
type Sink interface {
	Name() string
	Write(ctx context.Context, evt *securityevent.Event) error
}

type repositorySink struct {
	repo securityevent.Repository
}

func NewRepositorySink(repo securityevent.Repository) Sink {
	return &repositorySink{repo: repo}
}

func (s *repositorySink) Name() string {
	return "postgres"
}

func (s *repositorySink) Write(ctx context.Context, evt *securityevent.Event) error {
	return s.repo.Save(ctx, evt)
}

type exporterSink struct {
	exporter telemetry.Exporter
}

func NewExporterSink(exporter telemetry.Exporter) Sink {
	return &exporterSink{exporter: exporter}
}

func (s *exporterSink) Name() string {
	return s.exporter.Name()
}

func (s *exporterSink) Write(ctx context.Context, evt *securityevent.Event) error {
	return s.exporter.Handle(ctx, evt)
}
