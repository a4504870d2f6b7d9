package guard

import (
	"context"
	"fmt"
	"sync"

	"github.com/NeuralTrust/ExamWatch/pkg/app/securitylog"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/clock"
	"github.com/sirupsen/logrus"
)

// Viewport is the window geometry reported by the browser shim.
type Viewport struct {
	OuterWidth  int `json:"outer_width" mapstructure:"outer_width"`
	InnerWidth  int `json:"inner_width" mapstructure:"inner_width"`
	OuterHeight int `json:"outer_height" mapstructure:"outer_height"`
	InnerHeight int `json:"inner_height" mapstructure:"inner_height"`
}

// DevtoolsHeuristic guesses that docked developer tools are open when the
// window chrome is larger than threshold pixels. It is easily fooled
// (undocked tools, zoom, side panels) and never blocks anything; an
// absence of reports says nothing about the tools being closed.
type DevtoolsHeuristic struct {
	base
	threshold int
	mu        sync.Mutex
	open      bool
}

func NewDevtoolsHeuristic(
	logger *logrus.Logger,
	events securitylog.Logger,
	notifier Notifier,
	clk clock.Clock,
	correlation Correlation,
	threshold int,
) *DevtoolsHeuristic {
	return &DevtoolsHeuristic{
		base: base{
			logger:      logger,
			events:      events,
			notifier:    notifier,
			clock:       clk,
			correlation: correlation,
		},
		threshold: threshold,
	}
}

// HandleViewport reports whether this sample moved the heuristic from
// closed to open. Only that transition is logged.
func (h *DevtoolsHeuristic) HandleViewport(ctx context.Context, v Viewport) bool {
	if !h.Active() {
		return false
	}
	dw := v.OuterWidth - v.InnerWidth
	dh := v.OuterHeight - v.InnerHeight
	open := dw > h.threshold || dh > h.threshold

	h.mu.Lock()
	opened := open && !h.open
	h.open = open
	h.mu.Unlock()

	if opened {
		h.emit(ctx, securityevent.KindDevtoolsOpened,
			fmt.Sprintf("Developer tools suspected (window chrome %dx%d px)", dw, dh),
			"Developer tools are not allowed during the assessment.")
	}
	return opened
}
