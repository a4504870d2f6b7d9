package proctor

import (
	"context"
	"fmt"
	"sync"

	"github.com/NeuralTrust/ExamWatch/pkg/app/guard"
	"github.com/NeuralTrust/ExamWatch/pkg/app/protection"
	"github.com/NeuralTrust/ExamWatch/pkg/app/role"
	"github.com/NeuralTrust/ExamWatch/pkg/app/securitylog"
	"github.com/NeuralTrust/ExamWatch/pkg/app/tabexit"
	"github.com/NeuralTrust/ExamWatch/pkg/app/violation"
	"github.com/NeuralTrust/ExamWatch/pkg/config"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/identity"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/clock"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Deps are the collaborators shared by every monitor of the process.
type Deps struct {
	Logger   *logrus.Logger
	Events   securitylog.Logger
	Sessions assessment.Repository
	Recorder violation.Recorder
	Roles    role.RoleSource
	Clock    clock.Clock
	Registry *Registry
	Config   config.ProctoringConfig
}

// Monitor is the server side of one browser tab. It owns the guards, the
// tab-exit detector and the violation dispatcher of that tab and keeps
// them gated by the orchestrator state.
type Monitor struct {
	id     string
	deps   Deps
	cfg    config.ProctoringConfig
	sender Sender
	token  string

	keyboard *guard.KeyboardGuard
	pointer  *guard.PointerGuard
	devtools *guard.DevtoolsHeuristic
	scope    *protection.Scope

	ctx    context.Context
	cancel context.CancelFunc

	// flow serializes state transitions so the published protection
	// state always reflects the last one applied.
	flow sync.Mutex

	mu         sync.Mutex
	principal  identity.Principal
	resolved   bool
	role       protection.RoleStatus
	route      protection.Route
	state      protection.State
	stateSent  bool
	target     *violation.Target
	detector   *tabexit.Detector
	dispatcher *violation.Dispatcher
	terminated bool
	closed     bool
	redirect   clock.Timer
	displayed  int
}

func NewMonitor(deps Deps, sender Sender, token string) *Monitor {
	m := &Monitor{
		id:     uuid.NewString(),
		deps:   deps,
		cfg:    deps.Config.WithDefaults(),
		sender: sender,
		token:  token,
		scope:  protection.NewScope(),
		role:   protection.RoleUnknown,
	}
	m.keyboard = guard.NewKeyboardGuard(deps.Logger, deps.Events, m, deps.Clock, m.correlation)
	m.pointer = guard.NewPointerGuard(deps.Logger, deps.Events, m, deps.Clock, m.correlation, m.cfg.ContextMenuCooldown)
	m.devtools = guard.NewDevtoolsHeuristic(deps.Logger, deps.Events, m, deps.Clock, m.correlation, m.cfg.DevtoolsThreshold)
	return m
}

func (m *Monitor) ID() string {
	return m.id
}

// Start publishes the initial, fully protected state and resolves the
// caller in the background. No session is monitored until the caller is
// known.
func (m *Monitor) Start(ctx context.Context) {
	m.flow.Lock()
	m.mu.Lock()
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()
	prometheus.ActiveMonitors.Inc()
	m.reevaluate()
	m.flow.Unlock()

	if m.token == "" || m.deps.Roles == nil {
		return
	}
	ctx = m.ctx
	go func() {
		p, err := m.deps.Roles.Lookup(ctx, m.token)
		if err != nil {
			m.deps.Logger.WithError(err).WithField("monitor_id", m.id).Warn("role unresolved, keeping protections on")
			return
		}
		m.SetPrincipal(ctx, p)
	}()
}

// SetPrincipal records the resolved caller and starts monitoring the
// session of the current route when the caller owns it.
func (m *Monitor) SetPrincipal(ctx context.Context, p identity.Principal) {
	m.flow.Lock()
	defer m.flow.Unlock()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.principal = p
	m.resolved = p.UserID != ""
	m.role = protection.RoleStatusFromAdmin(p.IsAdmin())
	route := m.route
	pending := m.target == nil && route.Taking && route.SessionID != nil
	m.mu.Unlock()

	if pending {
		m.enterSession(ctx, route)
	}
	m.reevaluate()
}

func (m *Monitor) State() protection.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Handle processes one signal from the tab. Signals are handled in the
// order they are read.
func (m *Monitor) Handle(ctx context.Context, sig Signal) {
	switch sig.Type {
	case SignalRoute:
		m.navigate(ctx, sig.Path)
	case SignalKeyDown:
		d := m.keyboard.HandleKeyDown(ctx, sig.Key)
		m.send(Message{Type: MessageDecision, ID: sig.ID, Decision: &d})
	case SignalContextMenu:
		d := m.pointer.HandleContextMenu(ctx)
		m.send(Message{Type: MessageDecision, ID: sig.ID, Decision: &d})
	case SignalViewport:
		m.devtools.HandleViewport(ctx, sig.Viewport)
	case SignalVisibility:
		if sig.Hidden {
			m.leave(tabexit.TriggerVisibility)
		} else {
			m.back(ctx, tabexit.TriggerVisibility)
		}
	case SignalBlur:
		m.leave(tabexit.TriggerBlur)
	case SignalFocus:
		m.back(ctx, tabexit.TriggerFocus)
	default:
		m.deps.Logger.WithField("type", sig.Type).Debug("ignoring unknown signal")
	}
}

func (m *Monitor) leave(trigger tabexit.Trigger) {
	if d := m.currentDetector(); d != nil {
		d.Leave(trigger)
	}
}

func (m *Monitor) back(ctx context.Context, trigger tabexit.Trigger) {
	if d := m.currentDetector(); d != nil {
		d.Return(ctx, trigger)
	}
}

func (m *Monitor) currentDetector() *tabexit.Detector {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detector
}

func (m *Monitor) navigate(ctx context.Context, path string) {
	route := protection.ParseRoute(path)

	m.flow.Lock()
	defer m.flow.Unlock()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.route = route
	sameSession := m.target != nil && route.Taking && route.SessionID != nil && *route.SessionID == m.target.SessionID
	leaving := m.target != nil && !sameSession
	m.mu.Unlock()

	if leaving {
		m.exitSession()
	}
	if route.Taking && route.SessionID != nil && !sameSession {
		m.enterSession(ctx, route)
	}
	m.reevaluate()
}

// enterSession must be called with flow held.
func (m *Monitor) enterSession(ctx context.Context, route protection.Route) {
	m.mu.Lock()
	principal, resolved := m.principal, m.resolved
	m.mu.Unlock()
	if !resolved {
		m.deps.Logger.WithFields(logrus.Fields{
			"monitor_id": m.id,
			"session_id": *route.SessionID,
		}).Debug("caller not resolved yet, deferring session monitoring")
		return
	}

	session, err := m.deps.Sessions.GetByID(ctx, *route.SessionID)
	if err != nil {
		m.deps.Logger.WithError(err).WithField("session_id", *route.SessionID).Warn("cannot monitor session")
		return
	}
	if session.UserID != principal.UserID {
		m.deps.Logger.WithFields(logrus.Fields{
			"monitor_id": m.id,
			"session_id": session.ID,
			"user_id":    principal.UserID,
		}).Warn("session belongs to another user")
		return
	}
	if route.AssessmentID != nil && session.AssessmentID != *route.AssessmentID {
		m.deps.Logger.WithFields(logrus.Fields{
			"session_id":    session.ID,
			"assessment_id": *route.AssessmentID,
		}).Warn("session does not belong to assessment")
		return
	}
	if !session.InProgress() {
		return
	}

	assessmentID := session.AssessmentID
	target := violation.Target{SessionID: session.ID, AssessmentID: &assessmentID, UserID: session.UserID}
	dispatcher := violation.NewDispatcher(m.deps.Logger, m.deps.Recorder, target, m.onOutcome)
	detector := tabexit.NewDetector(
		m.deps.Logger,
		m.deps.Events,
		m.deps.Clock,
		tabexit.Config{Debounce: m.cfg.Debounce, Interval: m.cfg.ContinuousInterval},
		target.EventOptions,
		func(v tabexit.Violation) { dispatcher.Submit(v.Details) },
	)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		detector.Close()
		return
	}
	m.target = &target
	m.detector = detector
	m.dispatcher = dispatcher
	m.terminated = false
	m.displayed = 0
	runCtx := m.ctx
	m.mu.Unlock()
	if runCtx == nil {
		runCtx = context.Background()
	}

	m.scope.Enter(session.ID)
	if m.deps.Registry != nil {
		m.deps.Registry.Add(session.ID, m)
	}
	dispatcher.Start(runCtx)

	count, err := m.deps.Sessions.GetWarningCount(ctx, session.ID)
	if err != nil {
		m.deps.Logger.WithError(err).WithField("session_id", session.ID).Warn("failed to read warning count, showing 0")
		count = 0
	}
	m.showCount(count)

	m.deps.Logger.WithFields(logrus.Fields{
		"monitor_id": m.id,
		"session_id": session.ID,
	}).Info("monitoring assessment session")
}

// exitSession tears down the session-bound components. Every timer they
// armed is stopped before it returns.
func (m *Monitor) exitSession() {
	m.mu.Lock()
	target, detector, dispatcher := m.target, m.detector, m.dispatcher
	m.target, m.detector, m.dispatcher = nil, nil, nil
	m.mu.Unlock()

	if detector != nil {
		detector.Close()
	}
	if dispatcher != nil {
		dispatcher.Close()
	}
	m.scope.Exit()
	if target != nil && m.deps.Registry != nil {
		m.deps.Registry.Remove(target.SessionID, m)
	}
}

// reevaluate must be called with flow held.
func (m *Monitor) reevaluate() {
	m.mu.Lock()
	state := protection.Derive(m.route, m.role, m.scope.InProgress())
	changed := !m.stateSent || state != m.state
	m.state = state
	m.stateSent = true
	detector := m.detector
	m.mu.Unlock()

	m.keyboard.SetActive(state.ProtectInputDevice)
	m.pointer.SetActive(state.ProtectInputDevice)
	m.devtools.SetActive(state.ProtectInputDevice)
	if detector != nil {
		detector.SetEnabled(state.DetectTabExit)
	}
	if changed {
		m.send(Message{Type: MessageProtection, Protection: &state})
	}
}

func (m *Monitor) onOutcome(out violation.Outcome) {
	m.showCount(out.Count)
	switch out.Action {
	case violation.ActionFirstWarning:
		m.send(Message{Type: MessageNotice, Level: NoticeWarning, Text: out.Message})
	case violation.ActionFinalWarning:
		m.send(Message{Type: MessageNotice, Level: NoticeFinal, Text: out.Message})
	case violation.ActionTerminate:
		m.terminate(out.Message)
	}
}

// StopSession ends monitoring after a termination decided elsewhere.
func (m *Monitor) StopSession(sessionID uuid.UUID, reason string) {
	m.mu.Lock()
	match := m.target != nil && m.target.SessionID == sessionID
	m.mu.Unlock()
	if !match {
		return
	}
	m.terminate(violation.TerminationMessageFor(reason))
}

func (m *Monitor) terminate(message string) {
	m.flow.Lock()
	defer m.flow.Unlock()

	m.mu.Lock()
	if m.terminated || m.closed || m.target == nil {
		m.mu.Unlock()
		return
	}
	m.terminated = true
	target := *m.target
	m.mu.Unlock()

	m.exitSession()
	m.reevaluate()

	path := m.resultPath(target)
	m.send(Message{Type: MessageNotice, Level: NoticeFatal, Text: message, Path: path, DelayMs: m.cfg.RedirectDelay.Milliseconds()})

	m.mu.Lock()
	if !m.closed {
		m.redirect = m.deps.Clock.AfterFunc(m.cfg.RedirectDelay, func() {
			m.send(Message{Type: MessageNavigate, Path: path})
		})
	}
	m.mu.Unlock()

	m.deps.Logger.WithFields(logrus.Fields{
		"monitor_id": m.id,
		"session_id": target.SessionID,
	}).Info("assessment locked out, redirecting to result")
}

func (m *Monitor) Terminated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.terminated
}

func (m *Monitor) resultPath(target violation.Target) string {
	assessmentID := ""
	if target.AssessmentID != nil {
		assessmentID = target.AssessmentID.String()
	}
	return fmt.Sprintf(m.cfg.ResultPathTemplate, assessmentID, target.SessionID.String())
}

func (m *Monitor) showCount(count int) {
	m.mu.Lock()
	if count < m.displayed {
		count = m.displayed
	}
	m.displayed = count
	m.mu.Unlock()
	m.send(Message{Type: MessageWarningCount, Count: &count, Max: m.cfg.MaxViolations})
}

// Warn lets the guards show their warnings through the tab.
func (m *Monitor) Warn(message string) {
	m.send(Message{Type: MessageNotice, Level: NoticeWarning, Text: message})
}

func (m *Monitor) correlation() []securityevent.Option {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.target == nil {
		return nil
	}
	return m.target.EventOptions()
}

func (m *Monitor) send(msg Message) {
	if err := m.sender.Send(msg); err != nil {
		m.deps.Logger.WithError(err).WithFields(logrus.Fields{
			"monitor_id": m.id,
			"type":       msg.Type,
		}).Debug("failed to send message to tab")
	}
}

// Close releases everything the monitor armed. It is idempotent.
func (m *Monitor) Close() {
	m.flow.Lock()
	defer m.flow.Unlock()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	redirect := m.redirect
	started := m.cancel != nil
	m.mu.Unlock()

	m.exitSession()
	if redirect != nil {
		redirect.Stop()
	}
	if started {
		m.cancel()
		prometheus.ActiveMonitors.Dec()
	}
}
