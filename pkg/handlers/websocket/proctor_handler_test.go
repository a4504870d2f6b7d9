package websocket

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/app/proctor"
	"github.com/NeuralTrust/ExamWatch/pkg/app/role/mocks"
	"github.com/NeuralTrust/ExamWatch/pkg/app/securitylog/securitylogtest"
	"github.com/NeuralTrust/ExamWatch/pkg/app/violation"
	"github.com/NeuralTrust/ExamWatch/pkg/config"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment/assessmenttest"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/identity"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/clock/clocktest"
	"github.com/NeuralTrust/ExamWatch/pkg/server/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type wsFixture struct {
	url      string
	events   *securitylogtest.Recorder
	registry *proctor.Registry
	session  *assessment.Session
}

func startServer(t *testing.T) *wsFixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	t0 := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	session := assessment.NewSession(uuid.New(), "student-1", t0)
	repo := assessmenttest.NewMemoryRepository(session)
	events := &securitylogtest.Recorder{}
	clk := clocktest.NewFakeClock(t0)
	terminator := violation.NewTerminator(logger, repo, events, nil, clk)
	registry := proctor.NewRegistry()

	roles := mocks.NewRoleSource(t)
	roles.On("Lookup", mock.Anything, "student-token").
		Return(identity.Principal{UserID: "student-1", Role: identity.RoleStudent}, nil).Maybe()
	roles.On("Lookup", mock.Anything, "intruder-token").
		Return(identity.Principal{UserID: "student-2", Role: identity.RoleStudent}, nil).Maybe()

	deps := proctor.Deps{
		Logger:   logger,
		Events:   events,
		Sessions: repo,
		Recorder: violation.NewPolicy(logger, repo, terminator, 3),
		Roles:    roles,
		Clock:    clk,
		Registry: registry,
		Config:   config.DefaultProctoringConfig(),
	}
	handler := NewProctorHandler(logger, deps, config.WebSocketConfig{PongWait: 5 * time.Second})

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	cfg := &config.Config{WebSocket: config.WebSocketConfig{MaxConnections: 8}}
	app.Use(middleware.NewWebsocketMiddleware(cfg, logger).Middleware())
	app.Get("/ws/proctor", websocket.New(handler.Handle))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return &wsFixture{
		url:      fmt.Sprintf("ws://%s/ws/proctor", ln.Addr().String()),
		events:   events,
		registry: registry,
		session:  session,
	}
}

func readUntil(t *testing.T, conn *gorilla.Conn, typ proctor.MessageType) proctor.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg proctor.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Type == typ {
			return msg
		}
	}
}

func (f *wsFixture) dial(t *testing.T, token string) *gorilla.Conn {
	t.Helper()
	url := f.url
	if token != "" {
		url += "?token=" + token
	}
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestProctorHandler_BlocksShortcutsOnTakingView(t *testing.T) {
	f := startServer(t)
	conn := f.dial(t, "student-token")
	defer conn.Close()

	initial := readUntil(t, conn, proctor.MessageProtection)
	require.NotNil(t, initial.Protection)
	assert.True(t, initial.Protection.ProtectInputDevice)
	assert.False(t, initial.Protection.DetectTabExit)

	path := fmt.Sprintf("/assessment/%s?session=%s", f.session.AssessmentID, f.session.ID)
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "route", "path": path}))

	count := readUntil(t, conn, proctor.MessageWarningCount)
	require.NotNil(t, count.Count)
	assert.Equal(t, 0, *count.Count)
	state := readUntil(t, conn, proctor.MessageProtection)
	assert.True(t, state.Protection.DetectTabExit)
	assert.True(t, state.Protection.WarnBeforeUnload)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": "keydown",
		"id":   "k1",
		"key":  map[string]interface{}{"key": "c", "ctrl": true},
	}))
	notice := readUntil(t, conn, proctor.MessageNotice)
	assert.Equal(t, proctor.NoticeWarning, notice.Level)
	decision := readUntil(t, conn, proctor.MessageDecision)
	assert.Equal(t, "k1", decision.ID)
	require.NotNil(t, decision.Decision)
	assert.True(t, decision.Decision.Prevent)
	assert.Equal(t, securityevent.KindCopyAttempt, decision.Decision.Kind)

	copies := f.events.OfKind(securityevent.KindCopyAttempt)
	require.Len(t, copies, 1)
	require.NotNil(t, copies[0].SessionID)
	assert.Equal(t, f.session.ID, *copies[0].SessionID)
}

func TestProctorHandler_IgnoresGarbage(t *testing.T) {
	f := startServer(t)
	conn := f.dial(t, "")
	defer conn.Close()

	readUntil(t, conn, proctor.MessageProtection)
	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("garbage")))
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "contextmenu", "id": "m1"}))

	decision := readUntil(t, conn, proctor.MessageDecision)
	assert.Equal(t, "m1", decision.ID)
	assert.True(t, decision.Decision.Prevent)
}

func TestProctorHandler_OnlyOwnerEntersSession(t *testing.T) {
	for name, token := range map[string]string{"anonymous": "", "other student": "intruder-token"} {
		t.Run(name, func(t *testing.T) {
			f := startServer(t)
			conn := f.dial(t, token)
			defer conn.Close()

			readUntil(t, conn, proctor.MessageProtection)
			path := fmt.Sprintf("/assessment/%s?session=%s", f.session.AssessmentID, f.session.ID)
			require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "route", "path": path}))
			require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "contextmenu", "id": "m1"}))

			require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
			for {
				_, data, err := conn.ReadMessage()
				require.NoError(t, err)
				var msg proctor.Message
				require.NoError(t, json.Unmarshal(data, &msg))
				require.NotEqual(t, proctor.MessageWarningCount, msg.Type)
				if msg.Type == proctor.MessageProtection {
					assert.False(t, msg.Protection.DetectTabExit)
				}
				if msg.Type == proctor.MessageDecision {
					break
				}
			}
			assert.Equal(t, 0, f.registry.Count(f.session.ID))
		})
	}
}
