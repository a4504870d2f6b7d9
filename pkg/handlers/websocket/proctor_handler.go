package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/NeuralTrust/ExamWatch/pkg/app/proctor"
	"github.com/NeuralTrust/ExamWatch/pkg/config"
	infraWebsocket "github.com/NeuralTrust/ExamWatch/pkg/infra/websocket"
	"github.com/NeuralTrust/ExamWatch/pkg/server/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

var errConnClosed = errors.New("connection closed")

type proctorHandler struct {
	logger *logrus.Logger
	deps   proctor.Deps
	cfg    config.WebSocketConfig
}

func NewProctorHandler(logger *logrus.Logger, deps proctor.Deps, cfg config.WebSocketConfig) Handler {
	if cfg.PongWait <= 0 {
		cfg.PongWait = 45 * time.Second
	}
	if cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongWait {
		cfg.PingPeriod = cfg.PongWait * 2 / 3
	}
	return &proctorHandler{
		logger: logger,
		deps:   deps,
		cfg:    cfg,
	}
}

// connSender serialises writes; the read loop, the monitor timers and
// the pinger all write to the same connection.
type connSender struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func (s *connSender) Send(msg proctor.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.write(websocket.TextMessage, payload)
}

func (s *connSender) write(messageType int, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errConnClosed
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(messageType, payload)
}

func (s *connSender) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (h *proctorHandler) Handle(c *websocket.Conn) {
	if semaphore, ok := c.Locals(middleware.WsSemaphoreKey).(*infraWebsocket.Semaphore); ok {
		defer semaphore.Release()
	}
	token, _ := c.Locals(middleware.WsTokenKey).(string)

	sender := &connSender{conn: c}
	defer sender.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := proctor.NewMonitor(h.deps, sender, token)
	monitor.Start(ctx)
	defer monitor.Close()

	logger := h.logger.WithField("monitor_id", monitor.ID())
	logger.Debug("proctor connection opened")

	if err := c.SetReadDeadline(time.Now().Add(h.cfg.PongWait)); err != nil {
		logger.WithError(err).Error("failed to set read deadline")
		return
	}
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	go h.ping(ctx, sender, logger)

	decoder := NewSignalDecoder()
	for {
		messageType, frame, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WithError(err).Warn("proctor connection closed unexpectedly")
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		sig, err := decoder.Decode(frame)
		if err != nil {
			logger.WithError(err).Debug("dropping frame")
			continue
		}
		monitor.Handle(ctx, sig)
	}
	logger.Debug("proctor connection closed")
}

func (h *proctorHandler) ping(ctx context.Context, sender *connSender, logger *logrus.Entry) {
	ticker := time.NewTicker(h.cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sender.write(websocket.PingMessage, nil); err != nil {
				if !errors.Is(err, errConnClosed) {
					logger.WithError(err).Debug("failed to send ping")
				}
				return
			}
		}
	}
}
