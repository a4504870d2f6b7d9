package dependency_container

import (
	"fmt"
	"reflect"

	"github.com/NeuralTrust/ExamWatch/pkg/app/proctor"
	"github.com/NeuralTrust/ExamWatch/pkg/app/role"
	"github.com/NeuralTrust/ExamWatch/pkg/app/securitylog"
	"github.com/NeuralTrust/ExamWatch/pkg/app/session"
	"github.com/NeuralTrust/ExamWatch/pkg/app/violation"
	"github.com/NeuralTrust/ExamWatch/pkg/config"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/assessment"
	"github.com/NeuralTrust/ExamWatch/pkg/domain/securityevent"
	domainTelemetry "github.com/NeuralTrust/ExamWatch/pkg/domain/telemetry"
	handlers "github.com/NeuralTrust/ExamWatch/pkg/handlers/http"
	wsHandlers "github.com/NeuralTrust/ExamWatch/pkg/handlers/websocket"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/event"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/subscriber"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/clock"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/database"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/repository"
	infraTelemetry "github.com/NeuralTrust/ExamWatch/pkg/infra/telemetry"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/telemetry/kafka"
	"github.com/NeuralTrust/ExamWatch/pkg/server/middleware"
	"github.com/sirupsen/logrus"
)

type Container struct {
	Cache                  cache.Client
	HandlerTransport       handlers.HandlerTransport
	WSHandlerTransport     wsHandlers.HandlerTransport
	RedisListener          cache.EventListener
	RedisPublisher         cache.EventPublisher
	PanicRecoverMiddleware middleware.Middleware
	AdminAuthMiddleware    middleware.Middleware
	IdentityMiddleware     middleware.Middleware
	MetricsMiddleware      middleware.Middleware
	WebSocketMiddleware    middleware.Middleware
	SessionRepository      assessment.Repository
	EventRepository        securityevent.Repository
	SecurityLog            securitylog.Service
	RoleCache              *role.RoleCache
	MonitorRegistry        *proctor.Registry
	JWTManager             jwt.Manager
}

type ContainerDI struct {
	Cfg            *config.Config
	Logger         *logrus.Logger
	DB             *database.DB
	EventsRegistry map[string]reflect.Type
	Clock          clock.Clock
}

func NewContainer(di ContainerDI) (*Container, error) {
	clk := di.Clock
	if clk == nil {
		clk = clock.New()
	}

	cacheConfig := cache.Config{
		Host:     di.Cfg.Redis.Host,
		Port:     di.Cfg.Redis.Port,
		Password: di.Cfg.Redis.Password,
		DB:       di.Cfg.Redis.DB,
		TLS:      di.Cfg.Redis.TLS,
	}
	cacheInstance, err := cache.NewClient(cacheConfig, di.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %v", err)
	}

	redisPublisher := cache.NewRedisEventPublisher(cacheInstance)
	redisListener := cache.NewRedisEventListener(di.Logger, cacheInstance, di.EventsRegistry)

	// repository
	sessionRepository := repository.NewSessionRepository(di.DB.DB)
	eventRepository := repository.NewSecurityEventRepository(di.DB.DB)

	// security log
	sinks := []securitylog.Sink{securitylog.NewRepositorySink(eventRepository)}
	exporterLocator := infraTelemetry.NewExporterLocator(
		infraTelemetry.WithExporter(kafka.ExporterName, kafka.NewKafkaExporter()),
	)
	if di.Cfg.Kafka.Enabled {
		exporter, err := exporterLocator.GetExporter(domainTelemetry.ExporterConfig{
			Name: kafka.ExporterName,
			Settings: map[string]interface{}{
				"host":  di.Cfg.Kafka.Host,
				"port":  di.Cfg.Kafka.Port,
				"topic": di.Cfg.Kafka.Topic,
			},
		})
		if err != nil {
			di.Logger.WithError(err).Warn("failed to initialize kafka exporter, security events will only be stored")
		} else {
			sinks = append(sinks, securitylog.NewExporterSink(exporter))
		}
	}
	securityLog := securitylog.NewService(di.Logger, securitylog.Config{
		QueueSize:          di.Cfg.SecurityLog.QueueSize,
		BreakerTimeout:     di.Cfg.SecurityLog.BreakerTimeout,
		BreakerMaxFailures: di.Cfg.SecurityLog.BreakerMaxFailures,
	}, sinks...)
	securityLog.StartWorkers(di.Cfg.SecurityLog.Workers)

	// identity
	jwtManager := jwt.NewJwtManager(&di.Cfg.Server)
	roleCache := role.NewRoleCache(
		di.Logger,
		jwt.NewResolver(jwtManager),
		cacheInstance.CreateTTLMap(cache.RoleTTLName, di.Cfg.RoleCache.TTL),
		redisPublisher,
	)

	// proctoring
	terminator := violation.NewTerminator(di.Logger, sessionRepository, securityLog, redisPublisher, clk)
	policy := violation.NewPolicy(di.Logger, sessionRepository, terminator, di.Cfg.Proctoring.MaxViolations)
	starter := session.NewStarter(di.Logger, sessionRepository, securityLog, clk)
	canceller := session.NewCanceller(di.Logger, sessionRepository, terminator)
	monitorRegistry := proctor.NewRegistry()

	// subscribers
	sessionTerminatedSubscriber := subscriber.NewSessionTerminatedEventSubscriber(di.Logger, monitorRegistry)
	roleInvalidatedSubscriber := subscriber.NewRoleInvalidatedEventSubscriber(di.Logger, roleCache)

	cache.RegisterEventSubscriber[event.SessionTerminatedEvent](redisListener, sessionTerminatedSubscriber)
	cache.RegisterEventSubscriber[event.RoleInvalidatedEvent](redisListener, roleInvalidatedSubscriber)

	// WebSocket handler transport
	wsHandlerTransport := &wsHandlers.HandlerTransportDTO{
		ProctorHandler: wsHandlers.NewProctorHandler(
			di.Logger,
			proctor.Deps{
				Logger:   di.Logger,
				Events:   securityLog,
				Sessions: sessionRepository,
				Recorder: policy,
				Roles:    roleCache,
				Clock:    clk,
				Registry: monitorRegistry,
				Config:   di.Cfg.Proctoring,
			},
			di.Cfg.WebSocket,
		),
	}

	// Handler Transport
	handlerTransport := &handlers.HandlerTransportDTO{
		// Proctor
		GetGuardRulesHandler:      handlers.NewGetGuardRulesHandler(di.Cfg.Proctoring),
		StartSessionHandler:       handlers.NewStartSessionHandler(di.Logger, starter),
		GetWarningsHandler:        handlers.NewGetWarningsHandler(di.Logger, sessionRepository, di.Cfg.Proctoring.MaxViolations),
		ReportViolationHandler:    handlers.NewReportViolationHandler(di.Logger, sessionRepository, policy),
		CancelSessionHandler:      handlers.NewCancelSessionHandler(di.Logger, canceller),
		LogSecurityEventHandler:   handlers.NewLogSecurityEventHandler(di.Logger, securityLog, clk),
		GetProtectionStateHandler: handlers.NewGetProtectionStateHandler(di.Logger, sessionRepository),
		// Admin
		GetSessionHandler:        handlers.NewGetSessionHandler(di.Logger, sessionRepository),
		ListSessionEventsHandler: handlers.NewListSessionEventsHandler(di.Logger, eventRepository),
		InvalidateRoleHandler:    handlers.NewInvalidateRoleHandler(di.Logger, roleCache),
		// Version
		GetVersionHandler: handlers.NewGetVersionHandler(di.Logger),
	}

	container := &Container{
		Cache:                  cacheInstance,
		RedisListener:          redisListener,
		RedisPublisher:         redisPublisher,
		HandlerTransport:       handlerTransport,
		WSHandlerTransport:     wsHandlerTransport,
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(di.Logger),
		AdminAuthMiddleware:    middleware.NewAdminAuthMiddleware(di.Logger, roleCache),
		IdentityMiddleware:     middleware.NewIdentityMiddleware(di.Logger, roleCache),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(di.Logger),
		WebSocketMiddleware:    middleware.NewWebsocketMiddleware(di.Cfg, di.Logger),
		SessionRepository:      sessionRepository,
		EventRepository:        eventRepository,
		SecurityLog:            securityLog,
		RoleCache:              roleCache,
		MonitorRegistry:        monitorRegistry,
		JWTManager:             jwtManager,
	}

	return container, nil
}
