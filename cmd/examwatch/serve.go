package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralTrust/ExamWatch/pkg/config"
	"github.com/NeuralTrust/ExamWatch/pkg/dependency_container"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/channel"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/event"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/database"
	infraLogger "github.com/NeuralTrust/ExamWatch/pkg/infra/logger"
	_ "github.com/NeuralTrust/ExamWatch/pkg/infra/migrations"
	"github.com/NeuralTrust/ExamWatch/pkg/server"
	"github.com/NeuralTrust/ExamWatch/pkg/server/middleware"
	"github.com/NeuralTrust/ExamWatch/pkg/server/router"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	serverTypeAdmin   = "admin"
	serverTypeProctor = "proctor"
)

var serveMigrate bool

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.AddCommand(serveAdminCmd, serveProctorCmd)
	serveAdminCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply pending migrations before serving")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start one of the ExamWatch servers",
}

var serveAdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Start the admin API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(serverTypeAdmin)
	},
}

var serveProctorCmd = &cobra.Command{
	Use:   "proctor",
	Short: "Start the student proctoring server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(serverTypeProctor)
	},
}

func openDatabase(logger *logrus.Logger, cfg *config.Config) (*database.DB, error) {
	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func runServer(serverType string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := infraLogger.NewLogger(serverType)
	cfg := config.GetConfig()
	cfg.Server.Type = serverType

	db, err := openDatabase(logger, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if serverType == serverTypeAdmin && serveMigrate {
		if err := db.Migrate(migrateTimeout); err != nil {
			return err
		}
	}

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:            cfg,
		Logger:         logger,
		DB:             db,
		EventsRegistry: event.Registry,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer container.SecurityLog.Shutdown()

	go func() {
		logger.Info("starting listening redis events...")
		container.RedisListener.Listen(ctx, channel.SessionEventsChannel, channel.IdentityEventsChannel)
	}()

	srv := initializeServer(serverType, cfg, logger, container)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	logger.Info("server gracefully stopped")
	return nil
}

func initializeServer(
	serverType string,
	cfg *config.Config,
	logger *logrus.Logger,
	container *dependency_container.Container,
) server.Server {
	switch serverType {
	case serverTypeAdmin:
		adminRouter := router.NewAdminRouter(
			middleware.NewTransport(container.PanicRecoverMiddleware),
			container.AdminAuthMiddleware,
			container.HandlerTransport,
		)
		return server.NewAdminServer(server.AdminServerDI{
			Config:  cfg,
			Logger:  logger,
			Routers: []router.ServerRouter{adminRouter},
		})
	default:
		proctorRouter := router.NewProctorRouter(
			middleware.NewTransport(
				container.PanicRecoverMiddleware,
				container.MetricsMiddleware,
				container.IdentityMiddleware,
				container.WebSocketMiddleware,
			),
			container.HandlerTransport,
			container.WSHandlerTransport,
		)
		return server.NewProctorServer(server.ProctorServerDI{
			Config:  cfg,
			Logger:  logger,
			Routers: []router.ServerRouter{proctorRouter},
		})
	}
}
