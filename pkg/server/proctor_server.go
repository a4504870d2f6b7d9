package server

import (
	"fmt"

	"github.com/NeuralTrust/ExamWatch/pkg/config"
	"github.com/NeuralTrust/ExamWatch/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	ProctorServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	ProctorServer struct {
		*BaseServer
	}
)

func NewProctorServer(di ProctorServerDI) *ProctorServer {
	s := &ProctorServer{
		BaseServer: NewBaseServer(di.Config, di.Logger),
	}
	s.setupHealthCheck()
	s.WithRouters(di.Routers...)
	s.setupMetricsEndpoint()
	return s
}

func (s *ProctorServer) Run() error {
	addr := fmt.Sprintf(":%d", s.Config.Server.ProctorPort)
	s.Logger.WithField("addr", addr).Info("Starting proctor server")
	return s.Router.Listen(addr)
}

func (s *ProctorServer) Shutdown() error {
	s.shutdownMetrics()
	return s.Router.Shutdown()
}
