package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/northstar/internal/profile"
	"github.com/hrygo/northstar/plugin/ai"
	"github.com/hrygo/northstar/plugin/ai/agent"
	"github.com/hrygo/northstar/plugin/ai/timeout"
	apiv1 "github.com/hrygo/northstar/server/router/api/v1"
	"github.com/hrygo/northstar/server/service/conversation"
	"github.com/hrygo/northstar/store"
)

// metricsLogSpec is how often the agent metrics summary is written to the log.
const metricsLogSpec = "@every 1h"

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	metrics    *agent.AgentMetrics
	scheduler  *cron.Cron
}

// NewServer wires the conversation service and the v1 API onto a new Echo instance.
func NewServer(_ context.Context, profile *profile.Profile, store *store.Store, llm ai.LLMService) (*Server, error) {
	s := &Server{
		Profile:   profile,
		Store:     store,
		metrics:   agent.NewAgentMetrics(),
		scheduler: cron.New(),
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.RequestID())
	echoServer.Use(middleware.ContextTimeout(timeout.RequestTimeout))
	s.echoServer = echoServer

	conversationService := conversation.NewService(store, llm,
		conversation.WithMetrics(s.metrics),
		conversation.WithLogger(slog.Default()),
	)
	apiV1Service := apiv1.NewAPIV1Service(profile, store, conversationService)
	apiV1Service.RegisterRoutes(echoServer)

	if _, err := s.scheduler.AddFunc(metricsLogSpec, s.metrics.LogSummary); err != nil {
		return nil, errors.Wrap(err, "failed to schedule metrics summary")
	}
	return s, nil
}

// Run serves HTTP until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	s.scheduler.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("northstar server started", slog.String("address", address), slog.String("mode", s.Profile.Mode))
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "failed to start echo server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.Shutdown(context.Background())
		return nil
	})
	return g.Wait()
}

// Addr returns the bound listener address, or nil before the server is listening.
func (s *Server) Addr() net.Addr {
	return s.echoServer.ListenerAddr()
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, timeout.ShutdownTimeout)
	defer cancel()

	slog.Info("server shutting down")
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	<-s.scheduler.Stop().Done()
	s.metrics.LogSummary()

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", slog.String("error", err.Error()))
	}
	slog.Info("server stopped properly")
}
