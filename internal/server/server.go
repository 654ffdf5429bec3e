// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/mlingest/internal/destination"
	"github.com/mia-platform/mlingest/internal/info"
	"github.com/mia-platform/mlingest/internal/located"
	"github.com/mia-platform/mlingest/internal/logger"
)

const (
	serviceName = "mlingest"
	loggerName  = "mlingest:server"

	busyMessage = "an ingestion run is already in progress"
)

// Runner executes a complete ingestion run.
type Runner interface {
	Run(ctx context.Context) (*destination.Data, error)
}

type Server interface {
	Start() error
	Stop() error
	StartAsync(ctx context.Context)
}

type impServer struct {
	config

	app    *fiber.App
	runner Runner

	// runLock serializes ingestion runs, they all write the same output files.
	runLock sync.Mutex
}

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

// NewServer returns a Server exposing the status routes and a route that triggers runner.
func NewServer(ctx context.Context, runner Runner) (Server, error) {
	cfg, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	return newServer(ctx, *cfg, runner), nil
}

func newServer(ctx context.Context, cfg config, runner Runner) *impServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.DisableStartupMessage,
	})
	log := logger.FromContext(ctx)
	app.Use(logger.RequestMiddlewareLogger(log, []string{"/-/"}))

	statusRoutes(app, serviceName, info.Version)

	s := &impServer{
		config: cfg,
		app:    app,
		runner: runner,
	}
	app.Post(ingestionsPath, s.ingestionHandler)
	return s
}

// ingestionHandler runs a new ingestion and replies with the handed over artifacts.
func (s *impServer) ingestionHandler(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := logger.FromContext(ctx).WithName(loggerName)

	if !s.runLock.TryLock() {
		log.Warn("rejecting ingestion request", "reason", busyMessage)
		return errorResponse(c, http.StatusConflict, busyMessage)
	}
	defer s.runLock.Unlock()

	data, err := s.runner.Run(ctx)
	if err != nil {
		args := append([]any{"error", err.Error()}, located.LogArgs(err)...)
		log.Error("ingestion run failed", args...)
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(data)
}

func (s *impServer) Start() error {
	if err := s.app.Listen(fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *impServer) Stop() error {
	if err := s.app.Shutdown(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerShutdown, err)
	}
	return nil
}

func (s *impServer) StartAsync(ctx context.Context) {
	log := logger.FromContext(ctx).WithName(loggerName)
	go func() {
		if err := s.Start(); err != nil {
			log.Error(err.Error())
		}
	}()
}
