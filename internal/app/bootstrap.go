package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"smart-resume-match/internal/config"
	"smart-resume-match/internal/delivery/http/handler"
	"smart-resume-match/internal/delivery/http/middleware"
	"smart-resume-match/internal/delivery/http/routes"
	v1 "smart-resume-match/internal/delivery/http/routes/v1"
	"smart-resume-match/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the Fiber application on top of an initialized container.
func New(c *Container) *App {
	errMw := middleware.NewErrorMiddleware(c.Logger)

	f := fiber.New(fiber.Config{
		AppName:      c.Config.App.AppName,
		BodyLimit:    c.Config.App.BodyLimit,
		ErrorHandler: errMw.Handler(),
	})

	registerGlobalMiddleware(f, c.Logger, errMw)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container, starts the websocket hub and returns the
// application with its cleanup function.
func Bootstrap(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	go c.Hub.Run(hubCtx)

	app := New(c)
	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger, errMw *middleware.ErrorMiddleware) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.Config.App.AppName),
		handler.NewAnalyzeHandler(c.Analyze),
		ws.NewHandler(c.Hub, c.Logger),
		v1.Handlers{
			Skills:        handler.NewSkillHandler(c.Analyze),
			Match:         handler.NewMatchHandler(c.Batches),
			Jobs:          handler.NewJobsHandler(c.Batches),
			Analyses:      handler.NewAnalysisHandler(c.Analyses),
			Notifications: handler.NewNotificationHandler(c.Notifications),
		},
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
