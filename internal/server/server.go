package server

import (
	"context"

	"mental-health-agent-be/internal/bootstrap"
	"mental-health-agent-be/internal/config"
	"mental-health-agent-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiberConfig(cfg))

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS",
		// empty mirrors Access-Control-Request-Headers, i.e. any header
		AllowHeaders: "",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	// Routes
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

// fiberConfig honors the proxy header only from TrustedProxies, and only when
// it carries a well-formed IP; otherwise the socket address is used.
func fiberConfig(cfg *config.Config) fiber.Config {
	fiberCfg := fiber.Config{
		BodyLimit:             64 * 1024,
		DisableStartupMessage: cfg.App.Environment == "production",
	}
	if cfg.App.ProxyHeader != "" {
		fiberCfg.ProxyHeader = cfg.App.ProxyHeader
		fiberCfg.EnableTrustedProxyCheck = true
		fiberCfg.TrustedProxies = cfg.App.TrustedProxies
		fiberCfg.EnableIPValidation = true
	}
	return fiberCfg
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("SERVER", "Server is running", map[string]interface{}{
		"addr": "http://localhost:" + s.cfg.App.Port,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.ChatController.RegisterRoutes(api)
}
