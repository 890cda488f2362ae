package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/sesrelay/pkg/config"
	"github.com/Abraxas-365/sesrelay/pkg/logx"
	"github.com/Abraxas-365/sesrelay/pkg/mailx/mailxapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Environment: .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logx.Warnf("Could not load .env: %v", err)
	}

	logx.Info("🚀 Starting SES relay...")

	// 2. Configuration
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}

	// 3. Dependency container
	container := NewContainer(context.Background(), cfg)

	// 4. Fiber app
	app := newApp(container)

	// 5. Start with graceful shutdown
	startServer(app, cfg.Server)
}

func newApp(container *Container) *fiber.App {
	cfg := container.Config.Server

	app := fiber.New(fiber.Config{
		AppName:               "SES Relay",
		DisableStartupMessage: true,
		ErrorHandler:          mailxapi.ErrorHandler,
		BodyLimit:             cfg.BodyLimit,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${respHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	app.Get("/health", healthCheckHandler(container))
	app.Get("/", infoHandler)

	container.EmailHandlers.RegisterRoutes(app)
	logx.Infof("✓ Email routes registered under %s", mailxapi.RoutePrefix)

	app.Use(notFoundHandler)

	return app
}

// healthCheckHandler reports provider and attachment store status
func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := fiber.Map{
			"status":   "healthy",
			"service":  "sesrelay",
			"provider": container.Config.AWSEmail.Provider,
			"storage":  container.Config.Storage.Mode,
		}

		// Probing the store can be slow on S3, so it is opt-in
		if c.QueryBool("check_storage", false) {
			if err := container.FileStore.HealthCheck(c.UserContext()); err != nil {
				health["storage_status"] = "unhealthy"
				health["storage_error"] = err.Error()
				health["status"] = "degraded"
			} else {
				health["storage_status"] = "healthy"
			}
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

func infoHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":     "SES Relay",
		"description": "Forwards email send requests to AWS SES as raw MIME messages",
		"endpoints": fiber.Map{
			"test_email":           "GET " + mailxapi.RoutePrefix + "?recipient=a@x.com;b@x.com",
			"attachment_upload":    "POST " + mailxapi.RoutePrefix + "/attachment",
			"attachment_file_path": "POST " + mailxapi.RoutePrefix + "/attachment/filepath",
			"health":               "GET /health",
		},
	})
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
	})
}

func startServer(app *fiber.App, cfg config.ServerConfig) {
	go func() {
		logx.Infof("🚀 Server listening on %s", cfg.Address())
		if err := app.Listen(cfg.Address()); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logx.Infof("🛑 Received signal: %v", sig)

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}
	logx.Info("✅ Server exited")
}
