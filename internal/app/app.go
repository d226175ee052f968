package app

import (
	"time"

	"todoapp/internal/handlers"
	"todoapp/internal/middleware"
	"todoapp/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Options configures the HTTP surface built by New.
type Options struct {
	AuthService      *services.AuthService
	TodoService      *services.TodoService
	CORSAllowOrigins string
	// DisableRequestLog turns off the per-request access log.
	DisableRequestLog bool
}

// New builds the Fiber app with its middleware stack and every route.
func New(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "todoapp",
	})

	app.Use(recover.New())
	if !opts.DisableRequestLog {
		app.Use(logger.New())
	}

	origins := opts.CORSAllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	requireAuth := middleware.AuthRequired(opts.AuthService)
	handlers.NewAuthHandler(opts.AuthService).RegisterRoutes(app, requireAuth)
	handlers.NewTodoHandler(opts.TodoService).RegisterRoutes(app, requireAuth)

	return app
}
