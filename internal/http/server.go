// Package http assembles the fiber app for the products front end: views,
// middleware and the route table.
package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"github.com/Gen1023/financial-products/internal/config"
	"github.com/Gen1023/financial-products/internal/http/handlers"
	applog "github.com/Gen1023/financial-products/internal/log"
	"github.com/Gen1023/financial-products/internal/metrics"
	"github.com/Gen1023/financial-products/web"
)

const friendlyError = "Algo salió mal. Intente de nuevo."

// ErrorHandler logs the error and shows a friendly page without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	msg := friendlyError
	if code == fiber.StatusNotFound {
		msg = "Página no encontrada"
	} else {
		applog.Error(c, "server.error", err, nil)
	}
	if rerr := handlers.NotFound(c, code, msg); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// NewApp builds the UI server. A nil engine uses the templates from
// cfg.TemplatesDir, or the embedded ones when that is empty.
func NewApp(cfg config.Config, deps *handlers.Deps, engine *html.Engine) *fiber.App {
	if engine == nil {
		engine = web.Engine(cfg.TemplatesDir)
	}
	app := fiber.New(fiber.Config{
		Views:                 engine,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
		// request strings outlive the request in the session list state
		Immutable:             true,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(applog.Middleware())
	app.Use(metrics.Middleware())
	app.Use(helmet.New(helmet.Config{
		// product logos are arbitrary remote URLs
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	if cfg.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				p := c.Path()
				return strings.HasPrefix(p, "/static/") || p == "/healthz" || p == "/metrics"
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.hit", nil)
				return handlers.NotFound(c, fiber.StatusTooManyRequests, "Demasiadas solicitudes. Intente más tarde.")
			},
		}))
	}
	if cfg.CSRF {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "form:csrf",
			CookieName:     "csrf_",
			CookieSameSite: "Lax",
			CookieSecure:   cfg.Env == "production",
			ContextKey:     "csrf",
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
				return handlers.NotFound(c, fiber.StatusForbidden, "Falló la verificación de seguridad. Recargue la página e intente de nuevo.")
			},
		}))
		app.Use(func(c *fiber.Ctx) error {
			if tok, ok := c.Locals("csrf").(string); ok {
				c.Locals("CSRFToken", tok)
			}
			return c.Next()
		})
	}

	app.Use("/static", web.Static())
	Routes(app, deps)
	return app
}

// Routes registers the page routes, health, metrics and the 404 fallback.
func Routes(app *fiber.App, deps *handlers.Deps) {
	ph := deps.ProductHandler

	if deps.Landing == config.LandingList {
		app.Get("/", ph.List)
	} else {
		app.Get("/", deps.HomeHandler.Home)
	}

	app.Get("/products", ph.List)
	app.Get("/products/create", ph.CreateForm)
	app.Post("/products/create", ph.Create)
	app.Get("/products/edit/:id", ph.EditForm)
	app.Post("/products/edit/:id", ph.Update)
	app.Get("/products/delete/:id", ph.ConfirmDelete)
	app.Post("/products/delete/:id", ph.Delete)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", metrics.Handler())

	app.Use(func(c *fiber.Ctx) error {
		return handlers.NotFound(c, fiber.StatusNotFound, "Página no encontrada")
	})
}
