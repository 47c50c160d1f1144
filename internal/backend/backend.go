// Package backend serves the products REST API from SQLite, so the front end
// can run without the external service.
package backend

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/Gen1023/financial-products/internal/domain"
	applog "github.com/Gen1023/financial-products/internal/log"
	"github.com/Gen1023/financial-products/internal/repos"
	"github.com/Gen1023/financial-products/internal/services"
	"github.com/Gen1023/financial-products/internal/validate"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Name    string               `json:"name"`
	Message string               `json:"message"`
	Errors  validate.FieldErrors `json:"errors,omitempty"`
}

type Handler struct {
	Catalog *services.CatalogService
}

func NewApp(catalog *services.CatalogService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(applog.Middleware())
	app.Use(cors.New())

	h := &Handler{Catalog: catalog}
	bp := app.Group("/bp")
	bp.Get("/products", h.List)
	bp.Post("/products", h.Create)
	bp.Get("/products/verification/:id", h.Verify)
	bp.Get("/products/:id", h.Get)
	bp.Put("/products/:id", h.Update)
	bp.Delete("/products/:id", h.Delete)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "backend.error", err, nil)
		return c.Status(code).JSON(ErrorBody{Name: "InternalServerError", Message: "Unexpected error"})
	}
	return c.Status(code).JSON(ErrorBody{Name: "Error", Message: err.Error()})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorBody{
		Name:    "NotFound",
		Message: "Not product found with that identifier",
	})
}

func badRequest(c *fiber.Ctx, msg string, errs validate.FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Name: "BadRequest", Message: msg, Errors: errs})
}

// writeErr maps catalog errors to responses.
func writeErr(c *fiber.Ctx, err error) error {
	var fe validate.FieldErrors
	switch {
	case errors.As(err, &fe):
		applog.Security(c, "validation.fail", map[string]any{"fields": len(fe)})
		return badRequest(c, "Invalid body, check 'errors' property for more info.", fe)
	case errors.Is(err, repos.ErrDuplicate):
		return badRequest(c, "Duplicate identifier found in the database", nil)
	case errors.Is(err, repos.ErrNotFound):
		return notFound(c)
	default:
		return err
	}
}

// GET /bp/products
func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.Catalog.ListProducts()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// GET /bp/products/:id
func (h *Handler) Get(c *fiber.Ctx) error {
	p, err := h.Catalog.GetProduct(c.Params("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(p)
}

// GET /bp/products/verification/:id reports whether the id is taken.
func (h *Handler) Verify(c *fiber.Ctx) error {
	ok, err := h.Catalog.Prods.Exists(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ok)
}

// POST /bp/products
func (h *Handler) Create(c *fiber.Ctx) error {
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "Invalid body", nil)
	}
	created, err := h.Catalog.CreateProduct(p)
	if err != nil {
		return writeErr(c, err)
	}
	applog.Audit(c, "backend.product.create", map[string]any{"id": created.ID})
	return c.JSON(fiber.Map{"message": "Product added successfully", "data": created})
}

// PUT /bp/products/:id
func (h *Handler) Update(c *fiber.Ctx) error {
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "Invalid body", nil)
	}
	updated, err := h.Catalog.UpdateProduct(c.Params("id"), p)
	if err != nil {
		return writeErr(c, err)
	}
	applog.Audit(c, "backend.product.update", map[string]any{"id": updated.ID})
	return c.JSON(fiber.Map{"message": "Product updated successfully", "data": updated})
}

// DELETE /bp/products/:id
func (h *Handler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.DeleteProduct(id); err != nil {
		return writeErr(c, err)
	}
	applog.Audit(c, "backend.product.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"message": "Product removed successfully"})
}
