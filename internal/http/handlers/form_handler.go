package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Gen1023/financial-products/internal/log"
	"github.com/Gen1023/financial-products/internal/validate"
	"github.com/Gen1023/financial-products/internal/views"
)

func formData(title, action string, editing bool, form views.ProductForm, errs validate.FieldErrors) fiber.Map {
	if errs == nil {
		errs = validate.FieldErrors{}
	}
	return fiber.Map{
		"Title":   title,
		"Action":  action,
		"Editing": editing,
		"Form":    form,
		"Errors":  errs,
		"IDHint":  validate.IDRule,
	}
}

func errorFields(errs validate.FieldErrors) []string {
	out := make([]string, 0, len(errs))
	for f := range errs {
		out = append(out, f)
	}
	return out
}

// GET /products/create
func (h *ProductHandler) CreateForm(c *fiber.Ctx) error {
	h.session(c)
	return render(c, "product_form", formData("Crear", "/products/create", false, views.ProductForm{}, nil))
}

// POST /products/create
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	s := h.session(c)
	var form views.ProductForm
	if err := c.BodyParser(&form); err != nil {
		log.Security(c, "validation.fail", map[string]any{"form": "product_create"})
		return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Formulario inválido"}, layout)
	}

	res := views.NewCreateView(h.API, s).Submit(c.UserContext(), form)
	switch {
	case res.Invalid():
		log.Security(c, "validation.fail", map[string]any{"form": "product_create", "fields": errorFields(res.Errors)})
		c.Status(fiber.StatusBadRequest)
		return render(c, "product_form", formData("Crear", "/products/create", false, res.Form, res.Errors))
	case res.Err != nil:
		log.Error(c, "product.create.fail", res.Err, map[string]any{"id": form.ID})
		c.Status(fiber.StatusBadGateway)
		return render(c, "product_form", formData("Crear", "/products/create", false, res.Form, nil))
	}
	log.Audit(c, "product.create", map[string]any{"id": res.Form.Product().ID})
	return c.Redirect("/products")
}

// GET /products/edit/:id
func (h *ProductHandler) EditForm(c *fiber.Ctx) error {
	s := h.session(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "id"})
		s.Notify(c.UserContext(), views.MsgLoadFailed)
		return c.Redirect("/products")
	}

	form, next, err := views.NewEditView(h.API, s).Load(c.UserContext(), id)
	if next == views.GoList {
		log.Error(c, "product.load.fail", err, map[string]any{"id": id})
		return c.Redirect("/products")
	}
	return render(c, "product_form", formData("Editar", "/products/edit/"+id, true, form, nil))
}

// POST /products/edit/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	s := h.session(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "id"})
		return NotFound(c, fiber.StatusNotFound, "Este producto ya no está disponible")
	}
	var form views.ProductForm
	if err := c.BodyParser(&form); err != nil {
		log.Security(c, "validation.fail", map[string]any{"form": "product_edit"})
		return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Formulario inválido"}, layout)
	}

	action := "/products/edit/" + id
	res := views.NewEditView(h.API, s).Submit(c.UserContext(), id, form)
	switch {
	case res.Invalid():
		log.Security(c, "validation.fail", map[string]any{"form": "product_edit", "fields": errorFields(res.Errors)})
		c.Status(fiber.StatusBadRequest)
		return render(c, "product_form", formData("Editar", action, true, res.Form, res.Errors))
	case res.Err != nil:
		log.Error(c, "product.update.fail", res.Err, map[string]any{"id": id})
		c.Status(fiber.StatusBadGateway)
		return render(c, "product_form", formData("Editar", action, true, res.Form, nil))
	}
	log.Audit(c, "product.update", map[string]any{"id": id})
	return c.Redirect("/products")
}
