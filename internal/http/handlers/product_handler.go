package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Gen1023/financial-products/internal/log"
	"github.com/Gen1023/financial-products/internal/session"
	"github.com/Gen1023/financial-products/internal/validate"
	"github.com/Gen1023/financial-products/internal/views"
)

type ProductHandler struct {
	API      views.ProductAPI
	Sessions *session.Store
}

func (h *ProductHandler) session(c *fiber.Ctx) *session.Session {
	if s, ok := c.Locals(sessionKey).(*session.Session); ok {
		return s
	}
	s := h.Sessions.Acquire(c)
	c.Locals(sessionKey, s)
	return s
}

// formConfirmer approves a delete only when the confirmation form was
// submitted with confirm=yes.
type formConfirmer struct{ c *fiber.Ctx }

func (f formConfirmer) Confirm(context.Context, string) bool {
	return f.c.FormValue("confirm") == "yes"
}

// GET /products
//
// Without a query string the list is entered fresh: state is reset and the
// products are fetched again. Otherwise q, size, page and nav adjust the
// session's view of the last fetch.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	s := h.session(c)
	ctx := c.UserContext()

	s.Lock()
	v := views.NewListView(h.API, s, formConfirmer{c}, s.List)
	args := c.Request().URI().QueryArgs()
	if args.Len() == 0 {
		s.List.Reset()
		v.Load(ctx)
	} else {
		v.EnsureLoaded(ctx)
	}

	if args.Has("q") {
		q, _ := validate.Q(c.Query("q"))
		s.List.SetSearch(q)
	}
	if args.Has("size") {
		n, ok := validate.PageSize(c.Query("size"))
		if !ok || s.List.SetPageSize(n) != nil {
			log.Security(c, "validation.fail", map[string]any{"field": "size", "value": c.Query("size")})
		}
	}
	if args.Has("page") {
		s.List.GoTo(validate.Page(c.Query("page")))
	}
	switch c.Query("nav") {
	case "next":
		s.List.Next()
	case "prev":
		s.List.Prev()
	}
	snap := s.List.Snapshot()
	s.Unlock()

	return render(c, "products", fiber.Map{"Title": "Productos", "List": snap})
}

// GET /products/delete/:id
func (h *ProductHandler) ConfirmDelete(c *fiber.Ctx) error {
	s := h.session(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "id"})
		return NotFound(c, fiber.StatusNotFound, "Este producto ya no está disponible")
	}

	var name string
	s.Lock()
	for _, p := range s.List.Filtered() {
		if p.ID == id {
			name = p.Name
			break
		}
	}
	s.Unlock()

	return render(c, "confirm_delete", fiber.Map{
		"Title":  "Eliminar",
		"ID":     id,
		"Name":   name,
		"Prompt": views.MsgConfirmDelete,
	})
}

// POST /products/delete/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	s := h.session(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "id"})
		return NotFound(c, fiber.StatusNotFound, "Este producto ya no está disponible")
	}

	s.Lock()
	v := views.NewListView(h.API, s, formConfirmer{c}, s.List)
	done, err := v.Delete(c.UserContext(), id)
	page := s.List.Page()
	s.Unlock()

	switch {
	case err != nil:
		log.Error(c, "product.delete.fail", err, map[string]any{"id": id})
	case done:
		log.Audit(c, "product.delete", map[string]any{"id": id})
	}
	return c.Redirect(listURL(page))
}

// listURL returns to the list without resetting the session's view.
func listURL(page int) string {
	return "/products?page=" + strconv.Itoa(page)
}
