package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Gen1023/financial-products/internal/session"
)

const (
	layout     = "layouts/main"
	sessionKey = "session"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Pending notifications are shown once, on whatever page renders next
	if s, ok := c.Locals(sessionKey).(*session.Session); ok {
		data["Flashes"] = s.Flashes()
	}
	// Pick up the token the CSRF middleware put into Locals
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data, layout)
}

// NotFound renders the friendly error page with the given status.
func NotFound(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render("notfound", fiber.Map{"Message": msg}, layout)
}
