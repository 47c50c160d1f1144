package handlers

import "github.com/gofiber/fiber/v2"

type HomeHandler struct{}

func (h *HomeHandler) Home(c *fiber.Ctx) error {
	return render(c, "home", fiber.Map{"Title": "Inicio"})
}
