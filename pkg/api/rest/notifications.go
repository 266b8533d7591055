package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jakechorley/volunteer-platform/pkg/core/services"
)

func (s *Server) listNotifications(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	notifications, err := services.ListNotifications(c.UserContext(), s.store, s.logger, c.Params("id"), limit)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, notifications)
}
