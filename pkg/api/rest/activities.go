package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jakechorley/volunteer-platform/pkg/core/services"
)

func (s *Server) listActivities(c *fiber.Ctx) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	result, err := services.ListActivities(c.UserContext(), s.store, s.cfg, s.logger, services.ListActivitiesParams{
		Search:         c.Query("search"),
		Category:       c.Query("category"),
		Status:         c.Query("status"),
		OrganizationID: c.Query("organizationId"),
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, result)
}

func (s *Server) getActivity(c *fiber.Ctx) error {
	activity, err := services.GetActivity(c.UserContext(), s.store, s.logger, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, activity)
}

func (s *Server) createActivity(c *fiber.Ctx) error {
	var req services.CreateActivityRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	activity, err := services.CreateActivity(c.UserContext(), s.store, s.logger, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, activity)
}

func (s *Server) updateActivity(c *fiber.Ctx) error {
	var req services.UpdateActivityRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	activity, err := services.UpdateActivity(c.UserContext(), s.store, s.logger, c.Params("id"), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, activity)
}

func (s *Server) deleteActivity(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := services.DeleteActivity(c.UserContext(), s.store, s.logger, id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"id": id, "deleted": true})
}
