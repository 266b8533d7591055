package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jakechorley/volunteer-platform/pkg/core/services"
)

type applyBody struct {
	ActivityID         string `json:"activity_id"`
	ApplicationMessage string `json:"application_message"`
}

func (s *Server) getProfile(c *fiber.Ctx) error {
	profile, err := services.GetVolunteerProfile(c.UserContext(), s.store, s.logger, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, profile)
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	var req services.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	profile, err := services.UpdateVolunteerProfile(c.UserContext(), s.store, s.logger, c.Params("id"), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, profile)
}

func (s *Server) recommendations(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	result, err := services.RecommendActivities(c.UserContext(), s.store, s.cfg, s.logger, c.Params("id"), limit)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, result)
}

func (s *Server) listApplications(c *fiber.Ctx) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	result, err := services.ListVolunteerApplications(c.UserContext(), s.store, s.cfg, s.logger, c.Params("id"), c.Query("type"), page, limit)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, result)
}

func (s *Server) apply(c *fiber.Ctx) error {
	var body applyBody
	if err := parseBody(c, &body); err != nil {
		return err
	}

	application, err := services.ApplyToActivity(c.UserContext(), s.store, s.logger, c.Params("id"), body.ActivityID, body.ApplicationMessage)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, application)
}

func (s *Server) cancelApplication(c *fiber.Ctx) error {
	err := services.CancelApplication(c.UserContext(), s.store, s.logger, c.Params("id"), c.Params("applicationId"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"id": c.Params("applicationId"), "cancelled": true})
}
