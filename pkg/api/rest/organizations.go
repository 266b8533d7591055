package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jakechorley/volunteer-platform/pkg/core/services"
)

func (s *Server) registerOrganization(c *fiber.Ctx) error {
	var req services.RegisterOrganizationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	organization, err := services.RegisterOrganization(c.UserContext(), s.store, s.logger, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, organization)
}

func (s *Server) proposeActivity(c *fiber.Ctx) error {
	var req services.ProposeActivityRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	activity, err := services.ProposeActivity(c.UserContext(), s.store, s.logger, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, activity)
}

// listOrganizations serves a page of organizations, or with simple=true every
// matching organization as an id and name pair
func (s *Server) listOrganizations(c *fiber.Ctx) error {
	if c.QueryBool("simple") {
		options, err := services.ListOrganizationOptions(c.UserContext(), s.store, s.logger, c.Query("search"), c.Query("status"))
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, options)
	}

	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	result, err := services.ListOrganizations(c.UserContext(), s.store, s.cfg, s.logger, services.ListOrganizationsParams{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, result)
}
