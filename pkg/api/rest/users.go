package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jakechorley/volunteer-platform/pkg/core/services"
)

func (s *Server) listUsers(c *fiber.Ctx) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	result, err := services.ListUsers(c.UserContext(), s.store, s.cfg, s.logger, services.ListUsersParams{
		Search:   c.Query("search"),
		UserType: c.Query("userType"),
		Status:   c.Query("status"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, result)
}

func (s *Server) getUser(c *fiber.Ctx) error {
	detail, err := services.GetUser(c.UserContext(), s.store, s.logger, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, detail)
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var req services.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	detail, err := services.CreateUser(c.UserContext(), s.store, s.logger, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, detail)
}

func (s *Server) updateUser(c *fiber.Ctx) error {
	var req services.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	detail, err := services.UpdateUser(c.UserContext(), s.store, s.logger, c.Params("id"), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, detail)
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := services.DeleteUser(c.UserContext(), s.store, s.logger, id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"id": id, "deleted": true})
}
