package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jakechorley/volunteer-platform/pkg/core/services"
)

type decideReviewBody struct {
	Type          string `json:"type"`
	Action        string `json:"action"`
	ReviewMessage string `json:"review_message"`
}

func (s *Server) listReviews(c *fiber.Ctx) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	result, err := services.ListPendingReviews(c.UserContext(), s.store, s.cfg, s.logger, services.ListReviewsParams{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, result)
}

func (s *Server) reviewStats(c *fiber.Ctx) error {
	stats, err := services.GetReviewStats(c.UserContext(), s.store, s.logger)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, stats)
}

func (s *Server) getReview(c *fiber.Ctx) error {
	detail, err := services.GetReviewDetail(c.UserContext(), s.store, s.logger, c.Query("type"), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, detail)
}

func (s *Server) decideReview(c *fiber.Ctx) error {
	var body decideReviewBody
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if body.Type == "" {
		body.Type = c.Query("type")
	}

	result, err := services.DecideReview(c.UserContext(), s.store, s.publisher, s.logger, services.DecisionRequest{
		Type:    body.Type,
		ID:      c.Params("id"),
		Action:  body.Action,
		Message: body.ReviewMessage,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, result)
}
