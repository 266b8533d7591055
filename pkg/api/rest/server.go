// Package rest serves the review and recommendation operations over HTTP.
package rest

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/internal/config"
	"github.com/jakechorley/volunteer-platform/pkg/core/services"
	"github.com/jakechorley/volunteer-platform/pkg/db"
)

// Store is every database operation the HTTP API needs
type Store interface {
	db.Transactor
	services.ReviewListStore
	services.ReviewDetailStore
	services.ReviewStatsStore
	services.OrganizationStore
	services.ActivityStore
	services.VolunteerProfileStore
	services.RecommendationStore
	services.ApplicationListStore
	services.NotificationStore
	services.UserStore
	services.ActivityAdminStore
	services.OrganizationListStore
}

// Server is the HTTP API
type Server struct {
	app       *fiber.App
	store     Store
	publisher services.EventPublisher
	cfg       *config.Config
	logger    *zap.Logger
}

// NewServer creates the fiber app and registers every route.
// publisher may be nil, in which case no review events are published.
func NewServer(store Store, publisher services.EventPublisher, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With(zap.String("component", "rest")),
	}

	fiberCfg := fiber.Config{
		AppName:               "volunteer-platform",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	}
	if cfg.Server.BodyLimitBytes > 0 {
		fiberCfg.BodyLimit = cfg.Server.BodyLimitBytes
	}

	s.app = fiber.New(fiberCfg)
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(requestLogger(s.logger))

	origins := cfg.Server.CORSAllowOrigins
	if origins == "" {
		origins = "*"
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Content-Type, Accept, Authorization",
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/", s.healthCheck)

	api := s.app.Group("/api/v1")

	admin := api.Group("/admin", requireAdminToken(s.cfg.Server.AdminAPIToken))
	admin.Get("/reviews", s.listReviews)
	admin.Get("/reviews/stats", s.reviewStats)
	admin.Get("/reviews/:id", s.getReview)
	admin.Put("/reviews/:id", s.decideReview)

	admin.Get("/users", s.listUsers)
	admin.Post("/users", s.createUser)
	admin.Get("/users/:id", s.getUser)
	admin.Put("/users/:id", s.updateUser)
	admin.Delete("/users/:id", s.deleteUser)

	admin.Get("/activities", s.listActivities)
	admin.Post("/activities", s.createActivity)
	admin.Get("/activities/:id", s.getActivity)
	admin.Put("/activities/:id", s.updateActivity)
	admin.Delete("/activities/:id", s.deleteActivity)

	admin.Get("/organizations", s.listOrganizations)

	api.Post("/organizations", s.registerOrganization)
	api.Post("/activities", s.proposeActivity)

	volunteers := api.Group("/volunteers/:id")
	volunteers.Get("/profile", s.getProfile)
	volunteers.Put("/profile", s.updateProfile)
	volunteers.Get("/recommendations", s.recommendations)
	volunteers.Get("/applications", s.listApplications)
	volunteers.Post("/applications", s.apply)
	volunteers.Delete("/applications/:applicationId", s.cancelApplication)

	api.Get("/users/:id/notifications", s.listNotifications)
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) healthCheck(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, fiber.Map{"status": "ok"})
}
