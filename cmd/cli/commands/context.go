package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/internal/config"
	"github.com/jakechorley/volunteer-platform/pkg/clients/eventsclient"
	"github.com/jakechorley/volunteer-platform/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database *postgres.DB
	// Events is nil when no Kafka brokers are configured
	Events *eventsclient.Producer
	Logger *zap.Logger
	Ctx    context.Context
}
