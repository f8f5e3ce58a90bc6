package tasks

import (
	"log/slog"

	"github.com/potledger/pokerbot/internal/config"
	"github.com/potledger/pokerbot/internal/database"
)

// TaskDeps provides dependencies for scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
}
