package handlers

import (
	"log/slog"

	"github.com/potledger/pokerbot/internal/config"
	"github.com/potledger/pokerbot/internal/game"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Game   *game.Service
}
