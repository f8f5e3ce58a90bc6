package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler bundles a command handler with the information needed to
// register it.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns the map of all bot commands.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	command := func(pattern string, handler tgbot.HandlerFunc) RegisteredHandler {
		return RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     handler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
		}
	}

	handlers["/start"] = command("start", NewStartHandler(deps))
	handlers["/buy"] = command("buy", NewBuyInHandler(deps))
	handlers["/quit"] = command("quit", NewCashOutHandler(deps))
	handlers["/status"] = command("status", NewStatusHandler(deps))
	handlers["/stop"] = command("stop", NewStopHandler(deps))
	handlers["/undo"] = command("undo", NewUndoHandler(deps))
	handlers["/actions"] = command("actions", NewActionsHandler(deps))
	handlers["/stats"] = command("stats", NewStatsHandler(deps))
	handlers["/help"] = command("help", NewHelpHandler(deps))

	return handlers
}
