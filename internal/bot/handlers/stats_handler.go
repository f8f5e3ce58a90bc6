package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStatsHandler returns a handler for the /stats command, which reports
// each player's lifetime profit over all finished sessions of the chat.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Stats handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	msgs := &h.deps.Config.Messages

	profits, err := h.deps.Game.LifetimeProfit(ctx, chatKey(update))
	if err != nil {
		log.ErrorContext(ctx, "Failed to load lifetime profits", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, msgs.GeneralError)
		return
	}

	if len(profits) == 0 {
		sendReply(ctx, b, log, chatID, msgs.NoFinishedGames)
		return
	}

	sendReply(ctx, b, log, chatID, formatTotals(msgs.ProfitHeader, profits))
}
