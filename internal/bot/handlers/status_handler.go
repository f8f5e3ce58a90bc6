package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	apperr "github.com/potledger/pokerbot/internal/errors"
)

// NewStatusHandler returns a handler for the /status command, which reports
// the open session's bank size and per-user buy-in/cash-out totals.
func NewStatusHandler(deps HandlerDeps) bot.HandlerFunc {
	return statusHandler{deps}.Handle
}

type statusHandler struct {
	deps HandlerDeps
}

func (h statusHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "status")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Status handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	chat := chatKey(update)
	msgs := &h.deps.Config.Messages

	totalBuyIn, err := h.deps.Game.TotalBuyIn(ctx, chat)
	if err != nil {
		if apperr.Code(err) == apperr.CodeNotFound {
			sendReply(ctx, b, log, chatID, msgs.NotRunning)
			return
		}
		log.ErrorContext(ctx, "Failed to load buy-in totals", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, msgs.GeneralError)
		return
	}

	totalCashOut, err := h.deps.Game.TotalCashOut(ctx, chat)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load cash-out totals", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, msgs.GeneralError)
		return
	}

	bank, err := h.deps.Game.BankSize(ctx, chat)
	if err != nil {
		log.ErrorContext(ctx, "Failed to compute bank size", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, msgs.GeneralError)
		return
	}

	sendReply(ctx, b, log, chatID, formatSummary(msgs, totalBuyIn, totalCashOut, bank, true))
}
