package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	apperr "github.com/potledger/pokerbot/internal/errors"
)

// NewBuyInHandler returns a handler for the /buy command, which records a
// buy-in for the mentioned users (or the sender when nobody is mentioned).
func NewBuyInHandler(deps HandlerDeps) bot.HandlerFunc {
	return buyInHandler{deps}.Handle
}

type buyInHandler struct {
	deps HandlerDeps
}

func (h buyInHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "buy")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Buy handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	chat := chatKey(update)
	msgs := &h.deps.Config.Messages

	args := commandArgs(update.Message.Text)
	amount, ok := findAmount(args)
	if !ok {
		sendReply(ctx, b, log, chatID, msgs.AmountMissing)
		return
	}

	users := mentionedUsers(args, senderName(update))
	if len(users) == 0 {
		users = []string{senderName(update)}
	}

	if err := h.deps.Game.AddBuyIn(ctx, chat, users, amount); err != nil {
		switch apperr.Code(err) {
		case apperr.CodeNotFound:
			sendReply(ctx, b, log, chatID, msgs.NotRunning)
		case apperr.CodeValidation:
			sendReply(ctx, b, log, chatID, msgs.AmountMissing)
		default:
			log.ErrorContext(ctx, "Failed to record buy-in", "error", err, "chat_id", chatID)
			sendReply(ctx, b, log, chatID, msgs.GeneralError)
		}
		return
	}

	totals, err := h.deps.Game.TotalBuyIn(ctx, chat, users...)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load buy-in totals", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, msgs.GeneralError)
		return
	}
	bank, err := h.deps.Game.BankSize(ctx, chat)
	if err != nil {
		log.ErrorContext(ctx, "Failed to compute bank size", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, msgs.GeneralError)
		return
	}

	reply := strings.Join([]string{
		formatTotals(msgs.BuyInHeader, totals),
		fmt.Sprintf(msgs.BankLine, bank),
	}, "\n\n")
	sendReply(ctx, b, log, chatID, reply)
}
