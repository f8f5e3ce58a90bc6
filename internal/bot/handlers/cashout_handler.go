package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	apperr "github.com/potledger/pokerbot/internal/errors"
)

// NewCashOutHandler returns a handler for the /quit command, which records a
// cash-out for the mentioned user (or the sender) and reports their running
// profit.
func NewCashOutHandler(deps HandlerDeps) bot.HandlerFunc {
	return cashOutHandler{deps}.Handle
}

type cashOutHandler struct {
	deps HandlerDeps
}

func (h cashOutHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "quit")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Quit handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	chat := chatKey(update)
	msgs := &h.deps.Config.Messages

	args := commandArgs(update.Message.Text)
	user := senderName(update)
	if mentions := mentionedUsers(args, user); len(mentions) > 0 {
		user = mentions[0]
	}

	hasBuyIn, err := h.deps.Game.HasBuyIn(ctx, chat, user)
	if err != nil {
		if apperr.Code(err) == apperr.CodeNotFound {
			sendReply(ctx, b, log, chatID, msgs.NotRunning)
			return
		}
		log.ErrorContext(ctx, "Failed to check buy-ins", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, msgs.GeneralError)
		return
	}
	if !hasBuyIn {
		sendReply(ctx, b, log, chatID, fmt.Sprintf(msgs.NoBuyIn, user))
		return
	}

	amount, ok := findAmount(args)
	if !ok {
		sendReply(ctx, b, log, chatID, msgs.AmountMissing)
		return
	}

	if err := h.deps.Game.AddCashOut(ctx, chat, user, amount); err != nil {
		switch apperr.Code(err) {
		case apperr.CodeNotFound:
			sendReply(ctx, b, log, chatID, msgs.NotRunning)
		case apperr.CodeValidation:
			sendReply(ctx, b, log, chatID, msgs.AmountMissing)
		default:
			log.ErrorContext(ctx, "Failed to record cash-out", "error", err, "chat_id", chatID)
			sendReply(ctx, b, log, chatID, msgs.GeneralError)
		}
		return
	}

	profit, err := h.deps.Game.ProfitFor(ctx, chat, user)
	if err != nil {
		log.ErrorContext(ctx, "Failed to compute profit", "error", err, "chat_id", chatID)
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
		fmt.Sprintf("%s\n%s %d", msgs.ProfitHeader, user, profit),
		fmt.Sprintf(msgs.BankLine, bank),
	}, "\n\n")
	sendReply(ctx, b, log, chatID, reply)
}
