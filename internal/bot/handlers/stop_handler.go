package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	apperr "github.com/potledger/pokerbot/internal/errors"
	"github.com/potledger/pokerbot/internal/game"
)

// NewStopHandler returns a handler for the /stop command, which attempts to
// settle and close the chat's session.
func NewStopHandler(deps HandlerDeps) bot.HandlerFunc {
	return stopHandler{deps}.Handle
}

type stopHandler struct {
	deps HandlerDeps
}

func (h stopHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stop")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Stop handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	msgs := &h.deps.Config.Messages

	result, err := h.deps.Game.CloseSession(ctx, chatKey(update))
	if err != nil {
		if apperr.Code(err) == apperr.CodeNotFound {
			sendReply(ctx, b, log, chatID, msgs.NotRunning)
			return
		}
		log.ErrorContext(ctx, "Failed to close session", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, msgs.GeneralError)
		return
	}

	switch result.Status {
	case game.CloseActivePlayers:
		lines := append([]string{msgs.ActivePlayers}, result.ActivePlayers...)
		sendReply(ctx, b, log, chatID, strings.Join(lines, "\n"))

	case game.CloseBankMismatch:
		direction := msgs.BankOverpaid
		diff := result.BankSize
		if diff < 0 {
			direction = msgs.BankUnderpaid
			diff = -diff
		}
		reply := strings.Join([]string{
			msgs.BankMismatch,
			fmt.Sprintf(direction, diff),
			formatSummary(msgs, result.TotalBuyIn, result.TotalCashOut, result.BankSize, true),
		}, "\n")
		sendReply(ctx, b, log, chatID, reply)

	case game.CloseNoActivity:
		sendReply(ctx, b, log, chatID, msgs.SessionNoResult)

	case game.CloseSettled:
		reply := strings.Join([]string{
			msgs.SessionSettled,
			formatSummary(msgs, result.TotalBuyIn, result.TotalCashOut, 0, false),
			formatTotals(msgs.ProfitHeader, result.Profit),
			formatTransfers(msgs.TransfersHeader, result.Transfers),
		}, "\n\n")
		sendReply(ctx, b, log, chatID, reply)
	}
}
