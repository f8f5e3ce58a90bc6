package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/potledger/pokerbot/internal/database"
	apperr "github.com/potledger/pokerbot/internal/errors"
)

// NewUndoHandler returns a handler for the /undo command, which removes the
// most recent action of the open session, buy-in or cash-out alike.
func NewUndoHandler(deps HandlerDeps) bot.HandlerFunc {
	return undoHandler{deps}.Handle
}

type undoHandler struct {
	deps HandlerDeps
}

func (h undoHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "undo")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Undo handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	msgs := &h.deps.Config.Messages

	removed, err := h.deps.Game.UndoLastAction(ctx, chatKey(update))
	if err != nil {
		if apperr.Code(err) == apperr.CodeNotFound {
			// No open session and an empty session read the same to the user.
			open, checkErr := h.deps.Game.HasOpenSession(ctx, chatKey(update))
			if checkErr == nil && !open {
				sendReply(ctx, b, log, chatID, msgs.NotRunning)
				return
			}
			sendReply(ctx, b, log, chatID, msgs.NothingToUndo)
			return
		}
		log.ErrorContext(ctx, "Failed to undo action", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, msgs.GeneralError)
		return
	}

	kind := "buy-in"
	if removed.Kind == database.ActionCashOut {
		kind = "cash-out"
	}
	sendReply(ctx, b, log, chatID, fmt.Sprintf(msgs.UndoDone, kind, removed.UserID, removed.Amount))
}
