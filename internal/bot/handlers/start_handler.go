// Package handlers contains the Telegram command and message handlers of the
// poker ledger bot, along with their registration logic.
package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	apperr "github.com/potledger/pokerbot/internal/errors"
)

// NewStartHandler returns a handler for the /start command, which opens a
// new session for the chat.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	msgs := &h.deps.Config.Messages

	sessionID, err := h.deps.Game.StartSession(ctx, chatKey(update))
	if err != nil {
		if apperr.Code(err) == apperr.CodeConflict {
			sendReply(ctx, b, log, chatID, msgs.AlreadyRunning)
			return
		}
		log.ErrorContext(ctx, "Failed to start session", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, msgs.GeneralError)
		return
	}

	log.InfoContext(ctx, "Session started", "chat_id", chatID, "session_id", sessionID)
	sendReply(ctx, b, log, chatID, msgs.SessionStarted)
}
