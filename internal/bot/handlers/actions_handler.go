package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/potledger/pokerbot/internal/config"
)

// NewActionsHandler returns a handler for the /actions command, which replies
// with inline buttons that pre-fill a /buy or /quit command addressed to the
// bot. Pressing a button inserts "@botname /buy " (or /quit) into the input
// field, which the default mention handler then dispatches.
func NewActionsHandler(deps HandlerDeps) bot.HandlerFunc {
	return actionsHandler{deps}.Handle
}

type actionsHandler struct {
	deps HandlerDeps
}

func (h actionsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "actions")

	if update.Message == nil {
		log.WarnContext(ctx, "Actions handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	msgs := &h.deps.Config.Messages

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        msgs.ActionsPrompt,
		ReplyMarkup: actionsKeyboard(msgs),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send actions keyboard", "error", err, "chat_id", chatID)
	}
}

// actionsKeyboard builds the two-button inline keyboard. The switch queries
// must end with a space so the user can type the amount right after the
// inserted command.
func actionsKeyboard(msgs *config.MessagesConfig) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: msgs.ActionsBuyButton, SwitchInlineQueryCurrentChat: "/buy "},
				{Text: msgs.ActionsQuitButton, SwitchInlineQueryCurrentChat: "/quit "},
			},
		},
	}
}
