package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewMentionHandler returns the default handler, which accepts commands
// addressed to the bot by mention, e.g. "@botname /buy 100 @me". This is the
// form inline keyboards and mobile clients produce when completing a command
// for someone else.
func NewMentionHandler(deps HandlerDeps) bot.HandlerFunc {
	return mentionHandler{
		deps:    deps,
		buyIn:   buyInHandler{deps},
		cashOut: cashOutHandler{deps},
	}.Handle
}

type mentionHandler struct {
	deps    HandlerDeps
	buyIn   buyInHandler
	cashOut cashOutHandler
}

func (h mentionHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	botInfo := h.deps.Config.Telegram.BotInfo
	if botInfo == nil || botInfo.Username == "" {
		return
	}

	prefix := "@" + botInfo.Username + " /"
	text := update.Message.Text
	if !strings.HasPrefix(text, prefix) {
		return
	}

	// Strip the mention so the command handlers see a regular "/cmd args..."
	// message.
	rewritten := *update
	message := *update.Message
	message.Text = "/" + strings.TrimPrefix(text, prefix)
	rewritten.Message = &message

	command := strings.Fields(message.Text)[0]
	switch command {
	case "/buy":
		h.buyIn.Handle(ctx, b, &rewritten)
	case "/quit":
		h.cashOut.Handle(ctx, b, &rewritten)
	}
}
