package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/potledger/pokerbot/internal/config"
	"github.com/potledger/pokerbot/internal/game"
)

var numberPattern = regexp.MustCompile(`^\d+$`)

// findAmount returns the first argument that is a plain decimal number.
func findAmount(args []string) (int64, bool) {
	for _, arg := range args {
		if !numberPattern.MatchString(arg) {
			continue
		}
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

// commandArgs splits a message text into the arguments after the command word.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

// mentionedUsers extracts @-mentioned user names from the arguments.
// The special mention "@me" resolves to the sender.
func mentionedUsers(args []string, sender string) []string {
	var users []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "@") {
			continue
		}
		if arg == "@me" {
			users = append(users, sender)
			continue
		}
		users = append(users, strings.TrimPrefix(arg, "@"))
	}
	return users
}

// senderName resolves the acting user's identifier. Users without a public
// username fall back to their numeric Telegram ID.
func senderName(update *models.Update) string {
	from := update.Message.From
	if from.Username != "" {
		return from.Username
	}
	return strconv.FormatInt(from.ID, 10)
}

// chatKey is the string chat identifier the game service is keyed by.
func chatKey(update *models.Update) string {
	return strconv.FormatInt(update.Message.Chat.ID, 10)
}

type userTotal struct {
	user  string
	total int64
}

// sortedTotals orders a totals map by descending amount; equal amounts are
// ordered by user name so output is stable.
func sortedTotals(totals map[string]int64) []userTotal {
	out := make([]userTotal, 0, len(totals))
	for user, total := range totals {
		out = append(out, userTotal{user: user, total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].total != out[j].total {
			return out[i].total > out[j].total
		}
		return out[i].user < out[j].user
	})
	return out
}

// formatTotals renders a header followed by "user amount" lines in display
// order.
func formatTotals(header string, totals map[string]int64) string {
	lines := make([]string, 0, len(totals)+1)
	lines = append(lines, header)
	for _, entry := range sortedTotals(totals) {
		lines = append(lines, fmt.Sprintf("%s %d", entry.user, entry.total))
	}
	return strings.Join(lines, "\n")
}

// formatSummary renders the session summary: optional bank line, buy-in
// totals, and cash-out totals when present.
func formatSummary(msgs *config.MessagesConfig, totalBuyIn, totalCashOut map[string]int64, bank int64, showBank bool) string {
	if len(totalBuyIn) == 0 {
		return msgs.NobodyBoughtIn
	}

	var parts []string
	if showBank && bank != 0 {
		parts = append(parts, fmt.Sprintf(msgs.BankLine, bank))
	}
	parts = append(parts, formatTotals(msgs.BuyInHeader, totalBuyIn))
	if len(totalCashOut) > 0 {
		parts = append(parts, formatTotals(msgs.CashOutHeader, totalCashOut))
	}
	return strings.Join(parts, "\n\n")
}

// formatTransfers renders the settlement transfer list.
func formatTransfers(header string, transfers []game.Transfer) string {
	lines := make([]string, 0, len(transfers)+1)
	lines = append(lines, header)
	for _, t := range transfers {
		lines = append(lines, fmt.Sprintf("%s -> %s: %d", t.From, t.To, t.Amount))
	}
	return strings.Join(lines, "\n")
}

// sendReply sends text to a chat, logging failures instead of returning them
// since there is nobody upstream to handle a failed reply.
func sendReply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}
