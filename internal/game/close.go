package game

import (
	"context"

	"github.com/potledger/pokerbot/internal/database"
)

// CloseStatus describes the outcome of a close-out attempt.
type CloseStatus int

const (
	// CloseSettled means the session finished cleanly with a settlement.
	CloseSettled CloseStatus = iota
	// CloseActivePlayers means players still hold chips; the session stays open.
	CloseActivePlayers
	// CloseBankMismatch means the bank does not balance; the session stays open.
	CloseBankMismatch
	// CloseNoActivity means the session finished without anyone buying in.
	CloseNoActivity
)

// CloseResult carries everything the caller needs to report a close-out
// attempt: the outcome plus the aggregates that were current when the
// decision was made.
type CloseResult struct {
	Status        CloseStatus
	ActivePlayers []string
	BankSize      int64
	TotalBuyIn    map[string]int64
	TotalCashOut  map[string]int64
	Profit        map[string]int64
	Transfers     []Transfer
}

// CloseSession attempts to finish the chat's open session. The whole
// protocol runs under the chat lock so a concurrent buy-in cannot slip in
// between validation and the finish transition:
//
//  1. refuse while any player's latest buy-in postdates their latest cash-out,
//  2. refuse while the bank does not balance, reporting the imbalance,
//  3. finish an untouched session with CloseNoActivity,
//  4. otherwise finish and return profits and settlement transfers.
//
// It fails with a NOT_FOUND error when the chat has no open session.
func (s *Service) CloseSession(ctx context.Context, chatID string) (*CloseResult, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.openSession(ctx, chatID)
	if err != nil {
		return nil, err
	}

	actions, err := s.store.ListActions(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if active := activeFromActions(actions); len(active) > 0 {
		return &CloseResult{Status: CloseActivePlayers, ActivePlayers: active}, nil
	}

	totalBuyIn := totalsFromActions(actions, database.ActionBuyIn)
	totalCashOut := totalsFromActions(actions, database.ActionCashOut)

	if bank := bankFromActions(actions); bank != 0 {
		return &CloseResult{
			Status:       CloseBankMismatch,
			BankSize:     bank,
			TotalBuyIn:   totalBuyIn,
			TotalCashOut: totalCashOut,
		}, nil
	}

	if len(totalBuyIn) == 0 {
		if err := s.store.FinishSession(ctx, session.ID); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "Session finished without activity",
			"chat_id", chatID, "session_id", session.ID)
		return &CloseResult{Status: CloseNoActivity}, nil
	}

	profits := profitFromActions(actions)
	transfers := Transfers(profits)

	if err := s.store.FinishSession(ctx, session.ID); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Session settled",
		"chat_id", chatID, "session_id", session.ID,
		"players", len(profits), "transfers", len(transfers))

	return &CloseResult{
		Status:       CloseSettled,
		TotalBuyIn:   totalBuyIn,
		TotalCashOut: totalCashOut,
		Profit:       profits,
		Transfers:    transfers,
	}, nil
}
