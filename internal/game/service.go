// Package game implements the poker session ledger: session lifecycle per
// chat, buy-in/cash-out accounting, detection of players still holding chips,
// and settlement of final balances into peer-to-peer transfers.
package game

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/potledger/pokerbot/internal/database"
	apperr "github.com/potledger/pokerbot/internal/errors"
)

// Service exposes the session registry, ledger, and activity monitor over a
// database.Store. All operations for one chat are serialized by a per-chat
// mutex; operations for distinct chats proceed in parallel.
type Service struct {
	store  database.Store
	logger *slog.Logger

	mu    sync.Mutex
	chats map[string]*sync.Mutex
}

// NewService creates a game service backed by the given store.
func NewService(store database.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:  store,
		logger: logger.With("component", "game"),
		chats:  make(map[string]*sync.Mutex),
	}
}

// chatLock returns the mutex serializing operations for a chat.
func (s *Service) chatLock(chatID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.chats[chatID]
	if !ok {
		lock = &sync.Mutex{}
		s.chats[chatID] = lock
	}
	return lock
}

// openSession returns the chat's open session or a NOT_FOUND error.
// Callers must hold the chat lock.
func (s *Service) openSession(ctx context.Context, chatID string) (*database.Session, error) {
	session, err := s.store.GetOpenSession(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.NewNotFoundError("no open session for chat")
	}
	return session, nil
}

// HasOpenSession reports whether the chat has an unfinished session.
func (s *Service) HasOpenSession(ctx context.Context, chatID string) (bool, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.store.GetOpenSession(ctx, chatID)
	if err != nil {
		return false, err
	}
	return session != nil, nil
}

// StartSession opens a new session for the chat. It fails with a CONFLICT
// error if the chat already has an open session.
func (s *Service) StartSession(ctx context.Context, chatID string) (int64, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.GetOpenSession(ctx, chatID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, apperr.NewConflictError("session already open for chat")
	}

	session, err := s.store.CreateSession(ctx, chatID)
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "Session started", "chat_id", chatID, "session_id", session.ID)
	return session.ID, nil
}

// FinishSession marks the chat's open session as finished. Callers are
// responsible for validating closing preconditions (no active players, bank
// balances) before invoking it.
func (s *Service) FinishSession(ctx context.Context, chatID string) error {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.openSession(ctx, chatID)
	if err != nil {
		return err
	}

	if err := s.store.FinishSession(ctx, session.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Session finished", "chat_id", chatID, "session_id", session.ID)
	return nil
}

// AddBuyIn records a buy-in of amount chips for each of the given users in
// the chat's open session.
func (s *Service) AddBuyIn(ctx context.Context, chatID string, users []string, amount int64) error {
	if len(users) == 0 {
		return apperr.NewValidationError("buy-in needs at least one user")
	}
	if amount <= 0 {
		return apperr.NewValidationError("buy-in amount must be positive")
	}

	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.openSession(ctx, chatID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	actions := make([]*database.Action, 0, len(users))
	for _, user := range users {
		if user == "" {
			return apperr.NewValidationError("buy-in user cannot be empty")
		}
		actions = append(actions, &database.Action{
			SessionID: session.ID,
			Kind:      database.ActionBuyIn,
			UserID:    user,
			Amount:    amount,
			TS:        now,
		})
	}

	if err := s.store.AddActions(ctx, actions); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Buy-in recorded",
		"chat_id", chatID, "session_id", session.ID, "users", users, "amount", amount)
	return nil
}

// AddCashOut records a cash-out for a user in the chat's open session.
// A zero amount is valid: it means the user left with nothing.
func (s *Service) AddCashOut(ctx context.Context, chatID, user string, amount int64) error {
	if user == "" {
		return apperr.NewValidationError("cash-out user cannot be empty")
	}
	if amount < 0 {
		return apperr.NewValidationError("cash-out amount cannot be negative")
	}

	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.openSession(ctx, chatID)
	if err != nil {
		return err
	}

	action := &database.Action{
		SessionID: session.ID,
		Kind:      database.ActionCashOut,
		UserID:    user,
		Amount:    amount,
		TS:        time.Now().UTC(),
	}
	if err := s.store.AddActions(ctx, []*database.Action{action}); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Cash-out recorded",
		"chat_id", chatID, "session_id", session.ID, "user", user, "amount", amount)
	return nil
}

// HasBuyIn reports whether the chat's open session has at least one buy-in
// for the user.
func (s *Service) HasBuyIn(ctx context.Context, chatID, user string) (bool, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	actions, err := s.openSessionActions(ctx, chatID)
	if err != nil {
		return false, err
	}

	for _, action := range actions {
		if action.Kind == database.ActionBuyIn && action.UserID == user {
			return true, nil
		}
	}
	return false, nil
}

// HasAnyAction reports whether the chat's open session has at least one
// buy-in or cash-out.
func (s *Service) HasAnyAction(ctx context.Context, chatID string) (bool, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	actions, err := s.openSessionActions(ctx, chatID)
	if err != nil {
		return false, err
	}
	return len(actions) > 0, nil
}

// TotalBuyIn returns the summed buy-in amounts per user for the chat's open
// session. When users are given, the result is restricted to exactly those
// users, with a zero entry for each user with no buy-ins.
func (s *Service) TotalBuyIn(ctx context.Context, chatID string, users ...string) (map[string]int64, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	actions, err := s.openSessionActions(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return totalsFromActions(actions, database.ActionBuyIn), nil
	}

	totals := make(map[string]int64, len(users))
	for _, user := range users {
		totals[user] = 0
	}
	for _, action := range actions {
		if action.Kind != database.ActionBuyIn {
			continue
		}
		if _, ok := totals[action.UserID]; !ok {
			continue
		}
		totals[action.UserID] += action.Amount
	}
	return totals, nil
}

// TotalCashOut returns the summed cash-out amounts per user for the chat's
// open session.
func (s *Service) TotalCashOut(ctx context.Context, chatID string) (map[string]int64, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	actions, err := s.openSessionActions(ctx, chatID)
	if err != nil {
		return nil, err
	}

	return totalsFromActions(actions, database.ActionCashOut), nil
}

// TotalCashOutFor returns a single user's cash-out sum for the chat's open
// session, zero when the user has none.
func (s *Service) TotalCashOutFor(ctx context.Context, chatID, user string) (int64, error) {
	totals, err := s.TotalCashOut(ctx, chatID)
	if err != nil {
		return 0, err
	}
	return totals[user], nil
}

// BankSize returns the chips currently held by the bank of the chat's open
// session: total buy-ins minus total cash-outs. A negative value means more
// was redeemed than paid in, which is an accounting anomaly the caller must
// be able to report.
func (s *Service) BankSize(ctx context.Context, chatID string) (int64, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	actions, err := s.openSessionActions(ctx, chatID)
	if err != nil {
		return 0, err
	}
	return bankFromActions(actions), nil
}

// Profit returns per-user profit (cash-outs minus buy-ins) for the chat's
// open session. Users with only buy-ins appear with negative profit.
func (s *Service) Profit(ctx context.Context, chatID string) (map[string]int64, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	actions, err := s.openSessionActions(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return profitFromActions(actions), nil
}

// ProfitFor returns a single user's profit in the chat's open session,
// zero when the user has no actions.
func (s *Service) ProfitFor(ctx context.Context, chatID, user string) (int64, error) {
	profits, err := s.Profit(ctx, chatID)
	if err != nil {
		return 0, err
	}
	return profits[user], nil
}

// LifetimeProfit returns per-user profit summed over all finished sessions of
// the chat. Chats with no finished sessions yield an empty map, not an error.
func (s *Service) LifetimeProfit(ctx context.Context, chatID string) (map[string]int64, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	sessions, err := s.store.ListFinishedSessions(ctx, chatID)
	if err != nil {
		return nil, err
	}

	profits := make(map[string]int64)
	for _, session := range sessions {
		actions, err := s.store.ListActions(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		for user, profit := range profitFromActions(actions) {
			profits[user] += profit
		}
	}
	return profits, nil
}

// ActivePlayers returns the users of the chat's open session whose latest
// buy-in is strictly later than their latest cash-out, meaning they still
// hold chips. A user who cashed out and bought back in is active again. The
// result is sorted for stable display.
func (s *Service) ActivePlayers(ctx context.Context, chatID string) ([]string, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	actions, err := s.openSessionActions(ctx, chatID)
	if err != nil {
		return nil, err
	}

	return activeFromActions(actions), nil
}

// UndoLastAction deletes the most recent action of the chat's open session,
// buy-in or cash-out alike, and returns the removed entry. It fails with a
// NOT_FOUND error when the session has no actions.
func (s *Service) UndoLastAction(ctx context.Context, chatID string) (*database.Action, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	actions, err := s.openSessionActions(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, apperr.NewNotFoundError("session has no actions to undo")
	}

	last := actions[len(actions)-1]
	if err := s.store.DeleteAction(ctx, last.ID); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Action undone",
		"chat_id", chatID, "kind", last.Kind, "user", last.UserID, "amount", last.Amount)
	return &last, nil
}

// Settlement computes the transfers that settle the chat's open session given
// its current per-user profits. Callers must confirm BankSize is zero before
// treating the result as a real settlement.
func (s *Service) Settlement(ctx context.Context, chatID string) ([]Transfer, error) {
	profits, err := s.Profit(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute profits for settlement: %w", err)
	}
	return Transfers(profits), nil
}

// openSessionActions loads the ordered action list of the chat's open
// session. Callers must hold the chat lock.
func (s *Service) openSessionActions(ctx context.Context, chatID string) ([]database.Action, error) {
	session, err := s.openSession(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return s.store.ListActions(ctx, session.ID)
}

func bankFromActions(actions []database.Action) int64 {
	var bank int64
	for _, action := range actions {
		switch action.Kind {
		case database.ActionBuyIn:
			bank += action.Amount
		case database.ActionCashOut:
			bank -= action.Amount
		}
	}
	return bank
}

func totalsFromActions(actions []database.Action, kind database.ActionKind) map[string]int64 {
	totals := make(map[string]int64)
	for _, action := range actions {
		if action.Kind == kind {
			totals[action.UserID] += action.Amount
		}
	}
	return totals
}

// activeFromActions returns the sorted users whose latest buy-in is strictly
// later than their latest cash-out. Actions arrive ordered by (ts, id), so
// positional indexes give the relative recency of each user's latest buy-in
// and cash-out.
func activeFromActions(actions []database.Action) []string {
	lastBuyIn := make(map[string]int)
	lastCashOut := make(map[string]int)
	for i, action := range actions {
		switch action.Kind {
		case database.ActionBuyIn:
			lastBuyIn[action.UserID] = i
		case database.ActionCashOut:
			lastCashOut[action.UserID] = i
		}
	}

	var active []string
	for user, buyIdx := range lastBuyIn {
		cashIdx, cashedOut := lastCashOut[user]
		if !cashedOut || buyIdx > cashIdx {
			active = append(active, user)
		}
	}
	sort.Strings(active)
	return active
}

func profitFromActions(actions []database.Action) map[string]int64 {
	profits := make(map[string]int64)
	for _, action := range actions {
		switch action.Kind {
		case database.ActionBuyIn:
			profits[action.UserID] -= action.Amount
		case database.ActionCashOut:
			profits[action.UserID] += action.Amount
		}
	}
	return profits
}
