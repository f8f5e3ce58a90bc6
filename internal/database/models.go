package database

import "time"

// Session represents one cash game in a chat. At most one session per chat
// is unfinished at any time; the game service enforces this.
type Session struct {
	ID        int64     `db:"id"`
	ChatID    string    `db:"chat_id"`
	Finished  bool      `db:"finished"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ActionKind distinguishes the two kinds of ledger entries.
type ActionKind string

const (
	ActionBuyIn   ActionKind = "buy_in"
	ActionCashOut ActionKind = "cash_out"
)

// Action is a single append-only ledger entry: a player paying chips into the
// bank (buy-in) or redeeming chips from it (cash-out). Actions within a
// session are totally ordered by (TS, ID); the autoincrement ID breaks
// equal-timestamp ties in insertion order.
type Action struct {
	ID        int64      `db:"id"`
	SessionID int64      `db:"session_id"`
	Kind      ActionKind `db:"kind"`
	UserID    string     `db:"user_id"`
	Amount    int64      `db:"amount"`
	TS        time.Time  `db:"ts"`
	CreatedAt time.Time  `db:"created_at"`
}
