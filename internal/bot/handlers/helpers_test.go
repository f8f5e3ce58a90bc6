package handlers

import (
	"reflect"
	"testing"

	"github.com/potledger/pokerbot/internal/config"
	"github.com/potledger/pokerbot/internal/game"
)

func TestFindAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		expected int64
		found    bool
	}{
		{name: "No args", args: nil, found: false},
		{name: "Single amount", args: []string{"100"}, expected: 100, found: true},
		{name: "Amount after mention", args: []string{"@alice", "250"}, expected: 250, found: true},
		{name: "First number wins", args: []string{"10", "20"}, expected: 10, found: true},
		{name: "Negative rejected", args: []string{"-5"}, found: false},
		{name: "Decimal rejected", args: []string{"12.5"}, found: false},
		{name: "Words rejected", args: []string{"all", "in"}, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			amount, found := findAmount(tt.args)
			if found != tt.found || amount != tt.expected {
				t.Errorf("findAmount(%v) = (%d, %v), want (%d, %v)",
					tt.args, amount, found, tt.expected, tt.found)
			}
		})
	}
}

func TestCommandArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{name: "Command only", text: "/status", expected: nil},
		{name: "Command with args", text: "/buy 100 @me", expected: []string{"100", "@me"}},
		{name: "Extra whitespace", text: "  /buy   100  ", expected: []string{"100"}},
		{name: "Empty text", text: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := commandArgs(tt.text)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("commandArgs(%q) = %v, want %v", tt.text, result, tt.expected)
			}
		})
	}
}

func TestMentionedUsers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		sender   string
		expected []string
	}{
		{name: "No mentions", args: []string{"100"}, sender: "carol", expected: nil},
		{
			name:     "Plain mentions keep order",
			args:     []string{"100", "@alice", "@bob"},
			sender:   "carol",
			expected: []string{"alice", "bob"},
		},
		{
			name:     "Me resolves to sender",
			args:     []string{"@alice", "@me", "@bob"},
			sender:   "carol",
			expected: []string{"alice", "carol", "bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := mentionedUsers(tt.args, tt.sender)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("mentionedUsers(%v, %q) = %v, want %v", tt.args, tt.sender, result, tt.expected)
			}
		})
	}
}

func TestSortedTotals(t *testing.T) {
	t.Parallel()

	totals := map[string]int64{"bob": 100, "alice": 100, "carol": 250, "dave": -50}
	expected := []userTotal{
		{user: "carol", total: 250},
		{user: "alice", total: 100},
		{user: "bob", total: 100},
		{user: "dave", total: -50},
	}

	result := sortedTotals(totals)
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("sortedTotals() = %v, want %v", result, expected)
	}
}

func TestFormatTotals(t *testing.T) {
	t.Parallel()

	result := formatTotals("Buy-ins:", map[string]int64{"alice": 500, "bob": 1500})
	expected := "Buy-ins:\nbob 1500\nalice 500"
	if result != expected {
		t.Errorf("formatTotals() = %q, want %q", result, expected)
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	msgs := &config.MessagesConfig{
		NobodyBoughtIn: "Nobody has bought in.",
		BankLine:       "Bank %d",
		BuyInHeader:    "Buy-ins:",
		CashOutHeader:  "Cash-outs:",
	}

	t.Run("No buy-ins", func(t *testing.T) {
		t.Parallel()

		result := formatSummary(msgs, nil, nil, 0, true)
		if result != msgs.NobodyBoughtIn {
			t.Errorf("formatSummary() = %q, want %q", result, msgs.NobodyBoughtIn)
		}
	})

	t.Run("Buy-ins only with bank", func(t *testing.T) {
		t.Parallel()

		result := formatSummary(msgs, map[string]int64{"alice": 500}, nil, 500, true)
		expected := "Bank 500\n\nBuy-ins:\nalice 500"
		if result != expected {
			t.Errorf("formatSummary() = %q, want %q", result, expected)
		}
	})

	t.Run("Zero bank line is omitted", func(t *testing.T) {
		t.Parallel()

		result := formatSummary(msgs,
			map[string]int64{"alice": 500}, map[string]int64{"alice": 500}, 0, true)
		expected := "Buy-ins:\nalice 500\n\nCash-outs:\nalice 500"
		if result != expected {
			t.Errorf("formatSummary() = %q, want %q", result, expected)
		}
	})

	t.Run("Bank hidden on request", func(t *testing.T) {
		t.Parallel()

		result := formatSummary(msgs, map[string]int64{"alice": 500}, nil, 500, false)
		expected := "Buy-ins:\nalice 500"
		if result != expected {
			t.Errorf("formatSummary() = %q, want %q", result, expected)
		}
	})
}

func TestFormatTransfers(t *testing.T) {
	t.Parallel()

	transfers := []game.Transfer{
		{From: "user1", To: "user2", Amount: 1250},
		{From: "user1", To: "user3", Amount: 250},
	}

	result := formatTransfers("Transfers:", transfers)
	expected := "Transfers:\nuser1 -> user2: 1250\nuser1 -> user3: 250"
	if result != expected {
		t.Errorf("formatTransfers() = %q, want %q", result, expected)
	}
}
