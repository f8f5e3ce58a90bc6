package game

// Transfer is a single peer-to-peer payment that settles part of a debt.
type Transfer struct {
	From   string
	To     string
	Amount int64
}

// Transfers computes an ordered list of payments that returns every balance
// in profits to zero, assuming the balances sum to zero (callers must verify
// the bank balances before settling for real).
//
// The algorithm greedily matches the largest debtor with the largest creditor
// each round; every round zeroes at least one balance, so at most N-1
// transfers are produced for N participants. Ties on the extreme balance are
// broken by the lexicographically smallest user identifier, which makes the
// output deterministic regardless of map iteration order.
func Transfers(profits map[string]int64) []Transfer {
	balances := make(map[string]int64, len(profits))
	for user, profit := range profits {
		balances[user] = profit
	}

	var transfers []Transfer
	for {
		payer, payerBalance := extremeUser(balances, func(a, b int64) bool { return a < b })
		if payer == "" || payerBalance >= 0 {
			return transfers
		}

		payee, payeeBalance := extremeUser(balances, func(a, b int64) bool { return a > b })
		if payee == "" || payeeBalance <= 0 {
			return transfers
		}

		amount := min(-payerBalance, payeeBalance)
		balances[payer] += amount
		balances[payee] -= amount
		transfers = append(transfers, Transfer{From: payer, To: payee, Amount: amount})
	}
}

// extremeUser returns the user whose balance wins under the given comparison,
// preferring the lexicographically smallest user on equal balances.
func extremeUser(balances map[string]int64, better func(a, b int64) bool) (string, int64) {
	var (
		found   bool
		user    string
		balance int64
	)
	for u, b := range balances {
		if !found || better(b, balance) || (b == balance && u < user) {
			found = true
			user = u
			balance = b
		}
	}
	return user, balance
}
