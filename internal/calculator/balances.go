// Package calculator implements the pure arithmetic behind the expense
// splitter and the checklist tallies. It has no storage or transport
// dependencies; services convert domain models into calculator inputs.
package calculator

// Expense is the minimal expense information needed for balance math.
type Expense struct {
	PayerID string
	Amount  float64
}

// TotalCost sums all expense amounts.
func TotalCost(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// Spending aggregates amounts per payer. The result covers every user who
// has ever paid an expense, members or not.
func Spending(expenses []Expense) map[string]float64 {
	spending := make(map[string]float64)
	for _, e := range expenses {
		spending[e.PayerID] += e.Amount
	}
	return spending
}

// EvenShare returns the per-member share of the total cost. A resource with
// zero members reports a zero share rather than dividing.
func EvenShare(expenses []Expense, memberCount int) float64 {
	if memberCount <= 0 {
		return 0
	}
	return TotalCost(expenses) / float64(memberCount)
}

// Balances computes each member's net balance: what they paid minus the even
// share of the total cost. Positive means the member is owed money, negative
// means they owe. The balances always sum to zero within floating-point
// tolerance, provided every payer is a member.
//
// Balances are recomputed on every read; expenses and memberships change
// between reads and nothing here is cached.
func Balances(expenses []Expense, memberIDs []string) map[string]float64 {
	balances := make(map[string]float64, len(memberIDs))
	if len(memberIDs) == 0 {
		return balances
	}

	spending := Spending(expenses)
	share := TotalCost(expenses) / float64(len(memberIDs))

	for _, id := range memberIDs {
		balances[id] = spending[id] - share
	}
	return balances
}

// TickTally counts ticked items per ticking user. Input is the list of
// ticked-by identifiers for currently ticked items; unticked items carry no
// attribution and must not be included.
func TickTally(tickedBy []string) map[string]int {
	tally := make(map[string]int)
	for _, user := range tickedBy {
		if user == "" {
			continue
		}
		tally[user]++
	}
	return tally
}
