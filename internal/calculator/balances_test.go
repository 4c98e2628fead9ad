package calculator

import (
	"math"
	"testing"
)

func TestBalances(t *testing.T) {
	tests := []struct {
		name         string
		expenses     []Expense
		memberIDs    []string
		validateFunc func(t *testing.T, balances map[string]float64)
	}{
		{
			name:      "sole creator pays everything",
			expenses:  []Expense{{PayerID: "alice", Amount: 100}},
			memberIDs: []string{"alice"},
			validateFunc: func(t *testing.T, balances map[string]float64) {
				// share = 100/1 = 100, balance = 100 - 100 = 0
				if math.Abs(balances["alice"]) > 1e-9 {
					t.Errorf("alice balance = %v, want 0", balances["alice"])
				}
			},
		},
		{
			name: "two members uneven spending",
			expenses: []Expense{
				{PayerID: "alice", Amount: 90},
				{PayerID: "bob", Amount: 30},
			},
			memberIDs: []string{"alice", "bob"},
			validateFunc: func(t *testing.T, balances map[string]float64) {
				// total = 120, share = 60
				if math.Abs(balances["alice"]-30) > 1e-9 {
					t.Errorf("alice balance = %v, want 30", balances["alice"])
				}
				if math.Abs(balances["bob"]+30) > 1e-9 {
					t.Errorf("bob balance = %v, want -30", balances["bob"])
				}
			},
		},
		{
			name:      "member who paid nothing owes a full share",
			expenses:  []Expense{{PayerID: "alice", Amount: 60}},
			memberIDs: []string{"alice", "bob", "carol"},
			validateFunc: func(t *testing.T, balances map[string]float64) {
				if math.Abs(balances["alice"]-40) > 1e-9 {
					t.Errorf("alice balance = %v, want 40", balances["alice"])
				}
				for _, id := range []string{"bob", "carol"} {
					if math.Abs(balances[id]+20) > 1e-9 {
						t.Errorf("%s balance = %v, want -20", id, balances[id])
					}
				}
			},
		},
		{
			name:      "zero members does not divide",
			expenses:  []Expense{{PayerID: "alice", Amount: 100}},
			memberIDs: nil,
			validateFunc: func(t *testing.T, balances map[string]float64) {
				if len(balances) != 0 {
					t.Errorf("expected empty balances, got %v", balances)
				}
			},
		},
		{
			name:      "no expenses yields zero balances",
			expenses:  nil,
			memberIDs: []string{"alice", "bob"},
			validateFunc: func(t *testing.T, balances map[string]float64) {
				for id, b := range balances {
					if b != 0 {
						t.Errorf("%s balance = %v, want 0", id, b)
					}
				}
			},
		},
		{
			name: "uneven amounts with rounding",
			expenses: []Expense{
				{PayerID: "alice", Amount: 10.01},
				{PayerID: "bob", Amount: 0.02},
			},
			memberIDs: []string{"alice", "bob", "carol"},
			validateFunc: func(t *testing.T, balances map[string]float64) {
				// Nothing exact to assert per member; the sum-to-zero check
				// below covers the rounding behavior.
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := Balances(tt.expenses, tt.memberIDs)

			if len(tt.memberIDs) > 0 && len(balances) != len(tt.memberIDs) {
				t.Fatalf("got %d balances, want %d", len(balances), len(tt.memberIDs))
			}

			// Invariant: balances sum to zero within tolerance.
			var sum float64
			for _, b := range balances {
				sum += b
			}
			if math.Abs(sum) > 1e-6 {
				t.Errorf("balances sum = %v, want ~0", sum)
			}

			if tt.validateFunc != nil {
				tt.validateFunc(t, balances)
			}
		})
	}
}

func TestSpendingIncludesFormerMembers(t *testing.T) {
	// A removed participant's historical expenses still count toward
	// spending, even though they no longer get a balance.
	expenses := []Expense{
		{PayerID: "alice", Amount: 50},
		{PayerID: "ghost", Amount: 25},
	}

	spending := Spending(expenses)
	if spending["ghost"] != 25 {
		t.Errorf("ghost spending = %v, want 25", spending["ghost"])
	}

	balances := Balances(expenses, []string{"alice"})
	if _, ok := balances["ghost"]; ok {
		t.Error("non-member should not appear in balances")
	}
}

func TestEvenShare(t *testing.T) {
	expenses := []Expense{{PayerID: "a", Amount: 120}}

	if got := EvenShare(expenses, 2); math.Abs(got-60) > 1e-9 {
		t.Errorf("EvenShare = %v, want 60", got)
	}
	if got := EvenShare(expenses, 0); got != 0 {
		t.Errorf("EvenShare with zero members = %v, want 0", got)
	}
}

func TestTickTally(t *testing.T) {
	tally := TickTally([]string{"bob", "alice", "bob", ""})

	if tally["bob"] != 2 {
		t.Errorf("bob tally = %d, want 2", tally["bob"])
	}
	if tally["alice"] != 1 {
		t.Errorf("alice tally = %d, want 1", tally["alice"])
	}
	if _, ok := tally[""]; ok {
		t.Error("empty attribution should be skipped")
	}
}
