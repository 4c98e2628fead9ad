package models

import (
	"testing"
	"time"
)

func timeAt(sec int64) time.Time { return time.Unix(sec, 0) }

func memberResource() Resource {
	return Resource{
		ID:        "res-1",
		Name:      "Trip",
		CreatorID: "alice",
		Memberships: []Membership{
			{ResourceID: "res-1", UserID: "alice", Username: "alice", Role: RoleCreator},
			{ResourceID: "res-1", UserID: "bob", Username: "bob", Role: RoleParticipant},
		},
	}
}

func TestCanView(t *testing.T) {
	r := memberResource()

	tests := []struct {
		name   string
		userID string
		want   bool
	}{
		{"creator can view", "alice", true},
		{"participant can view", "bob", true},
		{"stranger cannot view", "mallory", false},
		{"empty user cannot view", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.CanView(tt.userID); got != tt.want {
				t.Errorf("CanView(%q) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}

func TestCanManage(t *testing.T) {
	r := memberResource()

	if !r.CanManage("alice") {
		t.Error("creator should be able to manage")
	}
	if r.CanManage("bob") {
		t.Error("participant should not be able to manage")
	}
	if r.CanManage("mallory") {
		t.Error("stranger should not be able to manage")
	}
}

func TestCanDeleteExpense(t *testing.T) {
	p := Project{Resource: memberResource()}
	expense := Expense{ID: "e1", ProjectID: "res-1", PayerID: "bob", Amount: 10}

	if !p.CanDeleteExpense("alice", expense) {
		t.Error("creator should be able to delete any expense")
	}
	if !p.CanDeleteExpense("bob", expense) {
		t.Error("payer should be able to delete their own expense")
	}

	// A participant who neither created the project nor paid the expense
	// cannot delete it, even though they can view it.
	p.Memberships = append(p.Memberships, Membership{
		ResourceID: "res-1", UserID: "carol", Username: "carol", Role: RoleParticipant,
	})
	if p.CanDeleteExpense("carol", expense) {
		t.Error("non-payer participant should not be able to delete the expense")
	}
	if !p.CanView("carol") {
		t.Error("non-payer participant should still be able to view")
	}
}

func TestMemberIDsIncludesCreator(t *testing.T) {
	r := memberResource()
	ids := r.MemberIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 member IDs, got %d", len(ids))
	}
	if r.UsernameByID("alice") != "alice" {
		t.Errorf("UsernameByID(alice) = %q", r.UsernameByID("alice"))
	}
	if r.UsernameByID("ghost") != "" {
		t.Error("expected empty username for non-member")
	}
}

func TestItemTickRoundTrip(t *testing.T) {
	i := Item{ID: "i1", ListID: "l1", Name: "Milk"}

	i.Tick("bob", timeAt(1700000000))
	if !i.Ticked || i.TickedByID != "bob" || i.TickedAt != 1700000000 {
		t.Errorf("after Tick: %+v", i)
	}

	i.Untick()
	if i.Ticked || i.TickedByID != "" || i.TickedByName != "" || i.TickedAt != 0 {
		t.Errorf("after Untick, attribution not fully cleared: %+v", i)
	}
}
