package models

import (
	"time"

	"github.com/google/uuid"
)

// List represents a shared checklist (checklist variant).
type List struct {
	Resource

	// Items are the list's entries in insertion order.
	Items []Item
}

// NewList constructs a List with a generated ID and creation timestamp.
func NewList(name, creatorID string) *List {
	return &List{
		Resource: Resource{
			ID:        uuid.New().String(),
			Name:      name,
			CreatorID: creatorID,
			CreatedAt: time.Now().Unix(),
		},
	}
}

// Item represents a single checklist entry. Ticking records who ticked it
// and when; unticking clears all three fields (a full reset, not a transfer
// of attribution).
type Item struct {
	// ID is the unique identifier (UUID format).
	ID string

	// ListID is the owning list.
	ListID string

	// Name is the item text.
	Name string

	// AddedByID is the user who added the item.
	AddedByID string

	// AddedByName is the adder's username, denormalized by storage.
	AddedByName string

	// AddedAt is the Unix timestamp when the item was added.
	AddedAt int64

	// Ticked reports whether the item is checked off.
	Ticked bool

	// TickedByID is the user who ticked the item; empty when unticked.
	TickedByID string

	// TickedByName is the ticking user's username, denormalized by storage.
	TickedByName string

	// TickedAt is the Unix timestamp of the tick; zero when unticked.
	TickedAt int64
}

// Tick marks the item as done, attributed to actor at the given time.
func (i *Item) Tick(actorID string, at time.Time) {
	i.Ticked = true
	i.TickedByID = actorID
	i.TickedAt = at.Unix()
}

// Untick resets the item to undone, clearing attribution entirely.
func (i *Item) Untick() {
	i.Ticked = false
	i.TickedByID = ""
	i.TickedByName = ""
	i.TickedAt = 0
}
