package models

// Role distinguishes the creator of a resource from invited participants.
// Exactly one membership per resource carries RoleCreator.
type Role string

const (
	RoleCreator     Role = "creator"
	RoleParticipant Role = "participant"
)

// Membership links one user to one project or list. The (resource, user)
// pair is unique: a user participates in a resource at most once.
type Membership struct {
	// ResourceID is the project or list this membership belongs to.
	ResourceID string

	// UserID identifies the member.
	UserID string

	// Username is the member's display name, denormalized by storage.
	Username string

	// Role is creator or participant.
	Role Role
}

// Resource is the shared shape of a project and a list: a named thing owned
// by its creator with a full membership set. Access predicates live here so
// both variants enforce identical rules.
type Resource struct {
	// ID is the unique identifier (UUID format).
	ID string

	// Name is the display name.
	Name string

	// CreatorID is the user who created the resource.
	CreatorID string

	// CreatorName is the creator's username, denormalized by storage.
	CreatorName string

	// CreatedAt is the Unix timestamp when the resource was created.
	CreatedAt int64

	// Memberships is the full membership set including the creator.
	Memberships []Membership
}

// Member returns the membership for userID, if any.
func (r *Resource) Member(userID string) (Membership, bool) {
	for _, m := range r.Memberships {
		if m.UserID == userID {
			return m, true
		}
	}
	return Membership{}, false
}

// CanView reports whether userID may see the resource and its children.
// True for any member, creator or participant.
func (r *Resource) CanView(userID string) bool {
	_, ok := r.Member(userID)
	return ok
}

// CanManage reports whether userID may share the resource, remove
// participants, or delete it. True only for the creator.
func (r *Resource) CanManage(userID string) bool {
	m, ok := r.Member(userID)
	return ok && m.Role == RoleCreator
}

// MemberIDs returns the IDs of all members, creator included.
func (r *Resource) MemberIDs() []string {
	ids := make([]string, len(r.Memberships))
	for i, m := range r.Memberships {
		ids[i] = m.UserID
	}
	return ids
}

// UsernameByID resolves a member's display name. Falls back to the empty
// string for non-members (e.g. a removed participant).
func (r *Resource) UsernameByID(userID string) string {
	if m, ok := r.Member(userID); ok {
		return m.Username
	}
	return ""
}
