package domain

import "time"

// Member is a registered user account.
//
// OwnedOrganizationIDs and OwnedBusinessIDs mirror the OwnerID stored on each
// entity; they only ever grow on create and shrink on entity delete.
type Member struct {
	ID                   MemberID         `json:"id"`
	Email                string           `json:"email"`
	Name                 string           `json:"name"`
	CreatedAt            time.Time        `json:"createdAt"`
	IsVolunteer          bool             `json:"isVolunteer"`
	VolunteerProfileID   *VolunteerID     `json:"volunteerProfileId,omitempty"`
	OwnedOrganizationIDs []OrganizationID `json:"ownedOrganizationIds"`
	OwnedBusinessIDs     []BusinessID     `json:"ownedBusinessIds"`
}

// Credential holds the password hash recorded at signup. It is kept out of
// the Member record so member listings never carry it.
type Credential struct {
	MemberID     MemberID `json:"memberId"`
	PasswordHash string   `json:"passwordHash"`
}

// AuthState is the denormalized session snapshot kept next to the
// current-member pointer.
type AuthState struct {
	IsAuthenticated bool    `json:"isAuthenticated"`
	CurrentMember   *Member `json:"currentMember"`
}
