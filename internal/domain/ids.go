package domain

// Identifiers are opaque strings minted at creation time and never reassigned.
type (
	MemberID       string
	VolunteerID    string
	OrganizationID string
	BusinessID     string
	CategoryID     string
	PostID         string
	ResponseID     string
)
