package domain

import "time"

type PostStatus string

const (
	PostStatusOpen       PostStatus = "open"
	PostStatusInProgress PostStatus = "in-progress"
	PostStatusResolved   PostStatus = "resolved"
	PostStatusClosed     PostStatus = "closed"
)

// Valid reports whether s is a known status. Any transition between valid
// statuses is allowed.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusOpen, PostStatusInProgress, PostStatusResolved, PostStatusClosed:
		return true
	default:
		return false
	}
}

// Post is a community-visible issue, request or update.
//
// Category is either a built-in name or a CustomCategory.Name.
// OrganizationID / BusinessID record who the post was made on behalf of.
type Post struct {
	ID             PostID          `json:"id"`
	AuthorID       MemberID        `json:"authorId"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Status         PostStatus      `json:"status"`
	Location       string          `json:"location"`
	Images         []string        `json:"images,omitempty"`
	Supporters     int             `json:"supporters"`
	OrganizationID *OrganizationID `json:"organizationId,omitempty"`
	BusinessID     *BusinessID     `json:"businessId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// PostResponse is a reply to a post. ParentResponseID is stored as given and
// never validated.
type PostResponse struct {
	ID               ResponseID  `json:"id"`
	PostID           PostID      `json:"postId"`
	AuthorID         MemberID    `json:"authorId"`
	Content          string      `json:"content"`
	Images           []string    `json:"images,omitempty"`
	ParentResponseID *ResponseID `json:"parentResponseId,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// PostWithAuthor is the read model joining a post with its author and,
// when they resolve, the organization or business it was posted for.
type PostWithAuthor struct {
	Post
	Author       Member         `json:"author"`
	Organization *Organization  `json:"organization,omitempty"`
	Business     *LocalBusiness `json:"business,omitempty"`
}

type ResponseWithAuthor struct {
	PostResponse
	Author Member `json:"author"`
}
