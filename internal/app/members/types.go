package members

import (
	"github.com/oapi-codegen/nullable"

	"github.com/forkthecity/microsite-store/internal/domain"
)

type CreateInput struct {
	Email    string
	Name     string
	Password string
}

// Patch is a partial member update. Unspecified fields are left unchanged.
// The id and createdAt are not patchable.
type Patch struct {
	Email                nullable.Nullable[string] // cannot be null
	Name                 nullable.Nullable[string] // cannot be null
	IsVolunteer          nullable.Nullable[bool]
	VolunteerProfileID   nullable.Nullable[domain.VolunteerID]
	OwnedOrganizationIDs nullable.Nullable[[]domain.OrganizationID]
	OwnedBusinessIDs     nullable.Nullable[[]domain.BusinessID]
}
