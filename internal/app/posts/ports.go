package posts

import (
	"context"

	"github.com/forkthecity/microsite-store/internal/domain"
)

// UsageCounter records that a post used a custom category.
type UsageCounter interface {
	IncrementUsage(ctx context.Context, name string) error
}

type MemberLookup interface {
	GetByID(ctx context.Context, id domain.MemberID) (domain.Member, bool)
}

type OrganizationLookup interface {
	GetByID(ctx context.Context, id domain.OrganizationID) (domain.Organization, bool)
}

type BusinessLookup interface {
	GetByID(ctx context.Context, id domain.BusinessID) (domain.LocalBusiness, bool)
}

// Deps are the collaborators a Service joins against. Any of them may be nil:
// a nil Categories skips usage counting, a nil Members makes every author
// join fail, and nil Organizations/Businesses leave those joins empty.
type Deps struct {
	Categories    UsageCounter
	Members       MemberLookup
	Organizations OrganizationLookup
	Businesses    BusinessLookup
}
