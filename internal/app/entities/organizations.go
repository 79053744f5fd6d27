// Package entities manages organizations and local businesses. Both carry an
// owner member whose owned-id list is kept in step on create and delete.
package entities

import (
	"context"
	"strings"

	"github.com/oapi-codegen/nullable"

	"github.com/forkthecity/microsite-store/internal/app/apperr"
	"github.com/forkthecity/microsite-store/internal/app/patch"
	"github.com/forkthecity/microsite-store/internal/app/records"
	"github.com/forkthecity/microsite-store/internal/domain"
	"github.com/forkthecity/microsite-store/internal/platform/idgen"
	clockport "github.com/forkthecity/microsite-store/internal/ports/out/clock"
)

type OrganizationInput struct {
	Name             string
	Type             domain.OrganizationType
	MissionStatement string
	TaxExempt        bool
	TaxID            *string
	Address          string
	ContactEmail     string
	ContactPhone     *string
	Website          *string
	VolunteerNeeds   *string
	Logo             *string
}

type OrganizationPatch struct {
	Name             nullable.Nullable[string]
	Type             nullable.Nullable[domain.OrganizationType] // cannot be null
	MissionStatement nullable.Nullable[string]
	TaxExempt        nullable.Nullable[bool]
	TaxID            nullable.Nullable[string]
	Address          nullable.Nullable[string]
	ContactEmail     nullable.Nullable[string]
	ContactPhone     nullable.Nullable[string]
	Website          nullable.Nullable[string]
	VolunteerNeeds   nullable.Nullable[string]
	Logo             nullable.Nullable[string]
	Verified         nullable.Nullable[bool]
}

type Organizations struct {
	rec   *records.Store
	clk   clockport.Clock
	newID idgen.Func
}

func NewOrganizations(rec *records.Store, clk clockport.Clock, newID idgen.Func) *Organizations {
	return &Organizations{rec: rec, clk: clk, newID: newID}
}

// Create stores the organization unverified and appends its id to the
// owner's OwnedOrganizationIDs in the same batch.
func (s *Organizations) Create(ctx context.Context, ownerID domain.MemberID, in OrganizationInput) (domain.Organization, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Organization{}, apperr.Validation("name", "must be non-empty")
	}
	if !in.Type.Valid() {
		return domain.Organization{}, apperr.Validation("type", "unknown value "+string(in.Type))
	}
	ms := records.Read[domain.Member](ctx, s.rec, records.Members)
	owner := memberIndex(ms, ownerID)
	if owner < 0 {
		return domain.Organization{}, apperr.NotFound("member", ownerID)
	}

	o := domain.Organization{
		ID:               domain.OrganizationID(s.newID()),
		OwnerID:          ownerID,
		Name:             name,
		Type:             in.Type,
		MissionStatement: in.MissionStatement,
		TaxExempt:        in.TaxExempt,
		TaxID:            in.TaxID,
		Address:          in.Address,
		ContactEmail:     in.ContactEmail,
		ContactPhone:     in.ContactPhone,
		Website:          in.Website,
		VolunteerNeeds:   in.VolunteerNeeds,
		Logo:             in.Logo,
		CreatedAt:        s.clk.Now(),
		Verified:         false,
	}
	orgs := append(records.Read[domain.Organization](ctx, s.rec, records.Organizations), o)
	ms[owner].OwnedOrganizationIDs = append(ms[owner].OwnedOrganizationIDs, o.ID)

	b := s.rec.Batch()
	records.Stage(b, records.Organizations, orgs)
	records.Stage(b, records.Members, ms)
	if err := b.Commit(ctx); err != nil {
		return domain.Organization{}, err
	}
	return o, nil
}

func (s *Organizations) GetByID(ctx context.Context, id domain.OrganizationID) (domain.Organization, bool) {
	orgs := records.Read[domain.Organization](ctx, s.rec, records.Organizations)
	if i := orgIndex(orgs, id); i >= 0 {
		return orgs[i], true
	}
	return domain.Organization{}, false
}

func (s *Organizations) GetByOwnerID(ctx context.Context, ownerID domain.MemberID) []domain.Organization {
	out := []domain.Organization{}
	for _, o := range records.Read[domain.Organization](ctx, s.rec, records.Organizations) {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	return out
}

func (s *Organizations) List(ctx context.Context) []domain.Organization {
	return records.Read[domain.Organization](ctx, s.rec, records.Organizations)
}

func (s *Organizations) Update(ctx context.Context, id domain.OrganizationID, p OrganizationPatch) (domain.Organization, error) {
	orgs := records.Read[domain.Organization](ctx, s.rec, records.Organizations)
	idx := orgIndex(orgs, id)
	if idx < 0 {
		return domain.Organization{}, apperr.NotFound("organization", id)
	}
	o := orgs[idx]

	if p.Type.IsSpecified() {
		t, err := p.Type.Get()
		if err != nil || !t.Valid() {
			return domain.Organization{}, apperr.Validation("type", "unknown value "+string(t))
		}
		o.Type = t
	}
	patch.Apply(&o.Name, p.Name)
	patch.Apply(&o.MissionStatement, p.MissionStatement)
	patch.Apply(&o.TaxExempt, p.TaxExempt)
	patch.ApplyPtr(&o.TaxID, p.TaxID)
	patch.Apply(&o.Address, p.Address)
	patch.Apply(&o.ContactEmail, p.ContactEmail)
	patch.ApplyPtr(&o.ContactPhone, p.ContactPhone)
	patch.ApplyPtr(&o.Website, p.Website)
	patch.ApplyPtr(&o.VolunteerNeeds, p.VolunteerNeeds)
	patch.ApplyPtr(&o.Logo, p.Logo)
	patch.Apply(&o.Verified, p.Verified)

	orgs[idx] = o
	if err := records.Write(ctx, s.rec, records.Organizations, orgs); err != nil {
		return domain.Organization{}, err
	}
	return o, nil
}

// Delete removes the organization and retracts its id from the owner's list.
// An owner that no longer exists is not an error.
func (s *Organizations) Delete(ctx context.Context, id domain.OrganizationID) error {
	orgs := records.Read[domain.Organization](ctx, s.rec, records.Organizations)
	idx := orgIndex(orgs, id)
	if idx < 0 {
		return apperr.NotFound("organization", id)
	}
	ownerID := orgs[idx].OwnerID
	orgs = append(orgs[:idx], orgs[idx+1:]...)

	b := s.rec.Batch()
	records.Stage(b, records.Organizations, orgs)
	ms := records.Read[domain.Member](ctx, s.rec, records.Members)
	if owner := memberIndex(ms, ownerID); owner >= 0 {
		ms[owner].OwnedOrganizationIDs = without(ms[owner].OwnedOrganizationIDs, id)
		records.Stage(b, records.Members, ms)
	}
	return b.Commit(ctx)
}

func orgIndex(orgs []domain.Organization, id domain.OrganizationID) int {
	for i, o := range orgs {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func memberIndex(ms []domain.Member, id domain.MemberID) int {
	for i, m := range ms {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func without[T comparable](ids []T, id T) []T {
	out := make([]T, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
