package entities

import (
	"context"
	"slices"
	"strings"

	"github.com/oapi-codegen/nullable"

	"github.com/forkthecity/microsite-store/internal/app/apperr"
	"github.com/forkthecity/microsite-store/internal/app/patch"
	"github.com/forkthecity/microsite-store/internal/app/records"
	"github.com/forkthecity/microsite-store/internal/domain"
	"github.com/forkthecity/microsite-store/internal/platform/idgen"
	clockport "github.com/forkthecity/microsite-store/internal/ports/out/clock"
)

type BusinessInput struct {
	Name         string
	BusinessType string
	Description  string
	Services     []string
	Address      string
	ContactEmail string
	ContactPhone *string
	Website      *string
	Hours        *string
	Logo         *string
}

type BusinessPatch struct {
	Name         nullable.Nullable[string]
	BusinessType nullable.Nullable[string]
	Description  nullable.Nullable[string]
	Services     nullable.Nullable[[]string]
	Address      nullable.Nullable[string]
	ContactEmail nullable.Nullable[string]
	ContactPhone nullable.Nullable[string]
	Website      nullable.Nullable[string]
	Hours        nullable.Nullable[string]
	Logo         nullable.Nullable[string]
	Verified     nullable.Nullable[bool]
}

type Businesses struct {
	rec   *records.Store
	clk   clockport.Clock
	newID idgen.Func
}

func NewBusinesses(rec *records.Store, clk clockport.Clock, newID idgen.Func) *Businesses {
	return &Businesses{rec: rec, clk: clk, newID: newID}
}

func (s *Businesses) Create(ctx context.Context, ownerID domain.MemberID, in BusinessInput) (domain.LocalBusiness, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.LocalBusiness{}, apperr.Validation("name", "must be non-empty")
	}
	ms := records.Read[domain.Member](ctx, s.rec, records.Members)
	owner := memberIndex(ms, ownerID)
	if owner < 0 {
		return domain.LocalBusiness{}, apperr.NotFound("member", ownerID)
	}

	services := slices.Clone(in.Services)
	if services == nil {
		services = []string{}
	}
	lb := domain.LocalBusiness{
		ID:           domain.BusinessID(s.newID()),
		OwnerID:      ownerID,
		Name:         name,
		BusinessType: in.BusinessType,
		Description:  in.Description,
		Services:     services,
		Address:      in.Address,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		Website:      in.Website,
		Hours:        in.Hours,
		Logo:         in.Logo,
		CreatedAt:    s.clk.Now(),
	}
	bs := append(records.Read[domain.LocalBusiness](ctx, s.rec, records.Businesses), lb)
	ms[owner].OwnedBusinessIDs = append(ms[owner].OwnedBusinessIDs, lb.ID)

	b := s.rec.Batch()
	records.Stage(b, records.Businesses, bs)
	records.Stage(b, records.Members, ms)
	if err := b.Commit(ctx); err != nil {
		return domain.LocalBusiness{}, err
	}
	return lb, nil
}

func (s *Businesses) GetByID(ctx context.Context, id domain.BusinessID) (domain.LocalBusiness, bool) {
	bs := records.Read[domain.LocalBusiness](ctx, s.rec, records.Businesses)
	if i := businessIndex(bs, id); i >= 0 {
		return bs[i], true
	}
	return domain.LocalBusiness{}, false
}

func (s *Businesses) GetByOwnerID(ctx context.Context, ownerID domain.MemberID) []domain.LocalBusiness {
	out := []domain.LocalBusiness{}
	for _, lb := range records.Read[domain.LocalBusiness](ctx, s.rec, records.Businesses) {
		if lb.OwnerID == ownerID {
			out = append(out, lb)
		}
	}
	return out
}

func (s *Businesses) List(ctx context.Context) []domain.LocalBusiness {
	return records.Read[domain.LocalBusiness](ctx, s.rec, records.Businesses)
}

func (s *Businesses) Update(ctx context.Context, id domain.BusinessID, p BusinessPatch) (domain.LocalBusiness, error) {
	bs := records.Read[domain.LocalBusiness](ctx, s.rec, records.Businesses)
	idx := businessIndex(bs, id)
	if idx < 0 {
		return domain.LocalBusiness{}, apperr.NotFound("business", id)
	}
	lb := bs[idx]
	patch.Apply(&lb.Name, p.Name)
	patch.Apply(&lb.BusinessType, p.BusinessType)
	patch.Apply(&lb.Description, p.Description)
	patch.ApplySlice(&lb.Services, p.Services)
	patch.Apply(&lb.Address, p.Address)
	patch.Apply(&lb.ContactEmail, p.ContactEmail)
	patch.ApplyPtr(&lb.ContactPhone, p.ContactPhone)
	patch.ApplyPtr(&lb.Website, p.Website)
	patch.ApplyPtr(&lb.Hours, p.Hours)
	patch.ApplyPtr(&lb.Logo, p.Logo)
	patch.Apply(&lb.Verified, p.Verified)
	if lb.Services == nil {
		lb.Services = []string{}
	}

	bs[idx] = lb
	if err := records.Write(ctx, s.rec, records.Businesses, bs); err != nil {
		return domain.LocalBusiness{}, err
	}
	return lb, nil
}

// Delete removes the business and retracts its id from the owner's list.
func (s *Businesses) Delete(ctx context.Context, id domain.BusinessID) error {
	bs := records.Read[domain.LocalBusiness](ctx, s.rec, records.Businesses)
	idx := businessIndex(bs, id)
	if idx < 0 {
		return apperr.NotFound("business", id)
	}
	ownerID := bs[idx].OwnerID
	bs = append(bs[:idx], bs[idx+1:]...)

	b := s.rec.Batch()
	records.Stage(b, records.Businesses, bs)
	ms := records.Read[domain.Member](ctx, s.rec, records.Members)
	if owner := memberIndex(ms, ownerID); owner >= 0 {
		ms[owner].OwnedBusinessIDs = without(ms[owner].OwnedBusinessIDs, id)
		records.Stage(b, records.Members, ms)
	}
	return b.Commit(ctx)
}

func businessIndex(bs []domain.LocalBusiness, id domain.BusinessID) int {
	for i, lb := range bs {
		if lb.ID == id {
			return i
		}
	}
	return -1
}
