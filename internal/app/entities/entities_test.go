package entities

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/forkthecity/microsite-store/internal/adapters/memory/clock"
	memkv "github.com/forkthecity/microsite-store/internal/adapters/memory/kvstore"
	"github.com/forkthecity/microsite-store/internal/app/apperr"
	"github.com/forkthecity/microsite-store/internal/app/patch"
	"github.com/forkthecity/microsite-store/internal/app/records"
	"github.com/forkthecity/microsite-store/internal/domain"
	"github.com/forkthecity/microsite-store/internal/ports/out/kvstore"
)

type fixture struct {
	kv   *memkv.Store
	rec  *records.Store
	orgs *Organizations
	biz  *Businesses
}

func newFixture(t *testing.T, quota int) fixture {
	t.Helper()
	kv := memkv.NewStore(quota)
	rec := records.New(kv, nil)
	require.NoError(t, records.Write(context.Background(), rec, records.Members, []domain.Member{
		{ID: "jane", Email: "jane@x.com", Name: "Jane", OwnedOrganizationIDs: []domain.OrganizationID{}, OwnedBusinessIDs: []domain.BusinessID{}},
		{ID: "bob", Email: "bob@x.com", Name: "Bob", OwnedOrganizationIDs: []domain.OrganizationID{}, OwnedBusinessIDs: []domain.BusinessID{}},
	}))
	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("e-%d", n)
	}
	return fixture{kv: kv, rec: rec, orgs: NewOrganizations(rec, clk, ids), biz: NewBusinesses(rec, clk, ids)}
}

func (f fixture) member(t *testing.T, id domain.MemberID) domain.Member {
	t.Helper()
	for _, m := range records.Read[domain.Member](context.Background(), f.rec, records.Members) {
		if m.ID == id {
			return m
		}
	}
	t.Fatalf("member %s not stored", id)
	return domain.Member{}
}

func TestOrganizations_CreateLinksOwner(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 0)
	ctx := context.Background()

	a, err := f.orgs.Create(ctx, "jane", OrganizationInput{Name: " Friends of the Park ", Type: domain.OrganizationTypeNonprofit, TaxExempt: true})
	require.NoError(t, err)
	b, err := f.orgs.Create(ctx, "jane", OrganizationInput{Name: "Tenants Union", Type: domain.OrganizationTypeGrassroots})
	require.NoError(t, err)
	_, err = f.orgs.Create(ctx, "bob", OrganizationInput{Name: "PTA", Type: domain.OrganizationTypeSchool})
	require.NoError(t, err)

	assert.Equal(t, "Friends of the Park", a.Name)
	assert.False(t, a.Verified)
	assert.Equal(t, []domain.OrganizationID{a.ID, b.ID}, f.member(t, "jane").OwnedOrganizationIDs)

	owned := f.orgs.GetByOwnerID(ctx, "jane")
	require.Len(t, owned, 2)
	assert.Equal(t, a.ID, owned[0].ID)
	assert.Len(t, f.orgs.List(ctx), 3)
	assert.Empty(t, f.orgs.GetByOwnerID(ctx, "nobody"))
}

func TestOrganizations_CreateRejects(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.orgs.Create(ctx, "jane", OrganizationInput{Name: "X", Type: "cult"})
	assert.True(t, errors.Is(err, apperr.ErrValidation), "err=%v", err)
	_, err = f.orgs.Create(ctx, "jane", OrganizationInput{Name: "  ", Type: domain.OrganizationTypeSchool})
	assert.True(t, errors.Is(err, apperr.ErrValidation), "err=%v", err)
	_, err = f.orgs.Create(ctx, "ghost", OrganizationInput{Name: "X", Type: domain.OrganizationTypeSchool})
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "err=%v", err)
	assert.Empty(t, f.orgs.List(ctx))
}

func TestOrganizations_CreateIsAtomic(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 0)
	ctx := context.Background()

	used, _ := f.kv.Usage()
	limited := newFixture(t, used+40)
	_, err := limited.orgs.Create(ctx, "jane", OrganizationInput{Name: "Friends of the Park", Type: domain.OrganizationTypeNonprofit})
	require.Error(t, err)
	assert.True(t, errors.Is(err, kvstore.ErrQuotaExceeded), "err=%v", err)

	assert.Empty(t, limited.orgs.List(ctx))
	assert.Empty(t, limited.member(t, "jane").OwnedOrganizationIDs)
}

func TestOrganizations_UpdateDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 0)
	ctx := context.Background()

	site := "https://example.org"
	o, err := f.orgs.Create(ctx, "jane", OrganizationInput{Name: "Park", Type: domain.OrganizationTypeNonprofit, Website: &site})
	require.NoError(t, err)

	got, err := f.orgs.Update(ctx, o.ID, OrganizationPatch{
		MissionStatement: patch.Value("Keep it green"),
		Website:          patch.Null[string](),
		Verified:         patch.Value(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Keep it green", got.MissionStatement)
	assert.Nil(t, got.Website)
	assert.True(t, got.Verified)
	assert.Equal(t, o.ID, got.ID)

	_, err = f.orgs.Update(ctx, o.ID, OrganizationPatch{Type: patch.Value(domain.OrganizationType("bogus"))})
	assert.True(t, errors.Is(err, apperr.ErrValidation), "err=%v", err)
	_, err = f.orgs.Update(ctx, "missing", OrganizationPatch{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "err=%v", err)

	require.NoError(t, f.orgs.Delete(ctx, o.ID))
	_, ok := f.orgs.GetByID(ctx, o.ID)
	assert.False(t, ok)
	assert.Empty(t, f.member(t, "jane").OwnedOrganizationIDs)

	err = f.orgs.Delete(ctx, o.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "err=%v", err)
}

func TestBusinesses_Lifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 0)
	ctx := context.Background()

	lb, err := f.biz.Create(ctx, "bob", BusinessInput{Name: "Corner Cafe", BusinessType: "cafe"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, lb.Services)
	assert.Equal(t, []domain.BusinessID{lb.ID}, f.member(t, "bob").OwnedBusinessIDs)

	got, ok := f.biz.GetByID(ctx, lb.ID)
	require.True(t, ok)
	assert.Equal(t, "Corner Cafe", got.Name)

	got, err = f.biz.Update(ctx, lb.ID, BusinessPatch{Services: patch.Value([]string{"coffee", "wifi"})})
	require.NoError(t, err)
	assert.Equal(t, []string{"coffee", "wifi"}, got.Services)
	assert.Len(t, f.biz.GetByOwnerID(ctx, "bob"), 1)

	_, err = f.biz.Create(ctx, "ghost", BusinessInput{Name: "X"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "err=%v", err)

	require.NoError(t, f.biz.Delete(ctx, lb.ID))
	assert.Empty(t, f.biz.List(ctx))
	assert.Empty(t, f.member(t, "bob").OwnedBusinessIDs)
	assert.True(t, errors.Is(f.biz.Delete(ctx, lb.ID), apperr.ErrNotFound))
}

func TestDelete_OwnerGone(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 0)
	ctx := context.Background()

	o, err := f.orgs.Create(ctx, "jane", OrganizationInput{Name: "Park", Type: domain.OrganizationTypeNonprofit})
	require.NoError(t, err)
	require.NoError(t, records.Write(ctx, f.rec, records.Members, []domain.Member{}))

	require.NoError(t, f.orgs.Delete(ctx, o.ID))
	assert.Empty(t, f.orgs.List(ctx))
}

func TestBusinesses_CopiesServices(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 0)
	ctx := context.Background()

	services := []string{"coffee"}
	lb, err := f.biz.Create(ctx, "bob", BusinessInput{Name: "Corner Cafe", BusinessType: "cafe", Services: services})
	require.NoError(t, err)
	services[0] = "mutated"
	assert.Equal(t, []string{"coffee"}, lb.Services)
}
