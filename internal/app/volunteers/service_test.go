package volunteers

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
)

func newService(t *testing.T, members ...domain.MemberID) (*Service, *records.Store) {
	t.Helper()
	rec := records.New(memkv.NewStore(0), nil)
	var ms []domain.Member
	for _, id := range members {
		ms = append(ms, domain.Member{ID: id, Email: string(id) + "@x.com", Name: string(id)})
	}
	require.NoError(t, records.Write(context.Background(), rec, records.Members, ms))
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("v-%d", n)
	}
	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	return NewService(rec, clk, ids), rec
}

func TestCreate_FlagsMember(t *testing.T) {
	t.Parallel()
	svc, rec := newService(t, "jane")
	ctx := context.Background()

	v, err := svc.Create(ctx, "jane", CreateInput{
		Skills:       []string{"carpentry"},
		Availability: domain.AvailabilityWeekends,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, v.HoursContributed)
	assert.Equal(t, 0, v.ProjectsParticipated)
	assert.Equal(t, []string{}, v.PreferredJobs)

	ms := records.Read[domain.Member](ctx, rec, records.Members)
	require.Len(t, ms, 1)
	assert.True(t, ms[0].IsVolunteer)
	require.NotNil(t, ms[0].VolunteerProfileID)
	assert.Equal(t, v.ID, *ms[0].VolunteerProfileID)

	got, ok := svc.GetByMemberID(ctx, "jane")
	require.True(t, ok)
	assert.Equal(t, v.ID, got.ID)
	got, ok = svc.GetByID(ctx, v.ID)
	require.True(t, ok)
	assert.Equal(t, "jane", string(got.MemberID))
}

func TestCreate_Rejections(t *testing.T) {
	t.Parallel()
	svc, rec := newService(t, "jane")
	ctx := context.Background()

	_, err := svc.Create(ctx, "jane", CreateInput{Availability: "sometimes"})
	assert.True(t, errors.Is(err, apperr.ErrValidation), "err=%v", err)

	_, err = svc.Create(ctx, "ghost", CreateInput{Availability: domain.AvailabilityFlexible})
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "err=%v", err)

	assert.Empty(t, svc.List(ctx))
	assert.False(t, records.Read[domain.Member](ctx, rec, records.Members)[0].IsVolunteer)
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, "jane")
	ctx := context.Background()

	bio := "hi"
	v, err := svc.Create(ctx, "jane", CreateInput{Availability: domain.AvailabilityEvenings, Bio: &bio})
	require.NoError(t, err)

	got, err := svc.Update(ctx, v.ID, Patch{
		HoursContributed: patch.Value(4),
		Availability:     patch.Value(domain.AvailabilityLimited),
		Bio:              patch.Null[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, got.HoursContributed)
	assert.Equal(t, domain.AvailabilityLimited, got.Availability)
	assert.Nil(t, got.Bio)

	_, err = svc.Update(ctx, v.ID, Patch{Availability: patch.Value(domain.Availability("never"))})
	assert.True(t, errors.Is(err, apperr.ErrValidation), "err=%v", err)

	_, err = svc.Update(ctx, "missing", Patch{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "err=%v", err)
}
