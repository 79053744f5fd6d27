// Package volunteers manages volunteer profiles and their member back-reference.
package volunteers

import (
	"context"
	"slices"

	"github.com/oapi-codegen/nullable"

	"github.com/forkthecity/microsite-store/internal/app/apperr"
	"github.com/forkthecity/microsite-store/internal/app/patch"
	"github.com/forkthecity/microsite-store/internal/app/records"
	"github.com/forkthecity/microsite-store/internal/domain"
	"github.com/forkthecity/microsite-store/internal/platform/idgen"
	clockport "github.com/forkthecity/microsite-store/internal/ports/out/clock"
)

type CreateInput struct {
	Skills        []string
	Availability  domain.Availability
	PreferredJobs []string
	Bio           *string
}

// Patch is a partial update. Counters are included so future tracking can
// bump them through the same path.
type Patch struct {
	Skills               nullable.Nullable[[]string]
	Availability         nullable.Nullable[domain.Availability] // cannot be null
	PreferredJobs        nullable.Nullable[[]string]
	Bio                  nullable.Nullable[string]
	HoursContributed     nullable.Nullable[int]
	ProjectsParticipated nullable.Nullable[int]
}

type Service struct {
	rec   *records.Store
	clk   clockport.Clock
	newID idgen.Func
}

func NewService(rec *records.Store, clk clockport.Clock, newID idgen.Func) *Service {
	return &Service{rec: rec, clk: clk, newID: newID}
}

// Create stores a profile for memberID and flags the member as a volunteer,
// both in one batch. One profile per member is a convention only.
func (s *Service) Create(ctx context.Context, memberID domain.MemberID, in CreateInput) (domain.VolunteerProfile, error) {
	if !in.Availability.Valid() {
		return domain.VolunteerProfile{}, apperr.Validation("availability", "unknown value "+string(in.Availability))
	}
	ms := records.Read[domain.Member](ctx, s.rec, records.Members)
	idx := -1
	for i, m := range ms {
		if m.ID == memberID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.VolunteerProfile{}, apperr.NotFound("member", memberID)
	}

	v := domain.VolunteerProfile{
		ID:            domain.VolunteerID(s.newID()),
		MemberID:      memberID,
		Skills:        nonNil(in.Skills),
		Availability:  in.Availability,
		PreferredJobs: nonNil(in.PreferredJobs),
		Bio:           in.Bio,
		CreatedAt:     s.clk.Now(),
	}
	vs := append(records.Read[domain.VolunteerProfile](ctx, s.rec, records.Volunteers), v)

	vid := v.ID
	ms[idx].IsVolunteer = true
	ms[idx].VolunteerProfileID = &vid

	b := s.rec.Batch()
	records.Stage(b, records.Volunteers, vs)
	records.Stage(b, records.Members, ms)
	if err := b.Commit(ctx); err != nil {
		return domain.VolunteerProfile{}, err
	}
	return v, nil
}

// GetByMemberID returns the first profile owned by memberID.
func (s *Service) GetByMemberID(ctx context.Context, memberID domain.MemberID) (domain.VolunteerProfile, bool) {
	for _, v := range records.Read[domain.VolunteerProfile](ctx, s.rec, records.Volunteers) {
		if v.MemberID == memberID {
			return v, true
		}
	}
	return domain.VolunteerProfile{}, false
}

func (s *Service) GetByID(ctx context.Context, id domain.VolunteerID) (domain.VolunteerProfile, bool) {
	for _, v := range records.Read[domain.VolunteerProfile](ctx, s.rec, records.Volunteers) {
		if v.ID == id {
			return v, true
		}
	}
	return domain.VolunteerProfile{}, false
}

func (s *Service) List(ctx context.Context) []domain.VolunteerProfile {
	return records.Read[domain.VolunteerProfile](ctx, s.rec, records.Volunteers)
}

func (s *Service) Update(ctx context.Context, id domain.VolunteerID, p Patch) (domain.VolunteerProfile, error) {
	vs := records.Read[domain.VolunteerProfile](ctx, s.rec, records.Volunteers)
	idx := -1
	for i, v := range vs {
		if v.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.VolunteerProfile{}, apperr.NotFound("volunteer profile", id)
	}
	v := vs[idx]

	if p.Availability.IsSpecified() {
		a, err := p.Availability.Get()
		if err != nil || !a.Valid() {
			return domain.VolunteerProfile{}, apperr.Validation("availability", "unknown value "+string(a))
		}
		v.Availability = a
	}
	patch.ApplySlice(&v.Skills, p.Skills)
	patch.ApplySlice(&v.PreferredJobs, p.PreferredJobs)
	patch.ApplyPtr(&v.Bio, p.Bio)
	patch.Apply(&v.HoursContributed, p.HoursContributed)
	patch.Apply(&v.ProjectsParticipated, p.ProjectsParticipated)
	v.Skills = nonNil(v.Skills)
	v.PreferredJobs = nonNil(v.PreferredJobs)

	vs[idx] = v
	if err := records.Write(ctx, s.rec, records.Volunteers, vs); err != nil {
		return domain.VolunteerProfile{}, err
	}
	return v, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
