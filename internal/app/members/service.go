package members

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/forkthecity/microsite-store/internal/app/apperr"
	"github.com/forkthecity/microsite-store/internal/app/patch"
	"github.com/forkthecity/microsite-store/internal/app/records"
	"github.com/forkthecity/microsite-store/internal/domain"
	"github.com/forkthecity/microsite-store/internal/platform/idgen"
	clockport "github.com/forkthecity/microsite-store/internal/ports/out/clock"
)

type Service struct {
	rec  *records.Store
	clk  clockport.Clock
	auth *Auth

	newMemberID func() domain.MemberID

	// HashCost is the bcrypt cost used for signup password hashes.
	HashCost int
}

func NewService(rec *records.Store, clk clockport.Clock, newID idgen.Func, auth *Auth) *Service {
	return &Service{
		rec:  rec,
		clk:  clk,
		auth: auth,
		newMemberID: func() domain.MemberID {
			return domain.MemberID(newID())
		},
		HashCost: bcrypt.DefaultCost,
	}
}

// Create registers a member and makes it the current session member.
// Email uniqueness is an exact, case-sensitive comparison.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Member, error) {
	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		return domain.Member{}, apperr.Validation("email", err.Error())
	}
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return domain.Member{}, apperr.Validation("name", "must be non-empty")
	}

	ms := records.Read[domain.Member](ctx, s.rec, records.Members)
	if err := ensureEmailUnique(ms, email, ""); err != nil {
		return domain.Member{}, err
	}

	hash, err := hashPassword(in.Password, s.HashCost)
	if err != nil {
		return domain.Member{}, apperr.StorageFailure(string(records.Credentials), err)
	}

	m := domain.Member{
		ID:                   s.newMemberID(),
		Email:                email,
		Name:                 name,
		CreatedAt:            s.clk.Now(),
		IsVolunteer:          false,
		OwnedOrganizationIDs: []domain.OrganizationID{},
		OwnedBusinessIDs:     []domain.BusinessID{},
	}
	ms = append(ms, m)
	creds := records.Read[domain.Credential](ctx, s.rec, records.Credentials)
	creds = append(creds, domain.Credential{MemberID: m.ID, PasswordHash: hash})

	// The member, its credential and the new session land together.
	b := s.rec.Batch()
	records.Stage(b, records.Members, ms)
	records.Stage(b, records.Credentials, creds)
	s.auth.stageLogin(b, m)
	if err := b.Commit(ctx); err != nil {
		return domain.Member{}, err
	}
	return cloneMember(m), nil
}

func (s *Service) GetByID(ctx context.Context, id domain.MemberID) (domain.Member, bool) {
	return findMember(records.Read[domain.Member](ctx, s.rec, records.Members), id)
}

// List returns every member in insertion order.
func (s *Service) List(ctx context.Context) []domain.Member {
	return records.Read[domain.Member](ctx, s.rec, records.Members)
}

func (s *Service) Update(ctx context.Context, id domain.MemberID, p Patch) (domain.Member, error) {
	ms := records.Read[domain.Member](ctx, s.rec, records.Members)
	idx := indexOf(ms, id)
	if idx < 0 {
		return domain.Member{}, apperr.NotFound("member", id)
	}
	m := ms[idx]

	if p.Email.IsSpecified() {
		if p.Email.IsNull() {
			return domain.Member{}, apperr.Validation("email", "cannot be null")
		}
		raw, _ := p.Email.Get()
		email := strings.TrimSpace(raw)
		if err := validateEmail(email); err != nil {
			return domain.Member{}, apperr.Validation("email", err.Error())
		}
		if err := ensureEmailUnique(ms, email, id); err != nil {
			return domain.Member{}, err
		}
		m.Email = email
	}
	if p.Name.IsSpecified() {
		if p.Name.IsNull() {
			return domain.Member{}, apperr.Validation("name", "cannot be null")
		}
		raw, _ := p.Name.Get()
		name := domain.NormalizeHumanName(raw)
		if name == "" {
			return domain.Member{}, apperr.Validation("name", "must be non-empty")
		}
		m.Name = name
	}
	patch.Apply(&m.IsVolunteer, p.IsVolunteer)
	patch.ApplyPtr(&m.VolunteerProfileID, p.VolunteerProfileID)
	patch.ApplySlice(&m.OwnedOrganizationIDs, p.OwnedOrganizationIDs)
	patch.ApplySlice(&m.OwnedBusinessIDs, p.OwnedBusinessIDs)
	if m.OwnedOrganizationIDs == nil {
		m.OwnedOrganizationIDs = []domain.OrganizationID{}
	}
	if m.OwnedBusinessIDs == nil {
		m.OwnedBusinessIDs = []domain.BusinessID{}
	}

	ms[idx] = m
	if err := records.Write(ctx, s.rec, records.Members, ms); err != nil {
		return domain.Member{}, err
	}
	return cloneMember(m), nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("must be non-empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return err
	}
	// Ensure no "Name <email@x>" format sneaks in.
	if addr.Address != email {
		return errors.New("must be a bare email address")
	}
	return nil
}

func ensureEmailUnique(ms []domain.Member, email string, exclude domain.MemberID) error {
	for _, m := range ms {
		if exclude != "" && m.ID == exclude {
			continue
		}
		if m.Email == email {
			return &apperr.Error{
				Code:    apperr.CodeDuplicateEmail,
				Message: "email already registered",
				Details: map[string]any{"email": email},
			}
		}
	}
	return nil
}

func findMember(ms []domain.Member, id domain.MemberID) (domain.Member, bool) {
	if i := indexOf(ms, id); i >= 0 {
		return ms[i], true
	}
	return domain.Member{}, false
}

func indexOf(ms []domain.Member, id domain.MemberID) int {
	for i, m := range ms {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func cloneMember(m domain.Member) domain.Member {
	out := m
	if m.VolunteerProfileID != nil {
		v := *m.VolunteerProfileID
		out.VolunteerProfileID = &v
	}
	out.OwnedOrganizationIDs = append([]domain.OrganizationID{}, m.OwnedOrganizationIDs...)
	out.OwnedBusinessIDs = append([]domain.BusinessID{}, m.OwnedBusinessIDs...)
	return out
}
