package members

import (
	"context"

	"github.com/forkthecity/microsite-store/internal/app/records"
	"github.com/forkthecity/microsite-store/internal/domain"
)

// Auth tracks the session member through a pointer slot (records.CurrentUser)
// plus a denormalized snapshot (records.AuthState). One store is one session.
//
// Unless VerifyPasswords is set, Login only matches the email: there is no
// credential check.
type Auth struct {
	rec *records.Store

	VerifyPasswords bool
}

func NewAuth(rec *records.Store) *Auth {
	return &Auth{rec: rec}
}

// Login makes the member with exactly this email the session member.
// ok is false when no member matches (or, with VerifyPasswords, the
// password does not match its stored hash).
func (a *Auth) Login(ctx context.Context, email, password string) (domain.Member, bool, error) {
	ms := records.Read[domain.Member](ctx, a.rec, records.Members)
	var (
		m     domain.Member
		found bool
	)
	for _, c := range ms {
		if c.Email == email {
			m, found = c, true
			break
		}
	}
	if !found {
		return domain.Member{}, false, nil
	}
	if a.VerifyPasswords && !a.passwordMatches(ctx, m.ID, password) {
		return domain.Member{}, false, nil
	}

	b := a.rec.Batch()
	a.stageLogin(b, m)
	if err := b.Commit(ctx); err != nil {
		return domain.Member{}, false, err
	}
	return m, true, nil
}

func (a *Auth) Logout(ctx context.Context) error {
	b := a.rec.Batch()
	b.Remove(records.CurrentUser)
	records.StageValue(b, records.AuthState, domain.AuthState{})
	return b.Commit(ctx)
}

// CurrentMember resolves the session pointer. ok is false when the pointer
// is absent or names a member that no longer exists.
func (a *Auth) CurrentMember(ctx context.Context) (domain.Member, bool) {
	id, ok := a.currentID(ctx)
	if !ok {
		return domain.Member{}, false
	}
	return findMember(records.Read[domain.Member](ctx, a.rec, records.Members), domain.MemberID(id))
}

// IsAuthenticated reports whether the session pointer is set. It does not
// check that the pointer resolves; see CurrentMember.
func (a *Auth) IsAuthenticated(ctx context.Context) bool {
	_, ok := a.currentID(ctx)
	return ok
}

// State returns the stored auth snapshot, or the logged-out state.
func (a *Auth) State(ctx context.Context) domain.AuthState {
	st, ok := records.ReadValue[domain.AuthState](ctx, a.rec, records.AuthState)
	if !ok {
		return domain.AuthState{}
	}
	return st
}

func (a *Auth) currentID(ctx context.Context) (string, bool) {
	id, ok, err := a.rec.KV().Get(ctx, string(records.CurrentUser))
	if err != nil {
		a.rec.Log().WithError(err).Error("reading session pointer")
		return "", false
	}
	return id, ok && id != ""
}

func (a *Auth) stageLogin(b *records.Batch, m domain.Member) {
	b.SetRaw(records.CurrentUser, string(m.ID))
	cur := cloneMember(m)
	records.StageValue(b, records.AuthState, domain.AuthState{IsAuthenticated: true, CurrentMember: &cur})
}

func (a *Auth) passwordMatches(ctx context.Context, id domain.MemberID, password string) bool {
	for _, c := range records.Read[domain.Credential](ctx, a.rec, records.Credentials) {
		if c.MemberID == id {
			return comparePassword(c.PasswordHash, password)
		}
	}
	return false
}
