// Package posts manages community posts and their read-side joins.
package posts

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/oapi-codegen/nullable"
	"github.com/sirupsen/logrus"

	"github.com/forkthecity/microsite-store/internal/app/apperr"
	"github.com/forkthecity/microsite-store/internal/app/patch"
	"github.com/forkthecity/microsite-store/internal/app/records"
	"github.com/forkthecity/microsite-store/internal/domain"
	"github.com/forkthecity/microsite-store/internal/platform/idgen"
	"github.com/forkthecity/microsite-store/internal/platform/logging"
	clockport "github.com/forkthecity/microsite-store/internal/ports/out/clock"
)

type CreateInput struct {
	Title          string
	Description    string
	Category       string
	Location       string
	Images         []string
	OrganizationID *domain.OrganizationID
	BusinessID     *domain.BusinessID
}

type Patch struct {
	Title          nullable.Nullable[string]
	Description    nullable.Nullable[string]
	Category       nullable.Nullable[string]
	Status         nullable.Nullable[domain.PostStatus] // cannot be null
	Location       nullable.Nullable[string]
	Images         nullable.Nullable[[]string]
	Supporters     nullable.Nullable[int]
	OrganizationID nullable.Nullable[domain.OrganizationID]
	BusinessID     nullable.Nullable[domain.BusinessID]
}

type Service struct {
	rec   *records.Store
	clk   clockport.Clock
	newID idgen.Func
	deps  Deps
	log   logrus.FieldLogger
}

func NewService(rec *records.Store, clk clockport.Clock, newID idgen.Func, deps Deps, log logrus.FieldLogger) *Service {
	return &Service{rec: rec, clk: clk, newID: newID, deps: deps, log: logging.OrDiscard(log)}
}

// Create stores an open post with no supporters. A custom category has its
// usage counted afterwards; a failure there is logged and does not undo the post.
func (s *Service) Create(ctx context.Context, authorID domain.MemberID, in CreateInput) (domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Post{}, apperr.Validation("title", "must be non-empty")
	}
	if in.Category == "" {
		return domain.Post{}, apperr.Validation("category", "must be non-empty")
	}

	now := s.clk.Now()
	p := domain.Post{
		ID:             domain.PostID(s.newID()),
		AuthorID:       authorID,
		Title:          title,
		Description:    in.Description,
		Category:       in.Category,
		Status:         domain.PostStatusOpen,
		Location:       in.Location,
		Images:         slices.Clone(in.Images),
		Supporters:     0,
		OrganizationID: in.OrganizationID,
		BusinessID:     in.BusinessID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	ps := append(records.Read[domain.Post](ctx, s.rec, records.Posts), p)
	if err := records.Write(ctx, s.rec, records.Posts, ps); err != nil {
		return domain.Post{}, err
	}

	if !domain.IsBuiltinCategory(p.Category) && s.deps.Categories != nil {
		if err := s.deps.Categories.IncrementUsage(ctx, p.Category); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"post":     p.ID,
				"category": p.Category,
			}).Warn("category usage not recorded")
		}
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id domain.PostID) (domain.Post, bool) {
	ps := records.Read[domain.Post](ctx, s.rec, records.Posts)
	if i := postIndex(ps, id); i >= 0 {
		return ps[i], true
	}
	return domain.Post{}, false
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) []domain.Post {
	return newestFirst(records.Read[domain.Post](ctx, s.rec, records.Posts))
}

func (s *Service) ListByCategory(ctx context.Context, category string) []domain.Post {
	return s.filter(ctx, func(p domain.Post) bool { return p.Category == category })
}

func (s *Service) ListByStatus(ctx context.Context, status domain.PostStatus) []domain.Post {
	return s.filter(ctx, func(p domain.Post) bool { return p.Status == status })
}

func (s *Service) ListByAuthor(ctx context.Context, authorID domain.MemberID) []domain.Post {
	return s.filter(ctx, func(p domain.Post) bool { return p.AuthorID == authorID })
}

func (s *Service) filter(ctx context.Context, keep func(domain.Post) bool) []domain.Post {
	out := []domain.Post{}
	for _, p := range records.Read[domain.Post](ctx, s.rec, records.Posts) {
		if keep(p) {
			out = append(out, p)
		}
	}
	return newestFirst(out)
}

// GetWithAuthor joins the post with its author. A post whose author does not
// resolve is reported as not found.
func (s *Service) GetWithAuthor(ctx context.Context, id domain.PostID) (domain.PostWithAuthor, bool) {
	p, ok := s.GetByID(ctx, id)
	if !ok {
		return domain.PostWithAuthor{}, false
	}
	return s.join(ctx, p)
}

// ListWithAuthors joins every post, newest first, dropping posts whose
// author does not resolve.
func (s *Service) ListWithAuthors(ctx context.Context) []domain.PostWithAuthor {
	out := []domain.PostWithAuthor{}
	for _, p := range s.List(ctx) {
		if pw, ok := s.join(ctx, p); ok {
			out = append(out, pw)
		}
	}
	return out
}

func (s *Service) join(ctx context.Context, p domain.Post) (domain.PostWithAuthor, bool) {
	if s.deps.Members == nil {
		return domain.PostWithAuthor{}, false
	}
	author, ok := s.deps.Members.GetByID(ctx, p.AuthorID)
	if !ok {
		return domain.PostWithAuthor{}, false
	}
	out := domain.PostWithAuthor{Post: p, Author: author}
	if p.OrganizationID != nil && s.deps.Organizations != nil {
		if o, ok := s.deps.Organizations.GetByID(ctx, *p.OrganizationID); ok {
			out.Organization = &o
		}
	}
	if p.BusinessID != nil && s.deps.Businesses != nil {
		if b, ok := s.deps.Businesses.GetByID(ctx, *p.BusinessID); ok {
			out.Business = &b
		}
	}
	return out, true
}

// Update merges the patch and refreshes UpdatedAt, which always moves
// strictly forward even if the clock has not.
func (s *Service) Update(ctx context.Context, id domain.PostID, pt Patch) (domain.Post, error) {
	ps := records.Read[domain.Post](ctx, s.rec, records.Posts)
	idx := postIndex(ps, id)
	if idx < 0 {
		return domain.Post{}, apperr.NotFound("post", id)
	}
	p := ps[idx]

	if pt.Status.IsSpecified() {
		st, err := pt.Status.Get()
		if err != nil || !st.Valid() {
			return domain.Post{}, apperr.Validation("status", "unknown value "+string(st))
		}
		p.Status = st
	}
	patch.Apply(&p.Title, pt.Title)
	patch.Apply(&p.Description, pt.Description)
	patch.Apply(&p.Category, pt.Category)
	patch.Apply(&p.Location, pt.Location)
	patch.ApplySlice(&p.Images, pt.Images)
	patch.Apply(&p.Supporters, pt.Supporters)
	patch.ApplyPtr(&p.OrganizationID, pt.OrganizationID)
	patch.ApplyPtr(&p.BusinessID, pt.BusinessID)
	p.UpdatedAt = s.nextUpdate(p.UpdatedAt)

	ps[idx] = p
	if err := records.Write(ctx, s.rec, records.Posts, ps); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

// AddSupporter increments the supporter count through Update, so it also
// counts as an update.
func (s *Service) AddSupporter(ctx context.Context, id domain.PostID) (domain.Post, error) {
	p, ok := s.GetByID(ctx, id)
	if !ok {
		return domain.Post{}, apperr.NotFound("post", id)
	}
	return s.Update(ctx, id, Patch{Supporters: patch.Value(p.Supporters + 1)})
}

// Delete removes the post and every response to it in one batch.
func (s *Service) Delete(ctx context.Context, id domain.PostID) error {
	ps := records.Read[domain.Post](ctx, s.rec, records.Posts)
	idx := postIndex(ps, id)
	if idx < 0 {
		return apperr.NotFound("post", id)
	}
	ps = append(ps[:idx], ps[idx+1:]...)

	rs := records.Read[domain.PostResponse](ctx, s.rec, records.Responses)
	kept := make([]domain.PostResponse, 0, len(rs))
	for _, r := range rs {
		if r.PostID != id {
			kept = append(kept, r)
		}
	}

	b := s.rec.Batch()
	records.Stage(b, records.Posts, ps)
	if len(kept) != len(rs) {
		records.Stage(b, records.Responses, kept)
	}
	return b.Commit(ctx)
}

func (s *Service) nextUpdate(prev time.Time) time.Time {
	now := s.clk.Now()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

func newestFirst(ps []domain.Post) []domain.Post {
	slices.SortStableFunc(ps, func(a, b domain.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return ps
}

func postIndex(ps []domain.Post, id domain.PostID) int {
	for i, p := range ps {
		if p.ID == id {
			return i
		}
	}
	return -1
}
