// Package responses manages replies to posts. Replies are listed oldest
// first, in conversation order.
package responses

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

type MemberLookup interface {
	GetByID(ctx context.Context, id domain.MemberID) (domain.Member, bool)
}

type CreateInput struct {
	Content          string
	Images           []string
	ParentResponseID *domain.ResponseID
}

type Patch struct {
	Content nullable.Nullable[string]
	Images  nullable.Nullable[[]string]
}

type Service struct {
	rec     *records.Store
	clk     clockport.Clock
	newID   idgen.Func
	members MemberLookup
}

func NewService(rec *records.Store, clk clockport.Clock, newID idgen.Func, members MemberLookup) *Service {
	return &Service{rec: rec, clk: clk, newID: newID, members: members}
}

// Create stores a reply. Neither the post nor the parent response is checked
// for existence.
func (s *Service) Create(ctx context.Context, postID domain.PostID, authorID domain.MemberID, in CreateInput) (domain.PostResponse, error) {
	if strings.TrimSpace(in.Content) == "" {
		return domain.PostResponse{}, apperr.Validation("content", "must be non-empty")
	}
	now := s.clk.Now()
	r := domain.PostResponse{
		ID:               domain.ResponseID(s.newID()),
		PostID:           postID,
		AuthorID:         authorID,
		Content:          in.Content,
		Images:           slices.Clone(in.Images),
		ParentResponseID: in.ParentResponseID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	rs := append(records.Read[domain.PostResponse](ctx, s.rec, records.Responses), r)
	if err := records.Write(ctx, s.rec, records.Responses, rs); err != nil {
		return domain.PostResponse{}, err
	}
	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id domain.ResponseID) (domain.PostResponse, bool) {
	rs := records.Read[domain.PostResponse](ctx, s.rec, records.Responses)
	if i := responseIndex(rs, id); i >= 0 {
		return rs[i], true
	}
	return domain.PostResponse{}, false
}

// ListByPostID returns the replies to postID, oldest first.
func (s *Service) ListByPostID(ctx context.Context, postID domain.PostID) []domain.PostResponse {
	out := []domain.PostResponse{}
	for _, r := range records.Read[domain.PostResponse](ctx, s.rec, records.Responses) {
		if r.PostID == postID {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.PostResponse) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

// ListByPostIDWithAuthors joins each reply with its author, dropping replies
// whose author does not resolve.
func (s *Service) ListByPostIDWithAuthors(ctx context.Context, postID domain.PostID) []domain.ResponseWithAuthor {
	out := []domain.ResponseWithAuthor{}
	if s.members == nil {
		return out
	}
	for _, r := range s.ListByPostID(ctx, postID) {
		if m, ok := s.members.GetByID(ctx, r.AuthorID); ok {
			out = append(out, domain.ResponseWithAuthor{PostResponse: r, Author: m})
		}
	}
	return out
}

func (s *Service) Update(ctx context.Context, id domain.ResponseID, p Patch) (domain.PostResponse, error) {
	rs := records.Read[domain.PostResponse](ctx, s.rec, records.Responses)
	idx := responseIndex(rs, id)
	if idx < 0 {
		return domain.PostResponse{}, apperr.NotFound("response", id)
	}
	r := rs[idx]
	patch.Apply(&r.Content, p.Content)
	patch.ApplySlice(&r.Images, p.Images)
	r.UpdatedAt = s.clk.Now()

	rs[idx] = r
	if err := records.Write(ctx, s.rec, records.Responses, rs); err != nil {
		return domain.PostResponse{}, err
	}
	return r, nil
}

// Delete removes one reply. Replies threaded under it keep their now
// dangling ParentResponseID.
func (s *Service) Delete(ctx context.Context, id domain.ResponseID) error {
	rs := records.Read[domain.PostResponse](ctx, s.rec, records.Responses)
	idx := responseIndex(rs, id)
	if idx < 0 {
		return apperr.NotFound("response", id)
	}
	return records.Write(ctx, s.rec, records.Responses, append(rs[:idx], rs[idx+1:]...))
}

func responseIndex(rs []domain.PostResponse, id domain.ResponseID) int {
	for i, r := range rs {
		if r.ID == id {
			return i
		}
	}
	return -1
}
