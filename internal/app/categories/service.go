// Package categories manages member-coined post categories, rejecting names
// that duplicate a built-in or, exactly or approximately, another custom one.
package categories

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/forkthecity/microsite-store/internal/app/apperr"
	"github.com/forkthecity/microsite-store/internal/app/records"
	"github.com/forkthecity/microsite-store/internal/domain"
	"github.com/forkthecity/microsite-store/internal/platform/idgen"
	"github.com/forkthecity/microsite-store/internal/platform/logging"
	clockport "github.com/forkthecity/microsite-store/internal/ports/out/clock"
)

// SimilarityThreshold is exclusive: a score of exactly 0.7 is accepted.
const SimilarityThreshold = 0.7

type Service struct {
	rec   *records.Store
	clk   clockport.Clock
	newID idgen.Func
	log   logrus.FieldLogger
}

func NewService(rec *records.Store, clk clockport.Clock, newID idgen.Func, log logrus.FieldLogger) *Service {
	return &Service{rec: rec, clk: clk, newID: newID, log: logging.OrDiscard(log)}
}

// Create normalizes rawName and stores it as a new custom category.
// Collisions are reported as *DuplicateError.
func (s *Service) Create(ctx context.Context, createdBy domain.MemberID, rawName string) (domain.CustomCategory, error) {
	name := domain.NormalizeCategoryName(rawName)
	if name == "" {
		return domain.CustomCategory{}, apperr.Validation("name", "must be non-empty")
	}
	if domain.IsBuiltinCategory(name) {
		return domain.CustomCategory{}, &DuplicateError{Kind: DuplicateBuiltin, Name: name, Existing: name, ExistingName: name, Similarity: 1}
	}

	cs := records.Read[domain.CustomCategory](ctx, s.rec, records.Categories)
	for _, c := range cs {
		if c.Name == name {
			return domain.CustomCategory{}, &DuplicateError{Kind: DuplicateExact, Name: name, Existing: c.DisplayName, ExistingName: c.Name, Similarity: 1}
		}
	}
	for _, c := range cs {
		if sim := domain.Similarity(name, c.Name); sim > SimilarityThreshold {
			return domain.CustomCategory{}, &DuplicateError{Kind: DuplicateFuzzy, Name: name, Existing: c.DisplayName, ExistingName: c.Name, Similarity: sim}
		}
	}

	c := domain.CustomCategory{
		ID:          domain.CategoryID(s.newID()),
		Name:        name,
		DisplayName: strings.TrimSpace(rawName),
		CreatedBy:   createdBy,
		CreatedAt:   s.clk.Now(),
	}
	if err := records.Write(ctx, s.rec, records.Categories, append(cs, c)); err != nil {
		return domain.CustomCategory{}, err
	}
	s.log.WithFields(logrus.Fields{"category": c.Name, "createdBy": createdBy}).Debug("custom category created")
	return c, nil
}

func (s *Service) List(ctx context.Context) []domain.CustomCategory {
	return records.Read[domain.CustomCategory](ctx, s.rec, records.Categories)
}

// AllNames returns the built-in names followed by custom names in storage order.
func (s *Service) AllNames(ctx context.Context) []string {
	cs := s.List(ctx)
	out := make([]string, 0, len(domain.BuiltinCategories)+len(cs))
	out = append(out, domain.BuiltinCategories...)
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

// IncrementUsage bumps the usage counter of the named category. Unknown
// names are ignored.
func (s *Service) IncrementUsage(ctx context.Context, name string) error {
	cs := s.List(ctx)
	for i := range cs {
		if cs[i].Name == name {
			cs[i].UsageCount++
			return records.Write(ctx, s.rec, records.Categories, cs)
		}
	}
	return nil
}

// Verify marks a category as verified. Unknown ids are ignored.
func (s *Service) Verify(ctx context.Context, id domain.CategoryID) error {
	cs := s.List(ctx)
	for i := range cs {
		if cs[i].ID == id {
			cs[i].Verified = true
			return records.Write(ctx, s.rec, records.Categories, cs)
		}
	}
	return nil
}
