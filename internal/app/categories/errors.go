package categories

import (
	"fmt"

	"github.com/forkthecity/microsite-store/internal/app/apperr"
)

type DuplicateKind string

const (
	// DuplicateBuiltin: the name is one of domain.BuiltinCategories.
	DuplicateBuiltin DuplicateKind = "builtin"
	// DuplicateExact: a custom category already has this normalized name.
	DuplicateExact DuplicateKind = "exact"
	// DuplicateFuzzy: a custom category name is more than SimilarityThreshold similar.
	DuplicateFuzzy DuplicateKind = "fuzzy"
)

// DuplicateError is returned by Create when the proposed category collides
// with an existing one. Form handlers branch on Kind and show Existing.
type DuplicateError struct {
	Kind DuplicateKind
	// Name is the normalized name that was rejected.
	Name string
	// Existing is the display name of the category it collides with.
	Existing string
	// ExistingName is the normalized name of that category, usable as a
	// post's category in place of the rejected one.
	ExistingName string
	// Similarity is set for fuzzy matches (1 for exact and builtin ones).
	Similarity float64
}

func (e *DuplicateError) Error() string {
	switch e.Kind {
	case DuplicateBuiltin:
		return fmt.Sprintf("%q is a built-in category", e.Existing)
	case DuplicateExact:
		return fmt.Sprintf("category %q already exists", e.Existing)
	default:
		return fmt.Sprintf("%q is too similar to existing category %q (%.0f%% similar)", e.Name, e.Existing, e.Similarity*100)
	}
}

// Is lets errors.Is(err, apperr.ErrDuplicateCategory) match.
func (e *DuplicateError) Is(target error) bool {
	return target == apperr.ErrDuplicateCategory
}
