package patch

import (
	"testing"

	"github.com/oapi-codegen/nullable"
)

func TestApply(t *testing.T) {
	t.Parallel()

	s := "keep"
	Apply(&s, nullable.Nullable[string]{})
	if s != "keep" {
		t.Fatalf("unspecified changed value to %q", s)
	}
	Apply(&s, Value("new"))
	if s != "new" {
		t.Fatalf("value not applied, got %q", s)
	}
	Apply(&s, Null[string]())
	if s != "" {
		t.Fatalf("null should reset to zero, got %q", s)
	}
}

func TestApplyPtr(t *testing.T) {
	t.Parallel()

	var p *string
	ApplyPtr(&p, Value("x"))
	if p == nil || *p != "x" {
		t.Fatalf("value not applied: %v", p)
	}
	ApplyPtr(&p, nullable.Nullable[string]{})
	if p == nil {
		t.Fatalf("unspecified cleared the field")
	}
	ApplyPtr(&p, Null[string]())
	if p != nil {
		t.Fatalf("null did not clear the field")
	}
}

func TestApplySlice(t *testing.T) {
	t.Parallel()

	dst := []string{"a"}
	ApplySlice(&dst, nullable.Nullable[[]string]{})
	if len(dst) != 1 || dst[0] != "a" {
		t.Fatalf("unspecified changed value to %v", dst)
	}
	src := []string{"b", "c"}
	ApplySlice(&dst, Value(src))
	src[0] = "mutated"
	if len(dst) != 2 || dst[0] != "b" {
		t.Fatalf("value not copied, got %v", dst)
	}
	ApplySlice(&dst, Null[[]string]())
	if dst != nil {
		t.Fatalf("null should reset to nil, got %v", dst)
	}
}
