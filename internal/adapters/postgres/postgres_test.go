package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsCapacityError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "disk full", err: &pgconn.PgError{Code: DiskFullCode}, want: true},
		{name: "wrapped limit", err: fmt.Errorf("commit: %w", &pgconn.PgError{Code: ProgramLimitExceededCode}), want: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsCapacityError(tc.err); got != tc.want {
				t.Fatalf("IsCapacityError(%v)=%v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
