// Package idgen mints record identifiers.
package idgen

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	clockport "github.com/forkthecity/microsite-store/internal/ports/out/clock"
)

// Func returns a fresh identifier on every call.
type Func func() string

const (
	SchemeLocal = "local"
	SchemeUUID  = "uuid"
)

// randomLen is the length of the base36 random suffix of local ids.
const randomLen = 9

// Local returns ids of the form "<unix millis>-<9 base36 chars>", e.g.
// "1760600000000-k3j9x0a1b". They sort roughly by creation time and are
// unique within a single writer; they are not coordinated across writers.
func Local(clk clockport.Clock) Func {
	return func() string {
		return fmt.Sprintf("%d-%s", clk.Now().UnixMilli(), randomSuffix())
	}
}

// UUID returns random (version 4) UUID strings, for stores shared by several writers.
func UUID() Func {
	return uuid.NewString
}

// New selects a generator by scheme name.
func New(scheme string, clk clockport.Clock) (Func, error) {
	switch scheme {
	case SchemeLocal, "":
		return Local(clk), nil
	case SchemeUUID:
		return UUID(), nil
	default:
		return nil, fmt.Errorf("unknown id scheme: %q (supported: local, uuid)", scheme)
	}
}

func randomSuffix() string {
	u := uuid.New()
	n := binary.BigEndian.Uint64(u[:8])
	s := strconv.FormatUint(n, 36)
	if len(s) < randomLen {
		s = strings.Repeat("0", randomLen-len(s)) + s
	}
	return s[len(s)-randomLen:]
}
