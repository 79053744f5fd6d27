package clock

import "time"

// Clock stamps createdAt/updatedAt on stored records.
// Tests substitute a manual implementation to control ordering.
type Clock interface {
	Now() time.Time
}
