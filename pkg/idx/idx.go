// Package idx generates the ULIDs used as row ids and request ids.
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// generator hands out ULIDs from one monotonic source, so ids minted in the
// same millisecond still sort in creation order.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var global = sync.OnceValue(func() *generator {
	return &generator{entropy: ulid.Monotonic(rand.Reader, 0)}
})

// New returns an id stamped with the current UTC time.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt generates an ID at the provided time (UTC). Services pass their own
// clock so ids sort with the timestamps stored next to them.
func NewAt(t time.Time) ID {
	g := global()
	g.mu.Lock()
	defer g.mu.Unlock()

	// Panics only when the monotonic source overflows inside a single
	// millisecond, which would need 2^80 ids.
	return ID(ulid.MustNew(ulid.Timestamp(t), g.entropy).String())
}
