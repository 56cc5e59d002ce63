// Package ids supplies unique ids for compiled document entities. The
// generator is passed explicitly to every consumer so tests can pin ids to
// fixed or sequential values.
package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces a unique id per call.
type Generator interface {
	NewID() string
}

// UUID generates random UUIDv4 ids. The zero value is ready to use.
type UUID struct{}

func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence generates "id-0", "id-1", ... deterministically. Safe for
// concurrent use.
type Sequence struct {
	n atomic.Int64
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("id-%d", s.n.Add(1)-1)
}

// Fixed returns the same id on every call.
type Fixed string

func (f Fixed) NewID() string {
	return string(f)
}
