// Package idgen generates identifiers for chains and runs.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// Generator can generate IDs.
type Generator interface {
	// Generate returns a new ID.
	Generate() string
}

// NewSequential returns a generator that emits "1", "2", ... The IDs are
// deterministic, which keeps recorded runs reproducible.
func NewSequential() Generator {
	return &sequentialGenerator{}
}

// NewXID returns a generator of globally unique, non-deterministic IDs.
func NewXID() Generator {
	return xidGenerator{}
}

type sequentialGenerator struct {
	next uint64
}

func (g *sequentialGenerator) Generate() string {
	return strconv.FormatUint(atomic.AddUint64(&g.next, 1), 10)
}

type xidGenerator struct{}

func (xidGenerator) Generate() string {
	return xid.New().String()
}
