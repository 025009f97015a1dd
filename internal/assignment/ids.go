package assignment

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for new assignments and subtasks.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random version 4 UUIDs.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// CounterGenerator issues prefix1, prefix2, ... in order. It is safe for
// concurrent use.
type CounterGenerator struct {
	Prefix string
	n      atomic.Uint64
}

// NewCounterGenerator returns a counter starting at 1.
func NewCounterGenerator(prefix string) *CounterGenerator {
	return &CounterGenerator{Prefix: prefix}
}

// NewID implements IDGenerator.
func (g *CounterGenerator) NewID() string {
	return g.Prefix + strconv.FormatUint(g.n.Add(1), 10)
}
