package utils

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// UUIDGenerator hands out random v4 identifiers for linkIds, option codes
// and option systems.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator produces "<prefix>-1", "<prefix>-2", ... and is used where
// reproducible identifiers matter, such as scripted edits and tests.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next)
}
