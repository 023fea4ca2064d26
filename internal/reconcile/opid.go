package reconcile

import (
	"fmt"

	"github.com/google/uuid"
)

// OpIDGenerator produces the operation id attached to every log line of one
// Synchronize call.
type OpIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 operation ids.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator returns "<prefix>-1", "<prefix>-2", ... for tests and
// golden output.
type SequenceGenerator struct {
	Prefix string
	n      int
}

// Generate returns the next id in the sequence.
func (g *SequenceGenerator) Generate() string {
	g.n++
	prefix := g.Prefix
	if prefix == "" {
		prefix = "op"
	}
	return fmt.Sprintf("%s-%d", prefix, g.n)
}
