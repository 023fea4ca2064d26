package testutil

// Sequence hands out store ids deterministically, starting at 1.
//
// Unlike a database autoincrement, Sequence can be reset so the same test
// scenario always produces the same ids.
type Sequence struct {
	n int64
}

// NewSequence creates a sequence whose first Next() returns start+1.
func NewSequence(start int64) *Sequence {
	return &Sequence{n: start}
}

// Next returns the next id.
func (s *Sequence) Next() int64 {
	s.n++
	return s.n
}

// Current returns the last id handed out, or the start value.
func (s *Sequence) Current() int64 {
	return s.n
}

// Reset rewinds the sequence to zero.
func (s *Sequence) Reset() {
	s.n = 0
}

// FixedOpIDGenerator returns the same operation id every time, so log output
// and results can be compared byte for byte.
type FixedOpIDGenerator struct {
	id string
}

// NewFixedOpIDGenerator creates a generator for id. An empty id becomes
// "test-op".
func NewFixedOpIDGenerator(id string) *FixedOpIDGenerator {
	if id == "" {
		id = "test-op"
	}
	return &FixedOpIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedOpIDGenerator) Generate() string {
	return g.id
}
