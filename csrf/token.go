package csrf

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"strings"
	"sync"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Source yields 32 random bits per call. Implementations shared between
// goroutines must be safe for concurrent use.
type Source interface {
	Uint32() uint32
}

// CryptoSource reads from crypto/rand. It holds no state.
type CryptoSource struct{}

func (CryptoSource) Uint32() uint32 {
	var b [4]byte
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// SeededSource is a reproducible PCG source for tests and tooling.
type SeededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededSource) Uint32() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Uint32()
}

// StepSource returns the low 32 bits of an arithmetic sequence: initial,
// initial+increment, initial+2*increment, ...
type StepSource struct {
	mu   sync.Mutex
	v    uint64
	step uint64
}

func NewStepSource(initial, increment uint64) *StepSource {
	return &StepSource{v: initial, step: increment}
}

func (s *StepSource) Uint32() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := uint32(s.v)
	s.v += s.step
	return out
}

// Generator produces alphanumeric tokens from a Source.
type Generator struct {
	src Source
}

func NewGenerator(src Source) *Generator {
	if src == nil {
		src = CryptoSource{}
	}
	return &Generator{src: src}
}

// Generate returns a token of exactly length characters drawn uniformly
// from [A-Za-z0-9].
func (g *Generator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}
	var sb strings.Builder
	sb.Grow(length)
	for sb.Len() < length {
		sb.WriteByte(g.next())
	}
	return sb.String(), nil
}

// next keeps the top 6 bits of a draw and rejects values outside the
// alphabet, so every character is equally likely.
func (g *Generator) next() byte {
	for {
		v := g.src.Uint32() >> 26
		if v < uint32(len(alphabet)) {
			return alphabet[v]
		}
	}
}
