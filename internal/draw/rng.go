package draw

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/big"
	"math/rand/v2"
	"sync"
)

// RandomSource supplies the randomness for jitter, shuffles and selection.
type RandomSource interface {
	Float64() float64 // [0, 1)
	IntN(n int) int   // [0, n), n > 0
}

// cryptoSource is the default. Every production draw uses it.
type cryptoSource struct{}

func (cryptoSource) Float64() float64 {
	var buf [8]byte
	cryptoRand.Read(buf[:])
	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

func (cryptoSource) IntN(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("draw: crypto/rand failed: " + err.Error())
	}
	return int(v.Int64())
}

// CryptoSource returns the crypto/rand backed source
func CryptoSource() RandomSource { return cryptoSource{} }

// seededSource is reproducible. Only simulations and tests use it.
type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a deterministic PCG source
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *seededSource) IntN(n int) int {
	if n <= 1 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// shuffle is an in-place Fisher-Yates shuffle
func shuffle[T any](items []T, rng RandomSource) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
