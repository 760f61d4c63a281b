// Package engine provides the deterministic random source used for shoe
// shuffling. Floats are derived from an HMAC-SHA256 stream keyed by a
// server/client seed pair and a nonce (the shoe number), so any shuffle can
// be reproduced exactly from its seeds.
package engine

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// Seeds identifies one reproducible stream of randomness.
type Seeds struct {
	Server string `json:"server"`
	Client string `json:"client"`
}

// RandomSeeds returns a fresh seed pair from the system CSPRNG.
func RandomSeeds() Seeds {
	return Seeds{Server: randomHex(32), Client: randomHex(16)}
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(buf)
}

// byteStream generates bytes using HMAC-SHA256 in 32-byte rounds.
type byteStream struct {
	seeds        Seeds
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

func newByteStream(seeds Seeds, nonce uint64) *byteStream {
	bs := &byteStream{seeds: seeds, nonce: nonce}
	bs.generateRound()
	return bs
}

func (bs *byteStream) next() byte {
	if bs.currentPos >= 32 {
		bs.currentRound++
		bs.currentPos = 0
		bs.generateRound()
	}
	b := bs.buffer[bs.currentPos]
	bs.currentPos++
	return b
}

func (bs *byteStream) generateRound() {
	h := hmac.New(sha256.New, []byte(bs.seeds.Server))
	message := fmt.Sprintf("%s:%d:%d", bs.seeds.Client, bs.nonce, bs.currentRound)
	h.Write([]byte(message))
	copy(bs.buffer[:], h.Sum(nil))
}

// nextFloat consumes exactly 4 bytes and maps them to [0, 1).
func (bs *byteStream) nextFloat() float64 {
	result := 0.0
	for i := 0; i < 4; i++ {
		divider := math.Pow(256, float64(i+1))
		result += float64(bs.next()) / divider
	}
	return result
}

// Source is a deterministic random source bound to one (seeds, nonce) pair.
type Source struct {
	stream *byteStream
}

// NewSource creates a source for the given seeds and nonce.
func NewSource(seeds Seeds, nonce uint64) *Source {
	return &Source{stream: newByteStream(seeds, nonce)}
}

// Float64 returns the next float in [0, 1).
func (s *Source) Float64() float64 {
	return s.stream.nextFloat()
}

// Intn returns a uniform integer in [0, n). n must be positive.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("engine: Intn called with non-positive n")
	}
	i := int(math.Floor(s.Float64() * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i
}

// Shuffle performs a Fisher-Yates shuffle over n elements using swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		swap(i, j)
	}
}

// Floats generates count floats starting from a fresh stream. Exposed for
// verification and tests.
func Floats(seeds Seeds, nonce uint64, count int) []float64 {
	bs := newByteStream(seeds, nonce)
	floats := make([]float64, count)
	for i := range floats {
		floats[i] = bs.nextFloat()
	}
	return floats
}
