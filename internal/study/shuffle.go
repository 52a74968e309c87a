package study

import (
	"math/rand/v2"
	"strconv"
	"unicode/utf16"
)

// Seed parameterizes the shuffled ordering. The same seed always produces the
// same order for the same card ids.
type Seed int64

// maxSeed keeps seeds within the range of integers that other clients can
// represent exactly.
const maxSeed = 1 << 53

// NewSeed draws a fresh shuffle seed.
func NewSeed() Seed {
	return Seed(rand.Int64N(maxSeed))
}

// String returns the decimal form that is mixed into OrderKey.
func (s Seed) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// OrderKey returns the shuffle sort key of a card. It hashes the UTF-16 code
// units of the card id followed by the decimal seed with hash*31 + unit,
// wrapping at 32 bits.
func OrderKey(cardID string, seed Seed) int32 {
	var hash int32
	for _, unit := range utf16.Encode([]rune(cardID + seed.String())) {
		hash = (hash << 5) - hash + int32(unit)
	}
	return hash
}
