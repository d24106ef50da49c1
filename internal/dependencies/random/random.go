package random

import (
	"crypto/rand"
	"math/big"
)

// Random picks login cameras and phone numbers. Tests substitute a
// deterministic implementation.
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n). It returns 0 for
// n <= 0.
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS source is broken
		panic("random: " + err.Error())
	}
	return int(result.Int64())
}
