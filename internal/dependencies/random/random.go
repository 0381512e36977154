package random

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// Random is the source of every non-deterministic choice: which question is
// drawn, pairing codes and player IDs. Tests substitute mocks.MockRandom.
type Random interface {
	// Intn returns a value in [0, n), or 0 when n <= 0
	Intn(n int) int

	// String returns length characters drawn from alphabet
	String(length int, alphabet string) string

	// UUID returns a version 4 UUID string
	UUID() string
}

// CryptoRandom draws from crypto/rand
type CryptoRandom struct{}

func New() *CryptoRandom {
	return &CryptoRandom{}
}

func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	symbols := []rune(alphabet)
	out := make([]rune, length)
	for i := range out {
		out[i] = symbols[r.Intn(len(symbols))]
	}
	return string(out)
}

func (r *CryptoRandom) UUID() string {
	return uuid.NewString()
}
