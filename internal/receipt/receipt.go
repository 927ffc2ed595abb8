// Package receipt issues the short codes printed on order receipts.
package receipt

import (
	"crypto/rand"
	"math/big"
)

const (
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	Length   = 8
)

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generate returns n symbols drawn uniformly, with replacement, from Alphabet.
// Codes are not checked for uniqueness here.
func Generate(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken.
			panic(err)
		}
		b[i] = Alphabet[idx.Int64()]
	}
	return string(b)
}

// New returns a code of the standard receipt Length.
func New() string { return Generate(Length) }
