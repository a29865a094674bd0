// Package seed derives per-transform seeds from a composite's master seed and
// builds the RNG instances threaded into every corruption call.
package seed

import (
	"encoding/binary"
	"math/rand/v2"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// Default is the master seed used when a composite is built without one.
const Default uint64 = 151

const digestSize = 8

// pcg stream selector; any odd constant keeps streams independent of the state.
const stream uint64 = 0x9e3779b97f4a7c15

// Derive hashes (master, discriminator, position) into a 64-bit seed.
// The discriminator is used byte for byte: the same name always derives the
// same seed, and names differing only in case derive unrelated ones.
func Derive(master uint64, discriminator string, position int) uint64 {
	h, err := blake2b.New(digestSize, nil)
	if err != nil {
		// only reachable with an invalid digest size
		panic(err)
	}
	var buf [20]byte
	h.Write(strconv.AppendUint(buf[:0], master, 10))
	h.Write([]byte{0})
	h.Write([]byte(discriminator))
	h.Write([]byte{0})
	h.Write(strconv.AppendInt(buf[:0], int64(position), 10))
	return binary.BigEndian.Uint64(h.Sum(nil))
}

// NewRNG returns a fresh generator seeded with s.
func NewRNG(s uint64) *rand.Rand {
	return rand.New(rand.NewPCG(s, s^stream))
}
