package directory

import (
	"crypto/rand"
	"errors"
)

// idLength is the fixed length of generated entity identifiers. 30 base36
// characters carry ~155 bits of entropy, enough to treat collisions as
// negligible without a store round-trip.
const idLength = 30

// idAlphabet deliberately excludes the key separator '#'.
const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ErrIDGeneration indicates the system entropy source failed.
var ErrIDGeneration = errors.New("directory: id generation failed")

// newID returns a fresh fixed-length random identifier.
func newID() (string, error) {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrIDGeneration, err)
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf), nil
}
