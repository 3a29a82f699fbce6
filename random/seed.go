package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed returns a non-zero seed read from the OS entropy source.
func NewSeed() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("generate seed: %w", err)
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) &^ (1 << 63))
	if seed == 0 {
		seed = 1
	}
	return seed, nil
}
