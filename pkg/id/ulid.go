// Package id generates ULIDs for request correlation.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Crockford base32. I, L, O, and U are excluded to avoid misreads.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID returns a 26-character ULID: 48 bits of millisecond timestamp
// followed by 80 bits of randomness, Crockford-base32 encoded. IDs sort
// lexicographically by creation time, which keeps request IDs greppable
// in time order.
func NewULID() string {
	var bin [16]byte

	ms := uint64(time.Now().UnixMilli())
	bin[0] = byte(ms >> 40)
	bin[1] = byte(ms >> 32)
	bin[2] = byte(ms >> 24)
	bin[3] = byte(ms >> 16)
	bin[4] = byte(ms >> 8)
	bin[5] = byte(ms)

	if _, err := rand.Read(bin[6:]); err != nil {
		// crypto/rand never fails on supported platforms; keep the ID
		// usable anyway with time-derived entropy.
		binary.BigEndian.PutUint64(bin[6:14], uint64(time.Now().UnixNano()))
	}

	// Treat the 16 bytes as one 128-bit integer and peel off 5 bits per
	// character, right to left. 26 chars hold 130 bits, so the first
	// character only ever uses 3 bits (it stays in '0'..'7').
	hi := binary.BigEndian.Uint64(bin[:8])
	lo := binary.BigEndian.Uint64(bin[8:])

	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = alphabet[lo&0x1F]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
