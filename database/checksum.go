package database

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// checksumSpan returns the xxh3-64 of b, used as the content-addressing
// trailer described in SPEC_FULL.md §4.4a. Grounded on
// OgurtsovAndrei-Thesis/bits/uint64_array_bit_string.go's xxh3.New /
// Write / Sum64 pattern; the whole span is already in memory by the
// time a checksum is computed or verified, so it is hashed with a
// single Write.
func checksumSpan(b []byte) uint64 {
	h := xxh3.New()
	h.Write(b)
	return h.Sum64()
}

func appendChecksum(dst []byte, sum uint64) []byte {
	var buf [checksumSize]byte
	binary.LittleEndian.PutUint64(buf[:], sum)
	return append(dst, buf[:]...)
}

func readChecksum(b []byte) (uint64, bool) {
	if len(b) < checksumSize {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b[:checksumSize]), true
}
