package database

import "encoding/binary"

// header mirrors the 36-byte on-disk header (SPEC_FULL.md §4.4):
// magic, three counts, five section offsets. Every field past the
// magic is little-endian u32.
type header struct {
	localityCount      uint32
	publicSpaceCount   uint32
	rangeCount         uint32
	localityOffsetsOff uint32
	localityDataOff    uint32
	publicSpaceOffsOff uint32
	publicSpaceDataOff uint32
	rangesOff          uint32
}

// parseHeader reads and base-validates the header from the first
// headerSize bytes of b. It does not validate cross-offset
// consistency against the rest of the file; callers combine it with
// validateOffsetsTable and the section-specific checks in view.go /
// decode.go.
func parseHeader(b []byte) (header, *Error) {
	if len(b) < headerSize {
		return header{}, newError(TooShort, nil)
	}
	if string(b[0:4]) != magic {
		return header{}, newError(InvalidMagic, nil)
	}

	h := header{
		localityCount:      binary.LittleEndian.Uint32(b[4:8]),
		publicSpaceCount:   binary.LittleEndian.Uint32(b[8:12]),
		rangeCount:         binary.LittleEndian.Uint32(b[12:16]),
		localityOffsetsOff: binary.LittleEndian.Uint32(b[16:20]),
		localityDataOff:    binary.LittleEndian.Uint32(b[20:24]),
		publicSpaceOffsOff: binary.LittleEndian.Uint32(b[24:28]),
		publicSpaceDataOff: binary.LittleEndian.Uint32(b[28:32]),
		rangesOff:          binary.LittleEndian.Uint32(b[32:36]),
	}

	if h.localityOffsetsOff != headerSize {
		return header{}, newError(InvalidLayout, nil)
	}

	return h, nil
}

func writeHeader(w []byte, h header) {
	copy(w[0:4], magic)
	binary.LittleEndian.PutUint32(w[4:8], h.localityCount)
	binary.LittleEndian.PutUint32(w[8:12], h.publicSpaceCount)
	binary.LittleEndian.PutUint32(w[12:16], h.rangeCount)
	binary.LittleEndian.PutUint32(w[16:20], h.localityOffsetsOff)
	binary.LittleEndian.PutUint32(w[20:24], h.localityDataOff)
	binary.LittleEndian.PutUint32(w[24:28], h.publicSpaceOffsOff)
	binary.LittleEndian.PutUint32(w[28:32], h.publicSpaceDataOff)
	binary.LittleEndian.PutUint32(w[32:36], h.rangesOff)
}

// validateOffsetsTable checks that offsets (read via at(i)) starts at
// 0 and is monotonically non-decreasing, returning the final
// (data-block-length) value.
func validateOffsetsTable(count int, at func(i int) (uint32, bool)) (uint32, *Error) {
	if count < 1 {
		return 0, newError(InvalidLayout, nil)
	}
	first, ok := at(0)
	if !ok {
		return 0, newError(TooShort, nil)
	}
	if first != 0 {
		return 0, newError(InvalidLayout, nil)
	}

	prev := first
	for i := 1; i < count; i++ {
		v, ok := at(i)
		if !ok {
			return 0, newError(TooShort, nil)
		}
		if v < prev {
			return 0, newError(InvalidLayout, nil)
		}
		prev = v
	}
	return prev, nil
}
