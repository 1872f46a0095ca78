package database

import (
	"compress/gzip"
	"encoding/binary"
	"io"
	"unicode/utf8"
)

// DecodeOwned sequentially decodes a database from r, which must yield
// the exact byte stream Encode produced (gzip-wrapped or not, matching
// compressed). Random access through a compressed stream isn't
// practical, so this path reads everything into owned slices.
func DecodeOwned(r io.Reader, compressed bool) (*Owned, *Error) {
	if compressed {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, newError(DecompressionFailed, err)
		}
		defer gz.Close()
		r = gz
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, newError(DecompressionFailed, err)
	}

	body, sum, ok := splitChecksum(payload)
	if !ok {
		return nil, newError(TooShort, nil)
	}
	if checksumSpan(body) != sum {
		return nil, newError(InvalidLayout, nil)
	}

	h, derr := parseHeader(body)
	if derr != nil {
		return nil, derr
	}

	localityOffsets, localityDataLen, derr := readOffsetsTable(body, int(h.localityOffsetsOff), int(h.localityCount)+1)
	if derr != nil {
		return nil, derr
	}
	if h.localityDataOff != h.localityOffsetsOff+uint32(len(localityOffsets))*4 {
		return nil, newError(InvalidLayout, nil)
	}

	localityDataEnd := int(h.localityDataOff) + int(localityDataLen)
	if localityDataEnd > len(body) {
		return nil, newError(TooShort, nil)
	}
	localities, derr := decodeNames(localityOffsets, body[h.localityDataOff:localityDataEnd])
	if derr != nil {
		return nil, derr
	}

	expectedPublicSpaceOffsOff := h.localityDataOff + localityDataLen
	if h.publicSpaceOffsOff != expectedPublicSpaceOffsOff {
		return nil, newError(InvalidLayout, nil)
	}

	publicSpaceOffsets, publicSpaceDataLen, derr := readOffsetsTable(body, int(h.publicSpaceOffsOff), int(h.publicSpaceCount)+1)
	if derr != nil {
		return nil, derr
	}
	if h.publicSpaceDataOff != h.publicSpaceOffsOff+uint32(len(publicSpaceOffsets))*4 {
		return nil, newError(InvalidLayout, nil)
	}

	publicSpaceDataEnd := int(h.publicSpaceDataOff) + int(publicSpaceDataLen)
	if publicSpaceDataEnd > len(body) {
		return nil, newError(TooShort, nil)
	}
	publicSpaces, derr := decodeNames(publicSpaceOffsets, body[h.publicSpaceDataOff:publicSpaceDataEnd])
	if derr != nil {
		return nil, derr
	}

	expectedRangesOff := h.publicSpaceDataOff + publicSpaceDataLen
	if h.rangesOff != expectedRangesOff {
		return nil, newError(InvalidLayout, nil)
	}

	ranges := make([]NumberRange, 0, h.rangeCount)
	pos := int(h.rangesOff)
	for i := uint32(0); i < h.rangeCount; i++ {
		if pos+rangeRecordSize > len(body) {
			return nil, newError(TooShort, nil)
		}
		rec := body[pos : pos+rangeRecordSize]
		ranges = append(ranges, NumberRange{
			PostalCode:       binary.LittleEndian.Uint32(rec[0:4]),
			Start:            binary.LittleEndian.Uint32(rec[4:8]),
			Length:           binary.LittleEndian.Uint16(rec[8:10]),
			PublicSpaceIndex: binary.LittleEndian.Uint32(rec[10:14]),
			LocalityIndex:    binary.LittleEndian.Uint16(rec[14:16]),
		})
		pos += rangeRecordSize
	}

	if checksumSpan(body) != sum {
		return nil, newError(InvalidLayout, nil)
	}

	return &Owned{LocalityNames: localities, PublicSpaceNames: publicSpaces, Ranges: ranges}, nil
}

func splitChecksum(payload []byte) (body []byte, sum uint64, ok bool) {
	if len(payload) < checksumSize {
		return nil, 0, false
	}
	split := len(payload) - checksumSize
	sum, ok = readChecksum(payload[split:])
	if !ok {
		return nil, 0, false
	}
	return payload[:split], sum, true
}

func readOffsetsTable(body []byte, base, count int) ([]uint32, uint32, *Error) {
	offsets := make([]uint32, 0, count)
	last, derr := validateOffsetsTable(count, func(i int) (uint32, bool) {
		off := base + i*4
		if off+4 > len(body) {
			return 0, false
		}
		v := binary.LittleEndian.Uint32(body[off : off+4])
		offsets = append(offsets, v)
		return v, true
	})
	if derr != nil {
		return nil, 0, derr
	}
	return offsets, last, nil
}

func decodeNames(offsets []uint32, data []byte) ([]string, *Error) {
	if len(offsets) < 1 {
		return nil, newError(InvalidLayout, nil)
	}
	names := make([]string, 0, len(offsets)-1)
	for i := 0; i+1 < len(offsets); i++ {
		start, end := offsets[i], offsets[i+1]
		if start > end || uint64(end) > uint64(len(data)) {
			return nil, newError(InvalidLayout, nil)
		}
		b := data[start:end]
		if !utf8.Valid(b) {
			return nil, newError(InvalidLayout, nil)
		}
		names = append(names, string(b))
	}
	return names, nil
}

// IsEmpty reports whether the database has zero ranges.
func (db *Owned) IsEmpty() bool {
	return len(db.Ranges) == 0
}

// Lookup resolves postalCode/houseNumber against the decoded slices.
func (db *Owned) Lookup(postalCode string, houseNumber uint32) (publicSpace, locality string, ok bool) {
	return lookup(db, postalCode, houseNumber)
}

func (db *Owned) rangeCount() int { return len(db.Ranges) }

func (db *Owned) rangePostalCodeAt(i int) (uint32, bool) {
	if i < 0 || i >= len(db.Ranges) {
		return 0, false
	}
	return db.Ranges[i].PostalCode, true
}

func (db *Owned) rangeAt(i int) (NumberRange, bool) {
	if i < 0 || i >= len(db.Ranges) {
		return NumberRange{}, false
	}
	return db.Ranges[i], true
}

func (db *Owned) localityNameAt(index uint16) (string, bool) { return db.localityName(index) }

func (db *Owned) publicSpaceNameAt(index uint32) (string, bool) { return db.publicSpaceName(index) }

// Localities calls yield once per locality name, in file order.
func (db *Owned) Localities(yield func(name string) bool) {
	for _, name := range db.LocalityNames {
		if !yield(name) {
			return
		}
	}
}

func (db *Owned) localityName(index uint16) (string, bool) {
	i := int(index)
	if i < 0 || i >= len(db.LocalityNames) {
		return "", false
	}
	return db.LocalityNames[i], true
}

func (db *Owned) publicSpaceName(index uint32) (string, bool) {
	i := int(index)
	if i < 0 || i >= len(db.PublicSpaceNames) {
		return "", false
	}
	return db.PublicSpaceNames[i], true
}
