package database

import (
	"encoding/binary"
	"os"
	"unicode/utf8"
	"unsafe"
)

// View is a zero-copy reader over a byte slice holding an uncompressed
// database file. Every name and range is read by computing a byte
// offset on demand; nothing is copied into owned buffers. Names
// returned from View are borrows into the slice it was built from —
// the caller must keep that slice (and, if it came from OpenView, the
// *View itself) alive for as long as any returned string is in use.
type View struct {
	data []byte

	localityCount    uint32
	publicSpaceCount uint32
	numRanges        uint32

	localityOffsetsOff int
	localityDataOff    int
	localityDataEnd    int

	publicSpaceOffsOff int
	publicSpaceDataOff int
	publicSpaceDataEnd int

	rangesOff int

	closer func() error
}

// OpenView maps path and validates it as an uncompressed database file.
// The caller must call Close when done to release the mapping.
func OpenView(path string) (*View, error) {
	data, closer, err := mmapFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newError(NotFound, err)
		}
		return nil, err
	}

	v, derr := NewView(data)
	if derr != nil {
		closer()
		return nil, derr
	}
	v.closer = closer
	return v, nil
}

// Close releases the backing mapping (or buffer) for a View opened
// with OpenView. Views built directly from NewView over a
// caller-owned slice have nothing to release; Close is a no-op for
// them.
func (v *View) Close() error {
	if v.closer == nil {
		return nil
	}
	return v.closer()
}

// NewView validates b as a database file and returns a zero-copy View
// over it. b is not copied; it must outlive the returned View.
func NewView(b []byte) (*View, *Error) {
	body, sum, ok := splitChecksum(b)
	if !ok {
		return nil, newError(TooShort, nil)
	}

	h, err := parseHeader(body)
	if err != nil {
		return nil, err
	}

	localityOffsetsLen := (uint64(h.localityCount) + 1) * 4
	localityOffsetsEnd := uint64(h.localityOffsetsOff) + localityOffsetsLen
	expectedLocalityDataOff := uint64(h.localityOffsetsOff) + localityOffsetsLen
	if uint64(h.localityDataOff) != expectedLocalityDataOff {
		return nil, newError(InvalidLayout, nil)
	}
	if localityOffsetsEnd > uint64(len(body)) {
		return nil, newError(TooShort, nil)
	}

	localityDataLen, err := validateOffsetsTable(int(h.localityCount)+1, func(i int) (uint32, bool) {
		off := int(h.localityOffsetsOff) + i*4
		if off+4 > len(body) {
			return 0, false
		}
		return binary.LittleEndian.Uint32(body[off : off+4]), true
	})
	if err != nil {
		return nil, err
	}
	if localityDataLen == 0 && h.localityCount != 0 {
		return nil, newError(InvalidLayout, nil)
	}

	expectedPublicSpaceOffsOff := uint64(h.localityDataOff) + uint64(localityDataLen)
	if uint64(h.publicSpaceOffsOff) != expectedPublicSpaceOffsOff {
		return nil, newError(InvalidLayout, nil)
	}

	publicSpaceOffsetsLen := (uint64(h.publicSpaceCount) + 1) * 4
	publicSpaceOffsetsEnd := uint64(h.publicSpaceOffsOff) + publicSpaceOffsetsLen
	expectedPublicSpaceDataOff := uint64(h.publicSpaceOffsOff) + publicSpaceOffsetsLen
	if uint64(h.publicSpaceDataOff) != expectedPublicSpaceDataOff {
		return nil, newError(InvalidLayout, nil)
	}
	if publicSpaceOffsetsEnd > uint64(len(body)) {
		return nil, newError(TooShort, nil)
	}

	publicSpaceDataLen, err := validateOffsetsTable(int(h.publicSpaceCount)+1, func(i int) (uint32, bool) {
		off := int(h.publicSpaceOffsOff) + i*4
		if off+4 > len(body) {
			return 0, false
		}
		return binary.LittleEndian.Uint32(body[off : off+4]), true
	})
	if err != nil {
		return nil, err
	}
	if publicSpaceDataLen == 0 && h.publicSpaceCount != 0 {
		return nil, newError(InvalidLayout, nil)
	}

	expectedRangesOff := uint64(h.publicSpaceDataOff) + uint64(publicSpaceDataLen)
	if uint64(h.rangesOff) != expectedRangesOff {
		return nil, newError(InvalidLayout, nil)
	}

	rangesLen := uint64(h.rangeCount) * rangeRecordSize
	rangesEnd := uint64(h.rangesOff) + rangesLen
	if rangesEnd > uint64(len(body)) {
		return nil, newError(TooShort, nil)
	}

	if checksumSpan(body) != sum {
		return nil, newError(InvalidLayout, nil)
	}

	return &View{
		data:               b,
		localityCount:      h.localityCount,
		publicSpaceCount:   h.publicSpaceCount,
		numRanges:          h.rangeCount,
		localityOffsetsOff: int(h.localityOffsetsOff),
		localityDataOff:    int(h.localityDataOff),
		localityDataEnd:    int(h.publicSpaceOffsOff),
		publicSpaceOffsOff: int(h.publicSpaceOffsOff),
		publicSpaceDataOff: int(h.publicSpaceDataOff),
		publicSpaceDataEnd: int(h.rangesOff),
		rangesOff:          int(h.rangesOff),
	}, nil
}

// IsEmpty reports whether the database has zero ranges.
func (v *View) IsEmpty() bool {
	return v.numRanges == 0
}

// Lookup resolves postalCode/houseNumber against the view's backing
// bytes without copying any name data; the returned strings borrow
// those bytes.
func (v *View) Lookup(postalCode string, houseNumber uint32) (publicSpace, locality string, ok bool) {
	return lookup(v, postalCode, houseNumber)
}

func (v *View) rangeCount() int { return int(v.numRanges) }

func (v *View) rangePostalCodeAt(i int) (uint32, bool) { return v.rangePostalCode(i) }

func (v *View) localityNameAt(index uint16) (string, bool) { return v.localityName(index) }

func (v *View) publicSpaceNameAt(index uint32) (string, bool) { return v.publicSpaceName(index) }

// Localities calls yield once per locality name, in file order.
func (v *View) Localities(yield func(name string) bool) {
	for i := uint32(0); i < v.localityCount && i <= uint32(^uint16(0)); i++ {
		name, ok := v.localityName(uint16(i))
		if !ok || !yield(name) {
			return
		}
	}
}

func (v *View) rangePostalCode(index int) (uint32, bool) {
	base, ok := v.rangeOffset(index)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(v.data[base : base+4]), true
}

func (v *View) rangeAt(index int) (NumberRange, bool) {
	base, ok := v.rangeOffset(index)
	if !ok {
		return NumberRange{}, false
	}
	return NumberRange{
		PostalCode:       binary.LittleEndian.Uint32(v.data[base : base+4]),
		Start:            binary.LittleEndian.Uint32(v.data[base+4 : base+8]),
		Length:           binary.LittleEndian.Uint16(v.data[base+8 : base+10]),
		PublicSpaceIndex: binary.LittleEndian.Uint32(v.data[base+10 : base+14]),
		LocalityIndex:    binary.LittleEndian.Uint16(v.data[base+14 : base+16]),
	}, true
}

func (v *View) rangeOffset(index int) (int, bool) {
	if index < 0 {
		return 0, false
	}
	base := v.rangesOff + index*rangeRecordSize
	if base+rangeRecordSize > len(v.data) {
		return 0, false
	}
	return base, true
}

func (v *View) localityName(index uint16) (string, bool) {
	return v.nameAt(v.localityOffsetsOff, v.localityDataOff, v.localityDataEnd, uint32(index), v.localityCount)
}

func (v *View) publicSpaceName(index uint32) (string, bool) {
	return v.nameAt(v.publicSpaceOffsOff, v.publicSpaceDataOff, v.publicSpaceDataEnd, index, v.publicSpaceCount)
}

func (v *View) nameAt(offsetsOff, dataOff, dataEnd int, index, count uint32) (string, bool) {
	if index >= count {
		return "", false
	}

	startOff := offsetsOff + int(index)*4
	endOff := offsetsOff + int(index+1)*4
	if endOff+4 > len(v.data) {
		return "", false
	}
	start := int(binary.LittleEndian.Uint32(v.data[startOff : startOff+4]))
	end := int(binary.LittleEndian.Uint32(v.data[endOff : endOff+4]))
	if start > end {
		return "", false
	}

	startAbs := dataOff + start
	endAbs := dataOff + end
	if endAbs > dataEnd || startAbs > endAbs || endAbs > len(v.data) {
		return "", false
	}

	b := v.data[startAbs:endAbs]
	if !utf8.Valid(b) {
		return "", false
	}
	// b borrows v.data directly: no allocation, no copy. The caller must
	// keep v.data (and, for an OpenView-backed View, the View itself)
	// alive for as long as the returned string is in use.
	return unsafe.String(unsafe.SliceData(b), len(b)), true
}
