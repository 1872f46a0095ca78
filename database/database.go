// Package database implements the BAG address-lookup binary file
// format: the header and layout, a streaming decoder, a zero-copy
// mmap view, and the postal-code + house-number lookup algorithm that
// runs over either one. See SPEC_FULL.md §4 for the exact byte layout.
package database

const (
	magic      = "BAG1"
	headerSize = 36

	// rangeRecordSize is the on-disk size of one NumberRange: u32
	// postal_code, u32 start, u16 length, u32 public_space_index, u16
	// locality_index.
	rangeRecordSize = 16

	// checksumSize is the size of the trailing content-hash footer
	// appended after the last range record (SPEC_FULL.md §4.4a).
	checksumSize = 8
)

// NumberRange is a contiguous run of house numbers, from start to
// start+length inclusive, sharing one postal code, public space, and
// locality.
type NumberRange struct {
	PostalCode       uint32
	Start            uint32
	Length           uint16
	PublicSpaceIndex uint32
	LocalityIndex    uint16
}

// End returns the inclusive upper bound of the range, saturating
// instead of overflowing.
func (r NumberRange) End() uint32 {
	end := uint64(r.Start) + uint64(r.Length)
	if end > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(end)
}

// Handle is the common read surface shared by the owned (decoded) and
// zero-copy (mmap view) database representations. Exactly one of
// DecodeOwned or OpenView/NewView produces a Handle; callers that only
// need to query a database should depend on this interface, not on a
// concrete type.
type Handle interface {
	// IsEmpty reports whether the database has zero ranges.
	IsEmpty() bool

	// Lookup resolves a postal code and house number to a (public
	// space name, locality name) pair. It returns ok=false, not an
	// error, when the postal code is malformed or no range covers the
	// house number.
	Lookup(postalCode string, houseNumber uint32) (publicSpace, locality string, ok bool)

	// Localities calls yield once per locality name, in file order
	// (i.e. sorted order), stopping early if yield returns false.
	Localities(yield func(name string) bool)
}
