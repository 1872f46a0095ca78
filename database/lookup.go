package database

import "sort"

// rangeSource is the minimal indexed view over the range table that the
// lookup algorithm needs. Owned and View each implement it directly
// over their own storage (a slice, or a byte offset computation) so
// that lookup itself never cares which representation it's running
// over.
type rangeSource interface {
	rangeCount() int
	rangePostalCodeAt(i int) (uint32, bool)
	rangeAt(i int) (NumberRange, bool)
	localityNameAt(i uint16) (string, bool)
	publicSpaceNameAt(i uint32) (string, bool)
}

// lookup resolves postalCode/houseNumber against src: first two binary
// searches bracket the contiguous run of ranges sharing that postal
// code (partition_point over "postal_code < key" and over
// "postal_code <= key"), then a linear scan over that run tests house
// number containment. A resolved locality or public-space index that's
// out of bounds is treated as no-match rather than a panic, so a
// header-valid but corrupted zero-copy file fails closed.
func lookup(src rangeSource, postalCode string, houseNumber uint32) (publicSpace, locality string, ok bool) {
	pc, valid := NormalizePostalCode(postalCode)
	if !valid {
		return "", "", false
	}
	key := EncodePostalCode(pc)

	n := src.rangeCount()

	lo := sort.Search(n, func(i int) bool {
		v, ok := src.rangePostalCodeAt(i)
		return ok && v >= key
	})
	hi := sort.Search(n, func(i int) bool {
		v, ok := src.rangePostalCodeAt(i)
		return ok && v > key
	})

	for i := lo; i < hi; i++ {
		r, ok := src.rangeAt(i)
		if !ok {
			continue
		}
		if houseNumber < r.Start || houseNumber > r.End() {
			continue
		}

		ps, ok := src.publicSpaceNameAt(r.PublicSpaceIndex)
		if !ok {
			return "", "", false
		}
		loc, ok := src.localityNameAt(r.LocalityIndex)
		if !ok {
			return "", "", false
		}
		return ps, loc, true
	}

	return "", "", false
}
