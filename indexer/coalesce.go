package indexer

import (
	"golang.org/x/exp/slices"

	"github.com/tweedegolf/bag-address-lookup/database"
)

type encodedEntry struct {
	postalCode       uint32
	houseNumber      uint32
	publicSpaceIndex uint32
	localityIndex    uint16
}

// CoalesceAddresses resolves each address's public space, encodes its
// postal code, sorts the result, and folds adjacent entries into
// NumberRange runs.
//
// An address whose public_space_id isn't in publicSpaces is dropped
// silently (SPEC_FULL.md §7's soft-filter policy: the source dump
// routinely references public spaces that didn't survive upstream
// filtering, and the rest of the address list should still index).
//
// Folding only extends a range when the next house number is exactly
// one past the current end — a gap, even of a single number, starts a
// new range. This is deliberate: a missing number in the source data
// might mean the number was never issued, and merging across it would
// silently claim coverage the registry never granted.
func CoalesceAddresses(addresses []Address, publicSpaces map[string]PublicSpaceRef) []database.NumberRange {
	entries := make([]encodedEntry, 0, len(addresses))

	for _, addr := range addresses {
		ref, ok := publicSpaces[addr.PublicSpaceID]
		if !ok {
			continue
		}

		pc, ok := database.NormalizePostalCode(addr.PostalCode)
		if !ok {
			continue
		}

		entries = append(entries, encodedEntry{
			postalCode:       database.EncodePostalCode(pc),
			houseNumber:      addr.HouseNumber,
			publicSpaceIndex: ref.NameIndex,
			localityIndex:    ref.LocalityIndex,
		})
	}

	slices.SortFunc(entries, func(a, b encodedEntry) int {
		if a.postalCode != b.postalCode {
			return cmpUint32(a.postalCode, b.postalCode)
		}
		if a.publicSpaceIndex != b.publicSpaceIndex {
			return cmpUint32(a.publicSpaceIndex, b.publicSpaceIndex)
		}
		if a.localityIndex != b.localityIndex {
			return cmpUint32(uint32(a.localityIndex), uint32(b.localityIndex))
		}
		return cmpUint32(a.houseNumber, b.houseNumber)
	})

	var ranges []database.NumberRange
	var current *database.NumberRange

	for _, e := range entries {
		sameGroup := current != nil &&
			current.PostalCode == e.postalCode &&
			current.PublicSpaceIndex == e.publicSpaceIndex &&
			current.LocalityIndex == e.localityIndex

		if sameGroup {
			rangeEnd := current.Start + uint32(current.Length)
			if e.houseNumber <= rangeEnd {
				continue // duplicate or already-covered number
			}

			if current.Length < ^uint16(0) && e.houseNumber == rangeEnd+1 {
				current.Length++
				continue
			}

			ranges = append(ranges, *current)
			current = nil
		} else if current != nil {
			ranges = append(ranges, *current)
			current = nil
		}

		current = &database.NumberRange{
			PostalCode:       e.postalCode,
			Start:            e.houseNumber,
			Length:           0,
			PublicSpaceIndex: e.publicSpaceIndex,
			LocalityIndex:    e.localityIndex,
		}
	}

	if current != nil {
		ranges = append(ranges, *current)
	}

	return ranges
}

func cmpUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
