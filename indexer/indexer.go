package indexer

import (
	"fmt"

	iradix "github.com/hashicorp/go-immutable-radix"
)

// maxLocalityCount is the largest number of distinct locality names the
// format can address: indices are stored as u16 (SPEC_FULL.md §4.4).
const maxLocalityCount = 1 << 16

// PublicSpaceRef is where one public space landed after indexing: its
// position in the sorted, deduplicated name table, and the index of
// the locality it belongs to.
type PublicSpaceRef struct {
	NameIndex     uint32
	LocalityIndex uint16
}

// IndexLocalities sorts and deduplicates locality names using a radix
// tree (so both the sort and the dedup fall out of one in-order walk),
// then maps every input locality id to the index of its name in that
// table. Two localities sharing a name map to the same index.
//
// An error is returned if the number of distinct names would not fit
// in the u16 index the file format uses.
func IndexLocalities(localities []Locality) (names []string, idToIndex map[uint16]uint16, err error) {
	names = sortedUniqueNames(func(yield func(string)) {
		for _, l := range localities {
			yield(l.Name)
		}
	})

	if len(names) > maxLocalityCount {
		return nil, nil, fmt.Errorf("indexer: %d distinct locality names exceed the u16 index limit of %d", len(names), maxLocalityCount)
	}

	nameToIndex := make(map[string]uint16, len(names))
	for i, name := range names {
		nameToIndex[name] = uint16(i)
	}

	idToIndex = make(map[uint16]uint16, len(localities))
	for _, l := range localities {
		idToIndex[l.ID] = nameToIndex[l.Name]
	}

	return names, idToIndex, nil
}

// IndexPublicSpaces sorts and deduplicates public space names the same
// way IndexLocalities does, then resolves each public space's id to a
// (name index, locality index) pair using localityIndex (as produced
// by IndexLocalities).
//
// A public space whose locality id isn't present in localityIndex means
// the source data is internally inconsistent — localityIndex only maps
// ids drawn from the already-filtered, active locality list, so a
// public space referencing anything outside it cannot be resolved and
// the build fails rather than silently dropping it.
func IndexPublicSpaces(publicSpaces []PublicSpace, localityIndex map[uint16]uint16) (names []string, idToRef map[string]PublicSpaceRef, err error) {
	names = sortedUniqueNames(func(yield func(string)) {
		for _, ps := range publicSpaces {
			yield(ps.Name)
		}
	})

	nameToIndex := make(map[string]uint32, len(names))
	for i, name := range names {
		nameToIndex[name] = uint32(i)
	}

	idToRef = make(map[string]PublicSpaceRef, len(publicSpaces))
	for _, ps := range publicSpaces {
		locIdx, ok := localityIndex[ps.LocalityID]
		if !ok {
			return nil, nil, fmt.Errorf("indexer: public space %q references unknown locality id %d", ps.ID, ps.LocalityID)
		}
		idToRef[ps.ID] = PublicSpaceRef{
			NameIndex:     nameToIndex[ps.Name],
			LocalityIndex: locIdx,
		}
	}

	return names, idToRef, nil
}

// sortedUniqueNames feeds every name from source into a radix tree
// (inserting the same key twice is idempotent) and walks it in order,
// producing a sorted slice with no duplicates.
func sortedUniqueNames(source func(yield func(string))) []string {
	tree := iradix.New()
	txn := tree.Txn()
	source(func(name string) {
		txn.Insert([]byte(name), struct{}{})
	})
	tree = txn.Commit()

	names := make([]string, 0, tree.Len())
	root := tree.Root()
	root.Walk(func(k []byte, _ interface{}) bool {
		names = append(names, string(k))
		return false
	})
	return names
}
