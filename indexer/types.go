// Package indexer turns the three flat collaborator lists described in
// SPEC_FULL.md §4.7 into the sorted, deduplicated name tables and
// coalesced number ranges that database.Owned is built from.
package indexer

// Locality is one active municipality, as surfaced by the external
// XML/ZIP extractor.
type Locality struct {
	ID   uint16 `json:"id"`
	Name string `json:"name"`
}

// PublicSpace is one active, issued street (or similar public space),
// tied to the locality that contains it.
type PublicSpace struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LocalityID uint16 `json:"locality_id"`
}

// Address is one active, issued house numbering. HouseLetter and
// HouseNumberAddition are accepted from the source contract but never
// consulted by the core — coalescing only cares about contiguous
// integer house numbers sharing a postal code, public space, and
// locality.
type Address struct {
	ID                  string `json:"id"`
	HouseNumber         uint32 `json:"house_number"`
	HouseLetter         string `json:"house_letter,omitempty"`
	HouseNumberAddition string `json:"house_number_addition,omitempty"`
	PostalCode          string `json:"postal_code"`
	PublicSpaceID       string `json:"public_space_id"`
}
