package database

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// seedDatabase builds the two-locality, two-public-space, two-range
// fixture used by the concrete end-to-end scenarios: "1234AB"/56 routes
// to Abel Eppensstraat in Hoogerheide, "1234AB"/1 to Adamistraat in
// Huijbergen.
func seedDatabase() *Owned {
	pc, ok := NormalizePostalCode("1234AB")
	if !ok {
		panic("bad fixture postal code")
	}
	key := EncodePostalCode(pc)

	return &Owned{
		LocalityNames:    []string{"Hoogerheide", "Huijbergen"},
		PublicSpaceNames: []string{"Abel Eppensstraat", "Adamistraat"},
		Ranges: []NumberRange{
			{PostalCode: key, Start: 50, Length: 10, PublicSpaceIndex: 0, LocalityIndex: 0},
			{PostalCode: key, Start: 1, Length: 3, PublicSpaceIndex: 1, LocalityIndex: 1},
		},
	}
}

func TestSeedScenariosOwned(t *testing.T) {
	db := seedDatabase()

	ps, loc, ok := db.Lookup("1234AB", 56)
	require.True(t, ok)
	require.Equal(t, "Abel Eppensstraat", ps)
	require.Equal(t, "Hoogerheide", loc)

	ps, loc, ok = db.Lookup("1234AB", 1)
	require.True(t, ok)
	require.Equal(t, "Adamistraat", ps)
	require.Equal(t, "Huijbergen", loc)

	_, _, ok = db.Lookup("9999ZZ", 1)
	require.False(t, ok)

	ps, loc, ok = db.Lookup("1234ab", 56)
	require.True(t, ok)
	require.Equal(t, "Abel Eppensstraat", ps)
	require.Equal(t, "Hoogerheide", loc)

	_, _, ok = db.Lookup("12345", 1)
	require.False(t, ok)
}

func TestRoundTripUncompressed(t *testing.T) {
	db := seedDatabase()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, db, false))

	got, derr := DecodeOwned(bytes.NewReader(buf.Bytes()), false)
	require.Nil(t, derr)
	require.Equal(t, db.LocalityNames, got.LocalityNames)
	require.Equal(t, db.PublicSpaceNames, got.PublicSpaceNames)
	require.Equal(t, db.Ranges, got.Ranges)
}

func TestRoundTripCompressed(t *testing.T) {
	db := seedDatabase()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, db, true))

	got, derr := DecodeOwned(bytes.NewReader(buf.Bytes()), true)
	require.Nil(t, derr)
	require.Equal(t, db.LocalityNames, got.LocalityNames)
	require.Equal(t, db.PublicSpaceNames, got.PublicSpaceNames)
	require.Equal(t, db.Ranges, got.Ranges)
}

func TestRoundTripEmpty(t *testing.T) {
	db := &Owned{}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, db, false))

	got, derr := DecodeOwned(bytes.NewReader(buf.Bytes()), false)
	require.Nil(t, derr)
	require.True(t, got.IsEmpty())
	require.Empty(t, got.LocalityNames)
	require.Empty(t, got.PublicSpaceNames)
}

func TestLookupAgreementOwnedVsView(t *testing.T) {
	db := seedDatabase()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, db, false))

	view, derr := NewView(buf.Bytes())
	require.Nil(t, derr)

	cases := []struct {
		pc string
		hn uint32
	}{
		{"1234AB", 56},
		{"1234AB", 1},
		{"9999ZZ", 1},
		{"1234ab", 56},
		{"12345", 1},
		{"1234AB", 49},
		{"1234AB", 61},
	}

	for _, c := range cases {
		wantPS, wantLoc, wantOK := db.Lookup(c.pc, c.hn)
		gotPS, gotLoc, gotOK := view.Lookup(c.pc, c.hn)
		require.Equal(t, wantOK, gotOK, "ok mismatch for %v", c)
		if wantOK {
			require.Equal(t, wantPS, gotPS, "public space mismatch for %v", c)
			require.Equal(t, wantLoc, gotLoc, "locality mismatch for %v", c)
		}
	}
}

func TestViewLocalitiesMatchOwned(t *testing.T) {
	db := seedDatabase()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, db, false))

	view, derr := NewView(buf.Bytes())
	require.Nil(t, derr)

	var gotOwned, gotView []string
	db.Localities(func(name string) bool { gotOwned = append(gotOwned, name); return true })
	view.Localities(func(name string) bool { gotView = append(gotView, name); return true })

	require.Equal(t, db.LocalityNames, gotOwned)
	require.Equal(t, gotOwned, gotView)
}

func TestNewViewNeverPanicsOnGarbage(t *testing.T) {
	garbage := [][]byte{
		nil,
		{},
		{1, 2, 3},
		bytes.Repeat([]byte{0xff}, 40),
		append([]byte(magic), bytes.Repeat([]byte{0}, 100)...),
	}

	for _, g := range garbage {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("NewView panicked on %v: %v", g, r)
				}
			}()
			_, _ = NewView(g)
		}()
	}
}
