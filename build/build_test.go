package build

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tweedegolf/bag-address-lookup/database"
	"github.com/tweedegolf/bag-address-lookup/indexer"
)

func TestBuildWritesReadableDatabase(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "bag.bin")

	opts := Options{
		Localities: []indexer.Locality{
			{ID: 1, Name: "Hoogerheide"},
			{ID: 2, Name: "Huijbergen"},
		},
		PublicSpaces: []indexer.PublicSpace{
			{ID: "ps-1", Name: "Abel Eppensstraat", LocalityID: 1},
			{ID: "ps-2", Name: "Adamistraat", LocalityID: 2},
		},
		Addresses: []indexer.Address{
			{ID: "a-1", HouseNumber: 56, PostalCode: "1234AB", PublicSpaceID: "ps-1"},
			{ID: "a-2", HouseNumber: 1, PostalCode: "1234AB", PublicSpaceID: "ps-2"},
		},
		OutputPath: outputPath,
	}

	require.NoError(t, Build(opts))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	view, derr := database.NewView(data)
	require.Nil(t, derr)

	ps, loc, ok := view.Lookup("1234AB", 56)
	require.True(t, ok)
	require.Equal(t, "Abel Eppensstraat", ps)
	require.Equal(t, "Hoogerheide", loc)

	ps, loc, ok = view.Lookup("1234AB", 1)
	require.True(t, ok)
	require.Equal(t, "Adamistraat", ps)
	require.Equal(t, "Huijbergen", loc)
}

func TestBuildIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "bag.bin")

	require.NoError(t, os.WriteFile(outputPath, []byte("not a real database, but non-empty"), 0o644))

	opts := Options{
		Localities: []indexer.Locality{{ID: 1, Name: "Hoogerheide"}},
		OutputPath: outputPath,
	}
	require.NoError(t, Build(opts))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Equal(t, "not a real database, but non-empty", string(data))
}

func TestBuildFailsOnUnresolvedPublicSpaceLocality(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "bag.bin")

	opts := Options{
		Localities: []indexer.Locality{{ID: 1, Name: "Hoogerheide"}},
		PublicSpaces: []indexer.PublicSpace{
			{ID: "ps-1", Name: "Abel Eppensstraat", LocalityID: 99},
		},
		OutputPath: outputPath,
	}
	err := Build(opts)
	require.Error(t, err)

	_, statErr := os.Stat(outputPath)
	require.True(t, os.IsNotExist(statErr), "a failed build must not leave a partial file")
}

func TestBuildRejectsLocalityOverflow(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "bag.bin")

	localities := make([]indexer.Locality, 0, 70000)
	for id := 0; id < 70000; id++ {
		localities = append(localities, indexer.Locality{ID: uint16(id), Name: fmt.Sprintf("L%d", id)})
	}

	opts := Options{Localities: localities, OutputPath: outputPath}
	err := Build(opts)
	require.Error(t, err)

	_, statErr := os.Stat(outputPath)
	require.True(t, os.IsNotExist(statErr), "a failed build must not leave a partial file")
}
