// Command bagbuild builds a BAG address-lookup database file from a
// parsed source dump. It takes JSON-encoded locality, public-space,
// and address lists (the external XML/ZIP extractor's contract,
// SPEC_FULL.md §4.7) and writes one encoded database file.
//
// bagbuild is idempotent: if the output path already names a
// non-empty file, it logs and exits without rebuilding.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/tweedegolf/bag-address-lookup/build"
	"github.com/tweedegolf/bag-address-lookup/indexer"
)

var usageMessage = `usage: bagbuild [-compressed] -localities file -publicspaces file -addresses file -out file

Bagbuild reads the three JSON collaborator lists produced by the
external XML/ZIP extractor and writes one encoded BAG database file.
Each input file holds a JSON array of the corresponding struct:
Locality{id,name}, PublicSpace{id,name,locality_id}, or
Address{id,house_number,postal_code,public_space_id}.

If -out already names a non-empty file, bagbuild does nothing.
`

func usage() {
	fmt.Fprint(os.Stderr, usageMessage)
	os.Exit(2)
}

var (
	localitiesFlag   = flag.String("localities", "", "path to JSON locality list")
	publicSpacesFlag = flag.String("publicspaces", "", "path to JSON public space list")
	addressesFlag    = flag.String("addresses", "", "path to JSON address list")
	outFlag          = flag.String("out", "", "output database path")
	compressedFlag   = flag.Bool("compressed", false, "gzip-wrap the output file")
)

func main() {
	log.SetPrefix("bagbuild: ")
	flag.Usage = usage
	flag.Parse()

	if *localitiesFlag == "" || *publicSpacesFlag == "" || *addressesFlag == "" || *outFlag == "" {
		usage()
	}

	localities, err := readJSON[indexer.Locality](*localitiesFlag)
	if err != nil {
		log.Fatalf("reading localities: %v", err)
	}
	publicSpaces, err := readJSON[indexer.PublicSpace](*publicSpacesFlag)
	if err != nil {
		log.Fatalf("reading public spaces: %v", err)
	}
	addresses, err := readJSON[indexer.Address](*addressesFlag)
	if err != nil {
		log.Fatalf("reading addresses: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()

	opts := build.Options{
		Localities:   localities,
		PublicSpaces: publicSpaces,
		Addresses:    addresses,
		OutputPath:   *outFlag,
		Compressed:   *compressedFlag,
		Logger:       logger,
	}

	if err := build.Build(opts); err != nil {
		log.Fatalf("build failed: %v", err)
	}
}

func readJSON[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var items []T
	if err := json.NewDecoder(f).Decode(&items); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}
