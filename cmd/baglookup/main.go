// Command baglookup opens a BAG database file and resolves one postal
// code and house number to a public space and locality name. It is a
// thin CLI over database.Handle.Lookup for manual inspection and
// smoke-testing a built database — not a server: SPEC_FULL.md's core
// scope ends at the lookup call, and any network-facing collaborator
// is explicitly out of scope.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tweedegolf/bag-address-lookup/database"
)

var usageMessage = `usage: baglookup [-compressed] -db file postalcode housenumber

Baglookup loads the database at -db and looks up one postal code and
house number, printing "public_space, locality" on success or
"no match" otherwise.
`

func usage() {
	fmt.Fprint(os.Stderr, usageMessage)
	os.Exit(2)
}

var (
	dbPathFlag     = flag.String("db", "", "path to a BAG database file")
	compressedFlag = flag.Bool("compressed", false, "the database file is gzip-wrapped")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *dbPathFlag == "" || flag.NArg() != 2 {
		usage()
	}

	postalCode := flag.Arg(0)
	var houseNumber uint32
	if _, err := fmt.Sscanf(flag.Arg(1), "%d", &houseNumber); err != nil {
		fmt.Fprintf(os.Stderr, "baglookup: invalid house number %q\n", flag.Arg(1))
		os.Exit(2)
	}

	handle, err := openHandle(*dbPathFlag, *compressedFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "baglookup: %v\n", err)
		os.Exit(1)
	}

	publicSpace, locality, ok := handle.Lookup(postalCode, houseNumber)
	if !ok {
		fmt.Println("no match")
		os.Exit(1)
	}
	fmt.Printf("%s, %s\n", publicSpace, locality)
}

func openHandle(path string, compressed bool) (database.Handle, error) {
	if compressed {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		db, derr := database.DecodeOwned(f, true)
		if derr != nil {
			return nil, derr
		}
		return db, nil
	}

	view, err := database.OpenView(path)
	if err != nil {
		return nil, err
	}
	return view, nil
}
