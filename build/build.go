// Package build drives the indexer and encoder over the three
// collaborator lists described in SPEC_FULL.md §4.7, producing one
// database file. It is the Go counterpart of original_source's
// create_database/Database::from_parsed_data pipeline.
package build

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/tweedegolf/bag-address-lookup/database"
	"github.com/tweedegolf/bag-address-lookup/indexer"
)

// Options configures one build run.
type Options struct {
	Localities   []indexer.Locality
	PublicSpaces []indexer.PublicSpace
	Addresses    []indexer.Address

	// OutputPath is where the encoded database is written. Build
	// refuses to overwrite an existing non-empty file there.
	OutputPath string

	// Compressed selects the gzip-wrapped file variant.
	Compressed bool

	// Logger receives build progress. A no-op logger is used if nil.
	Logger *zap.Logger
}

// Build indexes localities and public spaces, coalesces addresses into
// ranges, and encodes the result to opts.OutputPath. It is idempotent:
// if a non-empty file already exists at that path, Build logs and
// returns nil without touching it, mirroring the refusal-to-rebuild
// contract in SPEC_FULL.md §7.
func Build(opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	start := time.Now()
	elapsed := func() time.Duration { return time.Since(start) }

	if info, err := os.Stat(opts.OutputPath); err == nil && info.Size() > 0 {
		logger.Info("database already exists, skipping build",
			zap.String("path", opts.OutputPath),
			zap.Duration("elapsed", elapsed()))
		return nil
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("build: stat output path: %w", err)
	}

	localityNames, localityIdx, err := indexer.IndexLocalities(opts.Localities)
	if err != nil {
		return fmt.Errorf("build: index localities: %w", err)
	}

	publicSpaceNames, publicSpaceRefs, err := indexer.IndexPublicSpaces(opts.PublicSpaces, localityIdx)
	if err != nil {
		return fmt.Errorf("build: index public spaces: %w", err)
	}

	ranges := indexer.CoalesceAddresses(opts.Addresses, publicSpaceRefs)

	logger.Info("indexed source data",
		zap.String("localities", humanize.Comma(int64(len(localityNames)))),
		zap.String("public_spaces", humanize.Comma(int64(len(publicSpaceNames)))),
		zap.String("ranges", humanize.Comma(int64(len(ranges)))),
		zap.Duration("elapsed", elapsed()))

	db := &database.Owned{
		LocalityNames:    localityNames,
		PublicSpaceNames: publicSpaceNames,
		Ranges:           ranges,
	}

	out, err := os.Create(opts.OutputPath)
	if err != nil {
		return fmt.Errorf("build: create output file: %w", err)
	}
	defer out.Close()

	if err := database.Encode(out, db, opts.Compressed); err != nil {
		return fmt.Errorf("build: encode database: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("build: sync output file: %w", err)
	}

	info, statErr := out.Stat()
	size := "unknown"
	if statErr == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}

	logger.Info("database written",
		zap.String("path", opts.OutputPath),
		zap.String("size", size),
		zap.Bool("compressed", opts.Compressed),
		zap.Duration("elapsed", elapsed()))

	return nil
}
