package database

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
)

// Owned is an in-memory, heap-allocated database: the build pipeline's
// output before encoding, and what the gzip-compressed variant decodes
// into (random access through a compressed stream isn't practical, so
// that variant is read sequentially into owned slices instead of
// mmap'ed — SPEC_FULL.md §4.5).
type Owned struct {
	LocalityNames    []string
	PublicSpaceNames []string
	Ranges           []NumberRange
}

// Encode serializes db to w in the format described in SPEC_FULL.md
// §4.4, optionally gzip-wrapped. The magic, layout, and byte order of
// the inner stream are identical either way.
func Encode(w io.Writer, db *Owned, compressed bool) error {
	localityCount, err := countU32(len(db.LocalityNames), "locality")
	if err != nil {
		return err
	}
	publicSpaceCount, err := countU32(len(db.PublicSpaceNames), "public space")
	if err != nil {
		return err
	}
	rangeCount, err := countU32(len(db.Ranges), "range")
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writeDatabase(&buf, db, localityCount, publicSpaceCount, rangeCount); err != nil {
		return err
	}

	sum := checksumSpan(buf.Bytes())
	payload := appendChecksum(buf.Bytes(), sum)

	if !compressed {
		_, err := w.Write(payload)
		return err
	}

	gz := gzip.NewWriter(w)
	if _, err := gz.Write(payload); err != nil {
		return err
	}
	return gz.Close()
}

func countU32(n int, what string) (uint32, error) {
	if n < 0 || uint64(n) > uint64(^uint32(0)) {
		return 0, fmt.Errorf("%s count overflow: %d does not fit in u32", what, n)
	}
	return uint32(n), nil
}

func writeDatabase(buf *bytes.Buffer, db *Owned, localityCount, publicSpaceCount, rangeCount uint32) error {
	localityOffsetsOff := uint32(headerSize)
	localityOffsetsLen := (localityCount + 1) * 4
	localityDataOff := localityOffsetsOff + localityOffsetsLen
	localityDataLen, err := sumLens(db.LocalityNames)
	if err != nil {
		return err
	}

	publicSpaceOffsOff := localityDataOff + localityDataLen
	publicSpaceOffsLen := (publicSpaceCount + 1) * 4
	publicSpaceDataOff := publicSpaceOffsOff + publicSpaceOffsLen
	publicSpaceDataLen, err := sumLens(db.PublicSpaceNames)
	if err != nil {
		return err
	}

	rangesOff := publicSpaceDataOff + publicSpaceDataLen

	h := header{
		localityCount:      localityCount,
		publicSpaceCount:   publicSpaceCount,
		rangeCount:         rangeCount,
		localityOffsetsOff: localityOffsetsOff,
		localityDataOff:    localityDataOff,
		publicSpaceOffsOff: publicSpaceOffsOff,
		publicSpaceDataOff: publicSpaceDataOff,
		rangesOff:          rangesOff,
	}

	var hdr [headerSize]byte
	writeHeader(hdr[:], h)
	buf.Write(hdr[:])

	writeOffsetsAndData(buf, db.LocalityNames)
	writeOffsetsAndData(buf, db.PublicSpaceNames)

	var rec [rangeRecordSize]byte
	for _, r := range db.Ranges {
		binary.LittleEndian.PutUint32(rec[0:4], r.PostalCode)
		binary.LittleEndian.PutUint32(rec[4:8], r.Start)
		binary.LittleEndian.PutUint16(rec[8:10], r.Length)
		binary.LittleEndian.PutUint32(rec[10:14], r.PublicSpaceIndex)
		binary.LittleEndian.PutUint16(rec[14:16], r.LocalityIndex)
		buf.Write(rec[:])
	}

	return nil
}

func sumLens(names []string) (uint32, error) {
	var total uint64
	for _, name := range names {
		total += uint64(len(name))
	}
	if total > uint64(^uint32(0)) {
		return 0, fmt.Errorf("name data block overflow: %d bytes does not fit in u32", total)
	}
	return uint32(total), nil
}

func writeOffsetsAndData(buf *bytes.Buffer, names []string) {
	var off [4]byte
	offset := uint32(0)
	binary.LittleEndian.PutUint32(off[:], offset)
	buf.Write(off[:])
	for _, name := range names {
		offset += uint32(len(name))
		binary.LittleEndian.PutUint32(off[:], offset)
		buf.Write(off[:])
	}
	for _, name := range names {
		buf.WriteString(name)
	}
}
