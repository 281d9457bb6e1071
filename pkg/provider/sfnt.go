package provider

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// SFNT version tags accepted at the start of a face.
const (
	sfntTrueType   = 0x00010000
	sfntOpenType   = 0x4F54544F // OTTO
	sfntAppleTrue  = 0x74727565 // true
	sfntPostScript = 0x74797031 // typ1
	sfntCollection = 0x74746366 // ttcf
)

const (
	offsetTableSize = 12
	tableRecordSize = 16
	// numTables is a uint16 but real fonts stay far below this
	maxTables = 1024
	maxFaces  = 4096
)

var errMalformed = errors.New("malformed sfnt data")

type tableRecord struct {
	tag    string
	offset uint32
	length uint32
}

// readFull reads len(buf) bytes at off. A short file is malformed, any other
// read error is returned as is.
func readFull(r io.ReaderAt, buf []byte, off int64, what string) error {
	_, err := r.ReadAt(buf, off)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: reading %s: %v", errMalformed, what, err)
	default:
		return fmt.Errorf("reading %s: %w", what, err)
	}
}

// checkBounds fails when a table lies past the end of the file.
func checkBounds(records []tableRecord, size int64) error {
	for _, rec := range records {
		end := int64(rec.offset) + int64(rec.length)
		if end > size {
			return fmt.Errorf("%w: table %q ends at %d past file size %d", errMalformed, rec.tag, end, size)
		}
	}
	return nil
}

// readFaceOffsets returns the offset of every face in the file: one zero
// offset for a plain font, one per face for a collection.
func readFaceOffsets(r io.ReaderAt) ([]uint32, error) {
	var hdr [12]byte
	if err := readFull(r, hdr[:], 0, "header"); err != nil {
		return nil, err
	}
	if binary.BigEndian.Uint32(hdr[0:4]) != sfntCollection {
		return []uint32{0}, nil
	}
	numFonts := binary.BigEndian.Uint32(hdr[8:12])
	if numFonts == 0 || numFonts > maxFaces {
		return nil, fmt.Errorf("%w: collection with %d faces", errMalformed, numFonts)
	}
	buf := make([]byte, 4*numFonts)
	if err := readFull(r, buf, 12, "collection offsets"); err != nil {
		return nil, err
	}
	offsets := make([]uint32, numFonts)
	for i := range offsets {
		offsets[i] = binary.BigEndian.Uint32(buf[4*i:])
	}
	return offsets, nil
}

// readTableDirectory parses the table records of the face at offset.
func readTableDirectory(r io.ReaderAt, offset int64) ([]tableRecord, error) {
	var hdr [offsetTableSize]byte
	if err := readFull(r, hdr[:], offset, "offset table"); err != nil {
		return nil, err
	}
	switch v := binary.BigEndian.Uint32(hdr[0:4]); v {
	case sfntTrueType, sfntOpenType, sfntAppleTrue, sfntPostScript:
	default:
		return nil, fmt.Errorf("%w: unknown sfnt version %#08x", errMalformed, v)
	}
	numTables := int(binary.BigEndian.Uint16(hdr[4:6]))
	if numTables > maxTables {
		return nil, fmt.Errorf("%w: %d tables", errMalformed, numTables)
	}
	buf := make([]byte, numTables*tableRecordSize)
	if err := readFull(r, buf, offset+offsetTableSize, "table records"); err != nil {
		return nil, err
	}
	records := make([]tableRecord, numTables)
	for i := range records {
		rec := buf[i*tableRecordSize:]
		records[i] = tableRecord{
			tag:    string(rec[0:4]),
			offset: binary.BigEndian.Uint32(rec[8:12]),
			length: binary.BigEndian.Uint32(rec[12:16]),
		}
	}
	return records, nil
}
