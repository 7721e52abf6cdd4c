package zipstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	localHeaderSig   = 0x04034B50
	centralHeaderSig = 0x02014B50
	endOfCentralSig  = 0x06054B50

	localHeaderLen   = 30
	centralHeaderLen = 46
	endOfCentralLen  = 22

	// version 2.0: stored entries, no extensions
	zipVersion = 20

	maxEntries = math.MaxUint16
	maxNameLen = math.MaxUint16
	maxUint32  = math.MaxUint32
)

// File is one entry of an archive built with Build.
type File struct {
	Name string
	Data []byte
}

type entry struct {
	name   []byte
	crc    uint32
	size   uint32
	offset uint32
}

// Writer streams a store-only ZIP archive to an underlying io.Writer.
// Entries are written by Add in call order; Close writes the central
// directory. A Writer is not safe for concurrent use.
type Writer struct {
	w       io.Writer
	offset  uint64
	entries []entry
	err     error
	closed  bool
}

// NewWriter returns a Writer that writes the archive to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Add writes a local header followed by data. The name is stored as its
// UTF-8 bytes without normalization.
func (zw *Writer) Add(name string, data []byte) error {
	if zw.closed {
		return ErrClosed
	}
	if zw.err != nil {
		return zw.err
	}
	if len(zw.entries) >= maxEntries {
		return ErrTooManyEntries
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(name))
	}
	if uint64(len(data)) > maxUint32 || zw.offset > maxUint32 {
		return ErrArchiveTooLarge
	}

	e := entry{
		name:   []byte(name),
		crc:    Checksum(data),
		size:   uint32(len(data)),
		offset: uint32(zw.offset),
	}

	hdr := make([]byte, 0, localHeaderLen+len(e.name))
	hdr = binary.LittleEndian.AppendUint32(hdr, localHeaderSig)
	hdr = binary.LittleEndian.AppendUint16(hdr, zipVersion)
	hdr = binary.LittleEndian.AppendUint16(hdr, 0) // flags
	hdr = binary.LittleEndian.AppendUint16(hdr, 0) // method: store
	hdr = binary.LittleEndian.AppendUint16(hdr, 0) // mod time
	hdr = binary.LittleEndian.AppendUint16(hdr, 0) // mod date
	hdr = binary.LittleEndian.AppendUint32(hdr, e.crc)
	hdr = binary.LittleEndian.AppendUint32(hdr, e.size) // compressed
	hdr = binary.LittleEndian.AppendUint32(hdr, e.size) // uncompressed
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(len(e.name)))
	hdr = binary.LittleEndian.AppendUint16(hdr, 0) // extra length
	hdr = append(hdr, e.name...)

	if err := zw.write(hdr); err != nil {
		return err
	}
	if err := zw.write(data); err != nil {
		return err
	}
	zw.entries = append(zw.entries, e)
	return nil
}

// Close writes the central directory and the end record. It does not
// close the underlying writer.
func (zw *Writer) Close() error {
	if zw.closed {
		return ErrClosed
	}
	zw.closed = true
	if zw.err != nil {
		return zw.err
	}

	cdOffset := zw.offset
	if cdOffset > maxUint32 {
		return ErrArchiveTooLarge
	}

	var cd bytes.Buffer
	for _, e := range zw.entries {
		rec := make([]byte, 0, centralHeaderLen+len(e.name))
		rec = binary.LittleEndian.AppendUint32(rec, centralHeaderSig)
		rec = binary.LittleEndian.AppendUint16(rec, zipVersion) // made by
		rec = binary.LittleEndian.AppendUint16(rec, zipVersion) // needed
		rec = binary.LittleEndian.AppendUint16(rec, 0)          // flags
		rec = binary.LittleEndian.AppendUint16(rec, 0)          // method
		rec = binary.LittleEndian.AppendUint16(rec, 0)          // mod time
		rec = binary.LittleEndian.AppendUint16(rec, 0)          // mod date
		rec = binary.LittleEndian.AppendUint32(rec, e.crc)
		rec = binary.LittleEndian.AppendUint32(rec, e.size)
		rec = binary.LittleEndian.AppendUint32(rec, e.size)
		rec = binary.LittleEndian.AppendUint16(rec, uint16(len(e.name)))
		rec = binary.LittleEndian.AppendUint16(rec, 0) // extra length
		rec = binary.LittleEndian.AppendUint16(rec, 0) // comment length
		rec = binary.LittleEndian.AppendUint16(rec, 0) // disk number
		rec = binary.LittleEndian.AppendUint16(rec, 0) // internal attrs
		rec = binary.LittleEndian.AppendUint32(rec, 0) // external attrs
		rec = binary.LittleEndian.AppendUint32(rec, e.offset)
		rec = append(rec, e.name...)
		cd.Write(rec)
	}
	if uint64(cd.Len()) > maxUint32 || cdOffset+uint64(cd.Len()) > maxUint32 {
		return ErrArchiveTooLarge
	}

	n := uint16(len(zw.entries))
	eocd := make([]byte, 0, endOfCentralLen)
	eocd = binary.LittleEndian.AppendUint32(eocd, endOfCentralSig)
	eocd = binary.LittleEndian.AppendUint16(eocd, 0) // this disk
	eocd = binary.LittleEndian.AppendUint16(eocd, 0) // disk with central directory
	eocd = binary.LittleEndian.AppendUint16(eocd, n)
	eocd = binary.LittleEndian.AppendUint16(eocd, n)
	eocd = binary.LittleEndian.AppendUint32(eocd, uint32(cd.Len()))
	eocd = binary.LittleEndian.AppendUint32(eocd, uint32(cdOffset))
	eocd = binary.LittleEndian.AppendUint16(eocd, 0) // comment length

	if err := zw.write(cd.Bytes()); err != nil {
		return err
	}
	return zw.write(eocd)
}

func (zw *Writer) write(p []byte) error {
	n, err := zw.w.Write(p)
	zw.offset += uint64(n)
	if err != nil {
		zw.err = fmt.Errorf("writing zip archive: %w", err)
		return zw.err
	}
	return nil
}

// Build returns a complete archive holding files in order. An empty or nil
// slice yields a valid archive with no entries.
func Build(files []File) ([]byte, error) {
	if len(files) > maxEntries {
		return nil, ErrTooManyEntries
	}

	var buf bytes.Buffer
	zw := NewWriter(&buf)
	for _, f := range files {
		if err := zw.Add(f.Name, f.Data); err != nil {
			return nil, fmt.Errorf("adding %q: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
