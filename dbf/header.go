package dbf

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"

	"github.com/pkg/errors"
)

const (
	headerSize = 32
	fieldSize  = 32

	headerEnd byte = 0x0D
	fileEnd   byte = 0x1A

	memoReservedLen = 263

	languageDriverOff = 29
)

// Version is the format tag stored in the first byte of a table.
type Version byte

const (
	VersionUnknown       Version = 0x00
	VersionFoxBase       Version = 0x02
	VersionDBase3        Version = 0x03
	VersionVisualFoxPro  Version = 0x30
	VersionVisualFoxAuto Version = 0x31
	VersionDBase4Table   Version = 0x43
	VersionDBase4System  Version = 0x63
	VersionDBase3Memo    Version = 0x83
	VersionDBase4Memo    Version = 0x8B
	VersionDBase4SQLMemo Version = 0xCB
	VersionFoxPro2Memo   Version = 0xF5
	VersionFoxBasePlus   Version = 0xFB
)

// HasMemo reports whether tables of this version reserve a memo region
// after the field descriptors.
func (v Version) HasMemo() bool {
	switch v {
	case VersionDBase3Memo, VersionDBase4Memo, VersionDBase4SQLMemo, VersionFoxPro2Memo:
		return true
	}
	return false
}

// ReservedLen is the length of the region following the header terminator.
func (v Version) ReservedLen() int {
	if v.HasMemo() {
		return memoReservedLen
	}
	return 0
}

// Header is the 32-byte table header. The field order and sizes match the
// on-disk layout, so it is read and written with encoding/binary.
type Header struct {
	Version     Version
	Year        uint8
	Month       uint8
	Day         uint8
	RecordCount uint32
	HeaderLen   uint16
	RecordLen   uint16
	Reserved    [20]byte
}

// LanguageDriver returns the code page marker stored at byte 29.
func (h *Header) LanguageDriver() byte {
	return h.Reserved[languageDriverOff-12]
}

// FieldCount derives the number of descriptors from the header length.
func (h *Header) FieldCount() int {
	if h.HeaderLen <= headerSize {
		return 0
	}
	return (int(h.HeaderLen) - headerSize - 1) / fieldSize
}

// Modified returns the last-modified date. Only two digits of the year are
// stored; they are read as 20yy.
func (h *Header) Modified() time.Time {
	return time.Date(2000+int(h.Year), time.Month(h.Month), int(h.Day), 0, 0, 0, 0, time.Local)
}

func (h *Header) stamp(t time.Time) {
	h.Year = uint8(t.Year() % 100)
	h.Month = uint8(t.Month())
	h.Day = uint8(t.Day())
}

func (h *Header) reservedLen() int {
	return h.Version.ReservedLen()
}

// recordOffset is where row 0 starts.
func (h *Header) recordOffset() int64 {
	return int64(h.HeaderLen) + int64(h.reservedLen())
}

// fileSize is the logical size of the table including the EOF marker.
func (h *Header) fileSize() int64 {
	return h.recordOffset() + int64(h.RecordCount)*int64(h.RecordLen) + 1
}

// UnmarshalBinary decodes the first 32 bytes of buf.
func (h *Header) UnmarshalBinary(buf []byte) error {
	if len(buf) < headerSize {
		return errors.Errorf("header too short: %d < %d", len(buf), headerSize)
	}
	return binary.Read(bytes.NewReader(buf[:headerSize]), binary.LittleEndian, h)
}

// MarshalBinary encodes the header into its 32-byte form.
func (h *Header) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return nil, errors.Wrap(err, "binary.Write")
	}
	return buf.Bytes(), nil
}

func readHeader(r io.ReaderAt) (hdr Header, err error) {
	buf := make([]byte, headerSize)
	n, err := r.ReadAt(buf, 0)
	if n < headerSize {
		if err == nil || err == io.EOF {
			err = errors.Errorf("short header read of %d bytes", n)
		}
		return hdr, errors.Wrap(err, "read header")
	}
	err = hdr.UnmarshalBinary(buf)
	return
}

func writeHeader(w io.WriterAt, hdr *Header) error {
	buf, err := hdr.MarshalBinary()
	if err != nil {
		return err
	}
	n, err := w.WriteAt(buf, 0)
	if err != nil {
		return errors.Wrap(err, "write header")
	}
	if n != len(buf) {
		return errors.Errorf("short header write of %d bytes", n)
	}
	return nil
}
