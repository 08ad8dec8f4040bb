package dbf

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// FieldType is the single-character type tag of a field.
type FieldType byte

const (
	Character FieldType = 'C'
	Numeric   FieldType = 'N'
	Float     FieldType = 'F'
	Date      FieldType = 'D'
	Logical   FieldType = 'L'
	Memo      FieldType = 'M'
	General   FieldType = 'G'
	Binary    FieldType = 'B'
)

func (t FieldType) valid() bool {
	switch t {
	case Character, Numeric, Float, Date, Logical, Memo, General, Binary:
		return true
	}
	return false
}

func (t FieldType) String() string {
	return string(rune(t))
}

const maxFieldNameLen = 10

// diskField mirrors a 32-byte field descriptor.
type diskField struct {
	Name      [11]byte
	Type      FieldType
	Reserved1 [4]byte
	Length    uint8
	Decimals  uint8
	Offset    [2]byte
	WorkArea  uint8
	Reserved2 [10]byte
	MDXFlag   uint8
}

// Field describes one column. Offset is derived at load time and is the
// position of the field inside a record; byte 0 holds the deletion flag.
type Field struct {
	Name     string
	Type     FieldType
	Length   int
	Decimals int
	Offset   int

	raw [fieldSize]byte
}

// span returns the field's bytes inside a record.
func (f *Field) span(rec []byte) []byte {
	return rec[f.Offset : f.Offset+f.Length]
}

func decodeField(raw []byte) (Field, error) {
	var d diskField
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &d); err != nil {
		return Field{}, errors.Wrap(err, "binary.Read")
	}
	name := d.Name[:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	f := Field{
		Name:     string(name),
		Type:     d.Type,
		Length:   int(d.Length),
		Decimals: int(d.Decimals),
	}
	copy(f.raw[:], raw)
	return f, nil
}

func encodeField(name string, typ FieldType, length, decimals int) (Field, error) {
	d := diskField{
		Type:     typ,
		Length:   uint8(length),
		Decimals: uint8(decimals),
	}
	copy(d.Name[:], name)
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &d); err != nil {
		return Field{}, errors.Wrap(err, "binary.Write")
	}
	return decodeField(buf.Bytes())
}

// schema is the parsed descriptor array plus its name lookup.
type schema struct {
	fields []Field
	index  map[string]int
}

func (s *schema) lookup(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// parseSchema decodes the descriptor area (bytes 32 up to and including
// the terminator) and assigns each field its offset within a record.
func parseSchema(buf []byte, recordLen int) (*schema, error) {
	if len(buf)%fieldSize != 1 {
		return nil, errors.Errorf("descriptor area of %d bytes is not n*%d+1", len(buf), fieldSize)
	}
	n := len(buf) / fieldSize
	s := &schema{
		fields: make([]Field, 0, n),
		index:  make(map[string]int, n),
	}
	offset := 1
	for i := 0; i < n; i++ {
		f, err := decodeField(buf[i*fieldSize : (i+1)*fieldSize])
		if err != nil {
			return nil, errors.Wrapf(err, "field %d", i)
		}
		f.Offset = offset
		offset += f.Length
		s.fields = append(s.fields, f)
		if _, ok := s.index[f.Name]; !ok {
			s.index[f.Name] = i
		}
	}
	if term := buf[len(buf)-1]; term != headerEnd {
		return nil, errors.Errorf("bad header terminator 0x%02X", term)
	}
	if offset > recordLen {
		return nil, errors.Errorf("fields need %d bytes per record, header declares %d", offset, recordLen)
	}
	return s, nil
}

func readSchema(r io.ReaderAt, hdr *Header) (*schema, error) {
	if int(hdr.HeaderLen) <= headerSize {
		return nil, errors.Errorf("header length %d too small", hdr.HeaderLen)
	}
	buf := make([]byte, int(hdr.HeaderLen)-headerSize)
	n, err := r.ReadAt(buf, headerSize)
	if n != len(buf) {
		if err == nil || err == io.EOF {
			err = errors.Errorf("short descriptor read of %d bytes (wanted %d)", n, len(buf))
		}
		return nil, errors.Wrap(err, "read descriptors")
	}
	return parseSchema(buf, int(hdr.RecordLen))
}

// marshal writes the descriptors and the terminator.
func (s *schema) marshal() []byte {
	buf := make([]byte, 0, len(s.fields)*fieldSize+1)
	for i := range s.fields {
		buf = append(buf, s.fields[i].raw[:]...)
	}
	return append(buf, headerEnd)
}
