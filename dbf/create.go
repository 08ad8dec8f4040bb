package dbf

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	maxFieldLen  = 255
	maxRecordLen = 1<<16 - 1
)

// FieldSpec declares a field for Create.
type FieldSpec struct {
	Name     string
	Type     FieldType
	Length   int
	Decimals int
}

// ParseFieldSpec parses NAME:TYPE:LENGTH[:DECIMALS], e.g. "PRICE:N:10:2".
func ParseFieldSpec(s string) (FieldSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return FieldSpec{}, newError(KindParameter, "parse field", errors.Errorf("%q is not NAME:TYPE:LENGTH[:DECIMALS]", s))
	}
	if len(parts[1]) != 1 {
		return FieldSpec{}, newError(KindParameter, "parse field", errors.Errorf("bad type %q", parts[1]))
	}
	spec := FieldSpec{
		Name: parts[0],
		Type: FieldType(strings.ToUpper(parts[1])[0]),
	}
	var err error
	if spec.Length, err = strconv.Atoi(parts[2]); err != nil {
		return FieldSpec{}, newError(KindParameter, "parse field", errors.Wrapf(err, "length of %q", s))
	}
	if len(parts) == 4 {
		if spec.Decimals, err = strconv.Atoi(parts[3]); err != nil {
			return FieldSpec{}, newError(KindParameter, "parse field", errors.Wrapf(err, "decimals of %q", s))
		}
	}
	return spec, nil
}

func (spec FieldSpec) validate() error {
	if n := len(spec.Name); n == 0 || n > maxFieldNameLen {
		return errors.Errorf("field name %q must be 1 to %d characters", spec.Name, maxFieldNameLen)
	}
	for i := 0; i < len(spec.Name); i++ {
		if c := spec.Name[i]; c <= ' ' || c > '~' {
			return errors.Errorf("field name %q has a non-printable character", spec.Name)
		}
	}
	if !spec.Type.valid() {
		return errors.Errorf("field %s: unknown type %q", spec.Name, byte(spec.Type))
	}
	if spec.Length < 1 || spec.Length > maxFieldLen {
		return errors.Errorf("field %s: length %d out of range [1, %d]", spec.Name, spec.Length, maxFieldLen)
	}
	if spec.Decimals < 0 || (spec.Decimals != 0 && spec.Decimals >= spec.Length) {
		return errors.Errorf("field %s: %d decimals do not fit length %d", spec.Name, spec.Decimals, spec.Length)
	}
	return nil
}

func newSchema(specs []FieldSpec) (*schema, int, error) {
	if len(specs) == 0 {
		return nil, 0, errors.New("no fields")
	}
	s := &schema{
		fields: make([]Field, 0, len(specs)),
		index:  make(map[string]int, len(specs)),
	}
	offset := 1
	for i, spec := range specs {
		if err := spec.validate(); err != nil {
			return nil, 0, err
		}
		if _, ok := s.index[spec.Name]; ok {
			return nil, 0, errors.Errorf("duplicate field %q", spec.Name)
		}
		f, err := encodeField(spec.Name, spec.Type, spec.Length, spec.Decimals)
		if err != nil {
			return nil, 0, err
		}
		f.Offset = offset
		offset += f.Length
		s.fields = append(s.fields, f)
		s.index[f.Name] = i
	}
	if offset > maxRecordLen {
		return nil, 0, errors.Errorf("record length %d exceeds %d", offset, maxRecordLen)
	}
	return s, offset, nil
}

// Create writes a new empty table at path, replacing any existing file,
// and returns it opened read-write.
func Create(path string, version Version, specs []FieldSpec, opts ...Option) (*Table, error) {
	const op = "create"
	s, recordLen, err := newSchema(specs)
	if err != nil {
		return nil, newError(KindParameter, op, err)
	}
	headerLen := headerSize + fieldSize*len(s.fields) + 1
	if headerLen > maxRecordLen {
		return nil, newError(KindParameter, op, errors.Errorf("%d fields do not fit a header", len(s.fields)))
	}
	t := New(opts...)
	hdr := Header{
		Version:   version,
		HeaderLen: uint16(headerLen),
		RecordLen: uint16(recordLen),
	}
	hdr.stamp(t.opts.now())

	file, err := os.Create(path)
	if err != nil {
		return nil, newError(KindFile, op, errors.WithStack(err))
	}
	err = writeEmpty(file, &hdr, s)
	err = multierr.Append(err, file.Close())
	if err != nil {
		return nil, newError(KindFile, op, err)
	}
	if err := t.Open(path, false); err != nil {
		return nil, err
	}
	return t, nil
}

// writeEmpty lays out a table with no records: header, descriptors,
// terminator, zeroed reserved region and the EOF marker.
func writeEmpty(w io.WriterAt, hdr *Header, s *schema) error {
	head, err := hdr.MarshalBinary()
	if err != nil {
		return err
	}
	buf := make([]byte, 0, hdr.fileSize())
	buf = append(buf, head...)
	buf = append(buf, s.marshal()...)
	buf = append(buf, make([]byte, hdr.reservedLen())...)
	buf = append(buf, fileEnd)
	n, err := w.WriteAt(buf, 0)
	if err != nil {
		return errors.Wrap(err, "write table")
	}
	if n != len(buf) {
		return errors.Errorf("short table write of %d bytes (wanted %d)", n, len(buf))
	}
	return nil
}
