package dbf

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Table is an open DBF file. It owns the file handle (or, in memory mode,
// the whole file image), the parsed schema and two record buffers: one
// filled by Read and one staged by the caller for WriteCommit.
//
// A Table is not safe for concurrent use.
type Table struct {
	opts     options
	path     string
	readOnly bool

	file  *os.File
	store storage
	mem   *memoryStorage

	hdr    Header
	schema *schema

	// cur is the committed-row cursor used by reads and commits.
	cur          int
	appendBudget int

	readBuf  *recordBuffer
	writeBuf *recordBuffer
}

// New returns a closed Table.
func New(opts ...Option) *Table {
	t := &Table{opts: defaultOptions()}
	for _, opt := range opts {
		opt(&t.opts)
	}
	return t
}

// Open opens the table at path.
func Open(path string, readOnly bool, opts ...Option) (*Table, error) {
	t := New(opts...)
	if err := t.Open(path, readOnly); err != nil {
		return nil, err
	}
	return t, nil
}

// Open parses the header and field descriptors of the table at path. It
// does nothing when the table is already open. On failure the table stays
// closed.
func (t *Table) Open(path string, readOnly bool) error {
	if t.IsOpen() {
		return nil
	}
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	file, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return newError(KindFile, "open", errors.WithStack(err))
	}
	hdr, err := readHeader(file)
	if err != nil {
		err = multierr.Append(err, file.Close())
		return newError(KindFile, "open", err)
	}
	s, err := readSchema(file, &hdr)
	if err != nil {
		err = multierr.Append(err, file.Close())
		return newError(KindFile, "open", err)
	}
	store := fileStorage{file}
	if err := checkSize(store, &hdr); err != nil {
		err = multierr.Append(err, file.Close())
		return newError(KindFile, "open", err)
	}

	t.path = path
	t.readOnly = readOnly
	t.file = file
	t.store = store
	t.mem = nil
	t.hdr = hdr
	t.schema = s
	t.cur = 0
	t.appendBudget = 0
	t.opts.logger.Debug("dbf: opened table",
		"path", path,
		"version", int(hdr.Version),
		"records", hdr.RecordCount,
		"fields", len(s.fields),
		"read_only", readOnly)
	return nil
}

// IsOpen reports whether the table holds an open file.
func (t *Table) IsOpen() bool {
	return t.store != nil
}

// Close releases the file handle, the memory image and both record
// buffers. Closing a closed table is a no-op.
func (t *Table) Close() error {
	var err error
	if t.store != nil {
		err = t.store.Close()
	}
	t.file = nil
	t.store = nil
	t.mem = nil
	t.schema = nil
	t.hdr = Header{}
	t.readBuf = nil
	t.writeBuf = nil
	t.cur = 0
	t.appendBudget = 0
	if err != nil {
		return newError(KindFile, "close", errors.WithStack(err))
	}
	return nil
}

// checkSize makes sure the records the header declares are present. Only
// the EOF marker may be missing.
func checkSize(s storage, hdr *Header) error {
	size, err := s.Size()
	if err != nil {
		return errors.Wrap(err, "stat")
	}
	if want := hdr.fileSize() - 1; size < want {
		return errors.Errorf("%d records need %d bytes, file has %d", hdr.RecordCount, want, size)
	}
	return nil
}

func (t *Table) checkOpen(op string) error {
	if !t.IsOpen() {
		return newError(KindFile, op, errors.New("table is not open"))
	}
	return nil
}

// EnableMemoryMode loads the whole file into memory with room for
// appendBudget more records. Later reads and commits use the image; it is
// written back by FileCommit. Calling it again keeps the current image and
// only re-reserves the budget.
func (t *Table) EnableMemoryMode(appendBudget int) error {
	const op = "enable memory mode"
	if err := t.checkOpen(op); err != nil {
		return err
	}
	if appendBudget < 0 {
		return newError(KindParameter, op, errors.Errorf("negative append budget %d", appendBudget))
	}
	reserve := int64(appendBudget) * int64(t.hdr.RecordLen)
	if t.mem != nil {
		t.mem.reserve(reserve)
		t.appendBudget = appendBudget
		return nil
	}
	if err := checkSize(t.store, &t.hdr); err != nil {
		return newError(KindFile, op, err)
	}
	mem, err := loadMemoryStorage(t.file, t.hdr.fileSize(), reserve)
	if err != nil {
		return newError(KindFile, op, err)
	}
	t.store = mem
	t.mem = mem
	t.appendBudget = appendBudget
	t.opts.logger.Debug("dbf: memory mode enabled",
		"path", t.path,
		"image_bytes", len(mem.image),
		"append_budget", appendBudget)
	return nil
}

// MemoryMode reports whether the table is served from a memory image.
func (t *Table) MemoryMode() bool {
	return t.store != nil && t.store.memoryResident()
}

// RecordCount returns the number of committed records.
func (t *Table) RecordCount() int {
	return int(t.hdr.RecordCount)
}

// FieldCount returns the number of fields.
func (t *Table) FieldCount() int {
	if t.schema == nil {
		return 0
	}
	return len(t.schema.fields)
}

// Fields returns a copy of the field descriptors.
func (t *Table) Fields() []Field {
	if t.schema == nil {
		return nil
	}
	fields := make([]Field, len(t.schema.fields))
	copy(fields, t.schema.fields)
	return fields
}

// FieldIndex resolves a field name. Duplicate names resolve to the first field.
func (t *Table) FieldIndex(name string) (int, error) {
	const op = "field index"
	if err := t.checkOpen(op); err != nil {
		return -1, err
	}
	return t.resolve(op, name)
}

func (t *Table) resolve(op, name string) (int, error) {
	i, ok := t.schema.lookup(name)
	if !ok {
		return -1, newError(KindParameter, op, errors.Errorf("unknown field %q", name))
	}
	return i, nil
}

func (t *Table) field(op string, col int) (*Field, error) {
	if col < 0 || col >= len(t.schema.fields) {
		return nil, newError(KindParameter, op, errors.Errorf("column %d out of range [0, %d)", col, len(t.schema.fields)))
	}
	return &t.schema.fields[col], nil
}

// Header returns a copy of the current header.
func (t *Table) Header() Header {
	return t.hdr
}

// ReservedLen is the length of the memo region following the descriptors.
func (t *Table) ReservedLen() int {
	return t.hdr.reservedLen()
}

// HasMemo reports whether the table's version carries a memo region.
func (t *Table) HasMemo() bool {
	return t.hdr.Version.HasMemo()
}

// ReadOnly reports whether the table was opened read-only.
func (t *Table) ReadOnly() bool {
	return t.readOnly
}

// Path returns the path the table was opened from.
func (t *Table) Path() string {
	return t.path
}
