package dbf

import (
	"github.com/pkg/errors"
)

// Read loads count records starting at row start into the read buffer.
// Records below the committed count come from storage, the rest from the
// staged write buffer. The buffer cursor is reset to its first record.
func (t *Table) Read(start, count int) error {
	const op = "read"
	if err := t.checkOpen(op); err != nil {
		return err
	}
	if start < 0 || count < 0 || !t.validRow(start+count) {
		return newError(KindParameter, op, errors.Errorf("rows [%d, %d) out of range [0, %d]", start, start+count, int(t.hdr.RecordCount)+t.pending()))
	}
	if err := t.seek(op, start); err != nil {
		return err
	}

	stride := int(t.hdr.RecordLen)
	if t.readBuf == nil {
		t.readBuf = newRecordBuffer(count, stride)
	} else if count*stride > t.readBuf.size() {
		t.readBuf.resize(count)
	}
	dst := t.readBuf.rows(count)

	committed := int(t.hdr.RecordCount)
	n := 0
	if start < committed {
		n = min(count, committed-start)
		want := n * stride
		got, err := t.store.ReadAt(dst[:want], t.rowOffset(start))
		if got != want {
			t.readBuf.setLen(0)
			if err == nil {
				err = errors.Errorf("short read of %d bytes (wanted %d)", got, want)
			}
			return newError(KindGeneric, op, errors.Wrapf(err, "rows [%d, %d)", start, start+n))
		}
	}
	if n < count {
		from := (start + n - committed) * stride
		copy(dst[n*stride:], t.writeBuf.data()[from:from+(count-n)*stride])
	}
	t.readBuf.setLen(count)
	return nil
}

// ReadGo moves the read cursor to row, relative to the last Read.
func (t *Table) ReadGo(row int) error {
	const op = "read go"
	if err := t.checkOpen(op); err != nil {
		return err
	}
	if t.readBuf == nil {
		return newError(KindParameter, op, errors.New("no rows read"))
	}
	if !t.readBuf.readGo(row) {
		return newError(KindParameter, op, errors.Errorf("row %d out of range [0, %d)", row, t.readBuf.len()))
	}
	return nil
}

func (t *Table) readField(op string, col int) ([]byte, error) {
	if err := t.checkOpen(op); err != nil {
		return nil, err
	}
	f, err := t.field(op, col)
	if err != nil {
		return nil, err
	}
	if t.readBuf == nil || t.readBuf.empty() {
		return nil, newError(KindGeneric, op, errors.New("no row loaded"))
	}
	return f.span(t.readBuf.currentRow()), nil
}

// ReadString returns the raw text of column col in the current read row.
func (t *Table) ReadString(col int) (string, error) {
	b, err := t.readField("read string", col)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadInt parses column col as an integer. Leading blanks are skipped and
// parsing stops at the first non-digit; unparsable text yields 0.
func (t *Table) ReadInt(col int) (int, error) {
	b, err := t.readField("read int", col)
	if err != nil {
		return 0, err
	}
	return int(parseInt(b)), nil
}

// ReadLong is ReadInt returning an int64.
func (t *Table) ReadLong(col int) (int64, error) {
	b, err := t.readField("read long", col)
	if err != nil {
		return 0, err
	}
	return parseInt(b), nil
}

// ReadDouble parses column col as a decimal number, with the same
// leniency as ReadInt.
func (t *Table) ReadDouble(col int) (float64, error) {
	b, err := t.readField("read double", col)
	if err != nil {
		return 0, err
	}
	return parseFloat(b), nil
}

func (t *Table) ReadStringByName(name string) (string, error) {
	col, err := t.FieldIndex(name)
	if err != nil {
		return "", err
	}
	return t.ReadString(col)
}

func (t *Table) ReadIntByName(name string) (int, error) {
	col, err := t.FieldIndex(name)
	if err != nil {
		return 0, err
	}
	return t.ReadInt(col)
}

func (t *Table) ReadLongByName(name string) (int64, error) {
	col, err := t.FieldIndex(name)
	if err != nil {
		return 0, err
	}
	return t.ReadLong(col)
}

func (t *Table) ReadDoubleByName(name string) (float64, error) {
	col, err := t.FieldIndex(name)
	if err != nil {
		return 0, err
	}
	return t.ReadDouble(col)
}

// ReadDeleted reports whether the current read row carries the deletion flag.
func (t *Table) ReadDeleted() (bool, error) {
	const op = "read deleted"
	if err := t.checkOpen(op); err != nil {
		return false, err
	}
	if t.readBuf == nil || t.readBuf.empty() {
		return false, newError(KindGeneric, op, errors.New("no row loaded"))
	}
	return t.readBuf.currentRow()[0] == deletedFlag, nil
}
