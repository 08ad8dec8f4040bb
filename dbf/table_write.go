package dbf

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	blank       byte = ' '
	deletedFlag byte = '*'
)

// PrepareAppend readies the write buffer for count new records and empties
// it. In memory mode count must stay below the budget given to
// EnableMemoryMode.
func (t *Table) PrepareAppend(count int) error {
	const op = "prepare append"
	if err := t.checkOpen(op); err != nil {
		return err
	}
	if count <= 0 {
		return newError(KindParameter, op, errors.Errorf("invalid record count %d", count))
	}
	if t.mem != nil && count >= t.appendBudget {
		return newError(KindParameter, op, errors.Errorf("%d records exceed the memory mode budget of %d", count, t.appendBudget))
	}
	stride := int(t.hdr.RecordLen)
	if t.writeBuf == nil {
		t.writeBuf = newRecordBuffer(count, stride)
	} else if count*stride > t.writeBuf.size() {
		t.writeBuf.resize(count)
	}
	t.writeBuf.writeReset()
	return nil
}

// WriteGo moves the write cursor to row of the staged batch, growing the
// batch to include it.
func (t *Table) WriteGo(row int) error {
	const op = "write go"
	if err := t.checkOpen(op); err != nil {
		return err
	}
	if t.writeBuf == nil {
		return newError(KindParameter, op, errors.New("no append prepared"))
	}
	if !t.writeBuf.writeGo(row) {
		return newError(KindParameter, op, errors.Errorf("row %d out of range [0, %d)", row, t.writeBuf.capacity))
	}
	return nil
}

func (t *Table) stagedRow(op string) ([]byte, error) {
	if t.writeBuf == nil || t.writeBuf.empty() {
		return nil, newError(KindGeneric, op, errors.New("no staged row"))
	}
	return t.writeBuf.currentRow(), nil
}

// writeField blanks the field and copies value into it left-aligned,
// truncated to the field length.
func (t *Table) writeField(op string, col int, value string) error {
	if err := t.checkOpen(op); err != nil {
		return err
	}
	f, err := t.field(op, col)
	if err != nil {
		return err
	}
	row, err := t.stagedRow(op)
	if err != nil {
		return err
	}
	span := f.span(row)
	fill(span, blank)
	copy(span, value)
	return nil
}

// WriteString stores value in column col of the current staged row.
func (t *Table) WriteString(col int, value string) error {
	return t.writeField("write string", col, value)
}

func (t *Table) WriteInt(col int, value int) error {
	return t.writeField("write int", col, strconv.Itoa(value))
}

func (t *Table) WriteLong(col int, value int64) error {
	return t.writeField("write long", col, strconv.FormatInt(value, 10))
}

// WriteDouble formats value to the field's declared length and decimals.
func (t *Table) WriteDouble(col int, value float64) error {
	const op = "write double"
	if err := t.checkOpen(op); err != nil {
		return err
	}
	f, err := t.field(op, col)
	if err != nil {
		return err
	}
	return t.writeField(op, col, fmt.Sprintf("%*.*f", f.Length, f.Decimals, value))
}

func (t *Table) WriteStringByName(name, value string) error {
	col, err := t.FieldIndex(name)
	if err != nil {
		return err
	}
	return t.WriteString(col, value)
}

func (t *Table) WriteIntByName(name string, value int) error {
	col, err := t.FieldIndex(name)
	if err != nil {
		return err
	}
	return t.WriteInt(col, value)
}

func (t *Table) WriteLongByName(name string, value int64) error {
	col, err := t.FieldIndex(name)
	if err != nil {
		return err
	}
	return t.WriteLong(col, value)
}

func (t *Table) WriteDoubleByName(name string, value float64) error {
	col, err := t.FieldIndex(name)
	if err != nil {
		return err
	}
	return t.WriteDouble(col, value)
}

// WriteDeleted sets or clears the deletion flag of the current staged row.
func (t *Table) WriteDeleted(deleted bool) error {
	const op = "write deleted"
	if err := t.checkOpen(op); err != nil {
		return err
	}
	row, err := t.stagedRow(op)
	if err != nil {
		return err
	}
	row[0] = blank
	if deleted {
		row[0] = deletedFlag
	}
	return nil
}

func (t *Table) checkWritable(op string) error {
	if err := t.checkOpen(op); err != nil {
		return err
	}
	if t.readOnly {
		return newError(KindParameter, op, errors.New("table is read-only"))
	}
	return nil
}

// WriteCommit appends the staged records after the last committed one,
// bumps the record count, stamps the header with today's date and
// rewrites it. The staged buffer is emptied on success. An empty batch is
// a no-op. A failure part-way leaves storage as it is; nothing is rolled
// back.
func (t *Table) WriteCommit() error {
	const op = "write commit"
	if err := t.checkWritable(op); err != nil {
		return err
	}
	if t.writeBuf == nil {
		return newError(KindParameter, op, errors.New("no append prepared"))
	}
	if t.writeBuf.empty() {
		return nil
	}
	if err := t.seek(op, int(t.hdr.RecordCount)); err != nil {
		return err
	}

	data := t.writeBuf.data()
	n, err := t.store.WriteAt(data, t.rowOffset(t.cur))
	if n != len(data) {
		if err == nil {
			err = errors.Errorf("short write of %d bytes (wanted %d)", n, len(data))
		}
		return newError(KindGeneric, op, errors.Wrap(err, "write records"))
	}

	rows := t.writeBuf.len()
	t.hdr.RecordCount += uint32(rows)
	t.hdr.stamp(t.opts.now())
	if err := writeHeader(t.store, &t.hdr); err != nil {
		return newError(KindGeneric, op, err)
	}
	t.cur = int(t.hdr.RecordCount)
	t.writeBuf.writeReset()
	t.opts.logger.Debug("dbf: committed records",
		"path", t.path,
		"rows", rows,
		"records", t.hdr.RecordCount)
	return nil
}

// FileCommit writes the EOF marker after the last record. In memory mode
// it then writes the whole image to the file, which is the only point
// where a memory-resident table reaches disk.
func (t *Table) FileCommit() error {
	const op = "file commit"
	if err := t.checkWritable(op); err != nil {
		return err
	}
	size := t.hdr.fileSize()
	n, err := t.store.WriteAt([]byte{fileEnd}, size-1)
	if n != 1 {
		if err == nil {
			err = errors.New("short write of EOF marker")
		}
		return newError(KindGeneric, op, errors.Wrap(err, "write EOF marker"))
	}
	if err := t.store.flush(size); err != nil {
		return newError(KindGeneric, op, err)
	}
	t.opts.logger.Debug("dbf: file committed",
		"path", t.path,
		"bytes", size,
		"memory", t.mem != nil)
	return nil
}

// Zap truncates the table to zero records, keeping its schema. It is not
// available in memory mode. The file is only rewritten once the old handle
// has been released.
func (t *Table) Zap() error {
	const op = "zap"
	if err := t.checkOpen(op); err != nil {
		return err
	}
	if t.mem != nil {
		return newError(KindFile, op, errors.New("not available in memory mode"))
	}
	if err := t.checkWritable(op); err != nil {
		return err
	}
	file, err := os.OpenFile(t.path, os.O_RDWR, 0)
	if err != nil {
		return newError(KindFile, op, errors.WithStack(err))
	}
	if err := t.file.Close(); err != nil {
		err = multierr.Append(err, file.Close())
		return newError(KindFile, op, errors.WithStack(err))
	}
	t.file = file
	t.store = fileStorage{file}

	hdr := t.hdr
	hdr.RecordCount = 0
	hdr.stamp(t.opts.now())
	if err := writeEmpty(file, &hdr, t.schema); err != nil {
		return newError(KindFile, op, err)
	}
	if err := file.Truncate(hdr.fileSize()); err != nil {
		return newError(KindFile, op, errors.Wrap(err, "truncate"))
	}
	t.hdr = hdr
	t.cur = 0
	t.appendBudget = 0
	if t.readBuf != nil {
		t.readBuf.setLen(0)
	}
	if t.writeBuf != nil {
		t.writeBuf.writeReset()
	}
	t.opts.logger.Debug("dbf: zapped table", "path", t.path)
	return nil
}
