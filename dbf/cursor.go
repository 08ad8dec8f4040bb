package dbf

import (
	"github.com/pkg/errors"
)

// Record numbers are global and zero-based over the committed records
// followed by the staged ones.

func (t *Table) pending() int {
	if t.writeBuf == nil {
		return 0
	}
	return t.writeBuf.len()
}

// validRow reports whether n is a valid row bound: committed+pending is
// itself valid, one past the last record.
func (t *Table) validRow(n int) bool {
	return n >= 0 && n <= int(t.hdr.RecordCount)+t.pending()
}

// seek moves the committed-row cursor.
func (t *Table) seek(op string, row int) error {
	if !t.validRow(row) {
		return newError(KindParameter, op, errors.Errorf("row %d out of range [0, %d]", row, int(t.hdr.RecordCount)+t.pending()))
	}
	t.cur = row
	return nil
}

func (t *Table) rowOffset(row int) int64 {
	return t.hdr.recordOffset() + int64(row)*int64(t.hdr.RecordLen)
}
