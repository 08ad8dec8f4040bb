package dbf

// recordBuffer holds up to capacity records of stride bytes each. The same
// type backs the read look-ahead and the pending-write staging area.
type recordBuffer struct {
	buf      []byte
	stride   int
	capacity int
	count    int
	cur      int
}

func newRecordBuffer(capacity, stride int) *recordBuffer {
	return &recordBuffer{
		buf:      make([]byte, capacity*stride),
		stride:   stride,
		capacity: capacity,
	}
}

func (b *recordBuffer) len() int {
	return b.count
}

func (b *recordBuffer) empty() bool {
	return b.count == 0
}

// size is the capacity in bytes.
func (b *recordBuffer) size() int {
	return b.capacity * b.stride
}

func (b *recordBuffer) readGo(row int) bool {
	if row < 0 || row >= b.count {
		return false
	}
	b.cur = row
	return true
}

// writeGo moves the cursor and grows the valid count to cover row. Rows
// entering the valid range are blank-filled.
func (b *recordBuffer) writeGo(row int) bool {
	if row < 0 || row >= b.capacity {
		return false
	}
	if row >= b.count {
		fill(b.buf[b.count*b.stride:(row+1)*b.stride], blank)
		b.count = row + 1
	}
	b.cur = row
	return true
}

func (b *recordBuffer) writeReset() {
	b.cur = 0
	b.count = 0
}

// currentRow is nil when the buffer is empty.
func (b *recordBuffer) currentRow() []byte {
	return b.at(b.cur)
}

func (b *recordBuffer) at(i int) []byte {
	if i < 0 || i >= b.count {
		return nil
	}
	off := i * b.stride
	return b.buf[off : off+b.stride]
}

// data returns the valid records as one contiguous slice.
func (b *recordBuffer) data() []byte {
	return b.buf[:b.count*b.stride]
}

// rows returns the bytes of n records starting at capacity row 0, to be
// filled by the caller before setLen.
func (b *recordBuffer) rows(n int) []byte {
	return b.buf[:n*b.stride]
}

func (b *recordBuffer) setLen(n int) {
	b.count = n
	b.cur = 0
}

// resize changes the capacity to n records, keeping the existing contents.
func (b *recordBuffer) resize(n int) {
	if n < b.capacity {
		b.capacity = n
		b.buf = b.buf[:n*b.stride]
	}
	if n < b.count {
		b.count = n
	}
	if b.cur >= b.capacity {
		b.cur = 0
	}
	if n > b.capacity {
		buf := make([]byte, n*b.stride)
		copy(buf, b.buf[:b.capacity*b.stride])
		b.buf = buf
		b.capacity = n
	}
}

func fill(b []byte, c byte) {
	for i := range b {
		b[i] = c
	}
}
