package dbf

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/fs"
)

var testClock = func() time.Time {
	return time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
}

var peopleFields = []FieldSpec{
	{Name: "NAME", Type: Character, Length: 10},
	{Name: "AGE", Type: Numeric, Length: 3},
	{Name: "PRICE", Type: Numeric, Length: 8, Decimals: 2},
}

type person struct {
	name  string
	age   int
	price float64
}

var people = []person{
	{"alice", 30, 1.5},
	{"bob", 41, 20.25},
	{"carol", 7, 300},
}

func createPeople(t *testing.T, path string, version Version) *Table {
	t.Helper()
	tbl, err := Create(path, version, peopleFields, WithClock(testClock))
	assert.NilError(t, err)
	return tbl
}

// stage writes rows into the write buffer starting at staged row 0.
func stage(t *testing.T, tbl *Table, rows []person) {
	t.Helper()
	for i, p := range rows {
		assert.NilError(t, tbl.WriteGo(i))
		assert.NilError(t, tbl.WriteStringByName("NAME", p.name))
		assert.NilError(t, tbl.WriteIntByName("AGE", p.age))
		assert.NilError(t, tbl.WriteDoubleByName("PRICE", p.price))
	}
}

func readPerson(t *testing.T, tbl *Table) person {
	t.Helper()
	name, err := tbl.ReadStringByName("NAME")
	assert.NilError(t, err)
	age, err := tbl.ReadIntByName("AGE")
	assert.NilError(t, err)
	price, err := tbl.ReadDoubleByName("PRICE")
	assert.NilError(t, err)
	return person{Trim(name), age, price}
}

func assertKind(t *testing.T, err error, kind *Error) {
	t.Helper()
	assert.Assert(t, err != nil, "expected %v", kind)
	assert.Assert(t, errors.Is(err, kind), "got %v, want %v", err, kind)
}

func TestRoundTrip(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	path := filepath.Join(dir.Path(), "people.dbf")

	tbl := createPeople(t, path, VersionDBase3)
	assert.Equal(t, tbl.RecordCount(), 0)
	assert.Equal(t, tbl.FieldCount(), 3)
	before := tbl.RecordCount()

	assert.NilError(t, tbl.PrepareAppend(3))
	stage(t, tbl, people)
	assert.NilError(t, tbl.WriteCommit())
	assert.NilError(t, tbl.FileCommit())
	assert.NilError(t, tbl.Close())

	tbl, err := Open(path, true)
	assert.NilError(t, err)
	defer tbl.Close()
	assert.Equal(t, tbl.RecordCount(), before+3)
	assert.NilError(t, tbl.Read(0, 3))
	for i, want := range people {
		assert.NilError(t, tbl.ReadGo(i))
		assert.Equal(t, readPerson(t, tbl), want)
	}

	hdr := tbl.Header()
	assert.Equal(t, hdr.Year, uint8(26))
	assert.Equal(t, hdr.Month, uint8(10))
	assert.Equal(t, hdr.Day, uint8(19))

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Equal(t, len(data), 32+3*32+1+3*22+1)
	assert.Equal(t, data[len(data)-1], fileEnd)
	// deletion flag, then NAME left-aligned and blank padded
	assert.Equal(t, string(data[129:129+11]), " alice     ")
	assert.Equal(t, string(data[129+14:129+22]), "    1.50")
}

func TestSchemaInvariants(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()

	tbl := createPeople(t, filepath.Join(dir.Path(), "people.dbf"), VersionDBase3)
	defer tbl.Close()

	hdr := tbl.Header()
	fields := tbl.Fields()
	assert.Equal(t, int(hdr.HeaderLen), 32+32*len(fields)+1)
	sum := 0
	prev := 0
	for _, f := range fields {
		assert.Assert(t, f.Offset > prev)
		prev = f.Offset
		sum += f.Length
	}
	assert.Equal(t, int(hdr.RecordLen), 1+sum)
	assert.Equal(t, fields[0].Offset, 1)
	last := fields[len(fields)-1]
	assert.Equal(t, last.Offset+last.Length, int(hdr.RecordLen))
}

func TestOpenErrors(t *testing.T) {
	dir := fs.NewDir(t, "godbf",
		fs.WithFile("short.dbf", "\x03\x1a\x0a"),
	)
	defer dir.Remove()

	tbl := New()
	err := tbl.Open(filepath.Join(dir.Path(), "missing.dbf"), true)
	assertKind(t, err, ErrFile)
	assert.Assert(t, !tbl.IsOpen())

	err = tbl.Open(filepath.Join(dir.Path(), "short.dbf"), true)
	assertKind(t, err, ErrFile)
	assert.Assert(t, !tbl.IsOpen())

	// a bad terminator is a corrupt schema
	path := filepath.Join(dir.Path(), "bad.dbf")
	created := createPeople(t, path, VersionDBase3)
	assert.NilError(t, created.Close())
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	assert.NilError(t, err)
	_, err = f.WriteAt([]byte{0}, 128)
	assert.NilError(t, err)
	assert.NilError(t, f.Close())
	err = tbl.Open(path, true)
	assertKind(t, err, ErrFile)
	assert.ErrorContains(t, err, "terminator")
	assert.Assert(t, !tbl.IsOpen())

	// the same session can be reused with a good path
	good := filepath.Join(dir.Path(), "good.dbf")
	created = createPeople(t, good, VersionDBase3)
	assert.NilError(t, created.Close())
	assert.NilError(t, tbl.Open(good, true))
	assert.Assert(t, tbl.IsOpen())
	// opening again is a no-op
	assert.NilError(t, tbl.Open(path, true))
	assert.Equal(t, tbl.Path(), good)
	assert.NilError(t, tbl.Close())
	assert.NilError(t, tbl.Close())
}

func TestClosedTable(t *testing.T) {
	tbl := New()
	assertKind(t, tbl.Read(0, 0), ErrFile)
	assertKind(t, tbl.ReadGo(0), ErrFile)
	assertKind(t, tbl.PrepareAppend(1), ErrFile)
	assertKind(t, tbl.WriteGo(0), ErrFile)
	assertKind(t, tbl.WriteCommit(), ErrFile)
	assertKind(t, tbl.FileCommit(), ErrFile)
	assertKind(t, tbl.Zap(), ErrFile)
	assertKind(t, tbl.EnableMemoryMode(1), ErrFile)
	_, err := tbl.ReadString(0)
	assertKind(t, err, ErrFile)
	assert.Equal(t, tbl.RecordCount(), 0)
	assert.Equal(t, tbl.FieldCount(), 0)
	assert.NilError(t, tbl.Close())
}

func TestBounds(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	tbl := createPeople(t, filepath.Join(dir.Path(), "people.dbf"), VersionDBase3)
	defer tbl.Close()

	assertKind(t, tbl.Read(0, 1), ErrParameter)
	assertKind(t, tbl.Read(-1, 0), ErrParameter)
	assertKind(t, tbl.ReadGo(0), ErrParameter)
	assertKind(t, tbl.WriteGo(0), ErrParameter)
	assertKind(t, tbl.PrepareAppend(0), ErrParameter)

	assert.NilError(t, tbl.PrepareAppend(2))
	stage(t, tbl, people[:2])
	assertKind(t, tbl.WriteGo(2), ErrParameter)
	assertKind(t, tbl.WriteGo(-1), ErrParameter)

	// staged rows count toward the valid range
	assert.NilError(t, tbl.Read(0, 2))
	assertKind(t, tbl.Read(1, 2), ErrParameter)
	assert.NilError(t, tbl.ReadGo(1))
	assert.Equal(t, readPerson(t, tbl), people[1])
	assertKind(t, tbl.ReadGo(2), ErrParameter)

	assert.NilError(t, tbl.WriteCommit())
	assert.Equal(t, tbl.RecordCount(), 2)
	assertKind(t, tbl.Read(0, 3), ErrParameter)
	assert.NilError(t, tbl.Read(2, 0))
	assertKind(t, tbl.ReadGo(0), ErrParameter)
}

func TestFieldAccessErrors(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	tbl := createPeople(t, filepath.Join(dir.Path(), "people.dbf"), VersionDBase3)
	defer tbl.Close()

	_, err := tbl.ReadString(0)
	assertKind(t, err, ErrGeneric)
	_, err = tbl.ReadString(3)
	assertKind(t, err, ErrParameter)
	_, err = tbl.ReadStringByName("MISSING")
	assertKind(t, err, ErrParameter)
	_, err = tbl.ReadDeleted()
	assertKind(t, err, ErrGeneric)

	assertKind(t, tbl.WriteString(0, "x"), ErrGeneric)
	assert.NilError(t, tbl.PrepareAppend(1))
	assertKind(t, tbl.WriteString(0, "x"), ErrGeneric)
	assert.NilError(t, tbl.WriteGo(0))
	assertKind(t, tbl.WriteString(-1, "x"), ErrParameter)
	assertKind(t, tbl.WriteStringByName("MISSING", "x"), ErrParameter)
	assertKind(t, tbl.WriteDouble(7, 1), ErrParameter)

	idx, err := tbl.FieldIndex("PRICE")
	assert.NilError(t, err)
	assert.Equal(t, idx, 2)
}

func TestWriteFieldTruncatesAndBlanks(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	tbl := createPeople(t, filepath.Join(dir.Path(), "people.dbf"), VersionDBase3)
	defer tbl.Close()

	assert.NilError(t, tbl.PrepareAppend(1))
	assert.NilError(t, tbl.WriteGo(0))
	assert.NilError(t, tbl.WriteString(0, "abcdefghijklmnop"))
	assert.NilError(t, tbl.Read(0, 1))
	v, err := tbl.ReadString(0)
	assert.NilError(t, err)
	assert.Equal(t, v, "abcdefghij")

	assert.NilError(t, tbl.WriteString(0, "xy"))
	assert.NilError(t, tbl.Read(0, 1))
	v, err = tbl.ReadString(0)
	assert.NilError(t, err)
	assert.Equal(t, v, "xy        ")

	// untouched fields of a staged row are blank
	v, err = tbl.ReadString(1)
	assert.NilError(t, err)
	assert.Equal(t, v, "   ")
	n, err := tbl.ReadLong(1)
	assert.NilError(t, err)
	assert.Equal(t, n, int64(0))
}

func TestDeletionFlag(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	path := filepath.Join(dir.Path(), "people.dbf")
	tbl := createPeople(t, path, VersionDBase3)

	assert.NilError(t, tbl.PrepareAppend(2))
	stage(t, tbl, people[:2])
	assert.NilError(t, tbl.WriteDeleted(true))
	assert.NilError(t, tbl.WriteCommit())
	assert.NilError(t, tbl.FileCommit())
	assert.NilError(t, tbl.Close())

	tbl, err := Open(path, true)
	assert.NilError(t, err)
	defer tbl.Close()
	assert.NilError(t, tbl.Read(0, 2))
	deleted, err := tbl.ReadDeleted()
	assert.NilError(t, err)
	assert.Assert(t, !deleted)
	assert.NilError(t, tbl.ReadGo(1))
	deleted, err = tbl.ReadDeleted()
	assert.NilError(t, err)
	assert.Assert(t, deleted)
}

func TestReadSpansCommittedAndStaged(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	tbl := createPeople(t, filepath.Join(dir.Path(), "people.dbf"), VersionDBase3)
	defer tbl.Close()

	assert.NilError(t, tbl.PrepareAppend(2))
	stage(t, tbl, people[:2])
	assert.NilError(t, tbl.WriteCommit())

	assert.NilError(t, tbl.PrepareAppend(1))
	stage(t, tbl, people[2:])
	assert.NilError(t, tbl.Read(1, 2))
	assert.Equal(t, readPerson(t, tbl), people[1])
	assert.NilError(t, tbl.ReadGo(1))
	assert.Equal(t, readPerson(t, tbl), people[2])
}

func TestCommitEmptiesStagedRows(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	tbl := createPeople(t, filepath.Join(dir.Path(), "people.dbf"), VersionDBase3)
	defer tbl.Close()

	assertKind(t, tbl.WriteCommit(), ErrParameter)
	assert.NilError(t, tbl.PrepareAppend(2))
	// nothing staged yet
	assert.NilError(t, tbl.WriteCommit())
	assert.Equal(t, tbl.RecordCount(), 0)

	stage(t, tbl, people[:2])
	assert.NilError(t, tbl.WriteCommit())
	assert.NilError(t, tbl.WriteCommit())
	assert.Equal(t, tbl.RecordCount(), 2)

	// a larger batch reallocates the write buffer
	assert.NilError(t, tbl.PrepareAppend(5))
	stage(t, tbl, []person{people[0], people[1], people[2], people[0], people[1]})
	assert.NilError(t, tbl.WriteCommit())
	assert.Equal(t, tbl.RecordCount(), 7)
	assert.NilError(t, tbl.Read(2, 5))
	assert.NilError(t, tbl.ReadGo(2))
	assert.Equal(t, readPerson(t, tbl), people[2])
}

func TestReadOnly(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	path := filepath.Join(dir.Path(), "people.dbf")
	created := createPeople(t, path, VersionDBase3)
	assert.NilError(t, created.Close())

	tbl, err := Open(path, true)
	assert.NilError(t, err)
	defer tbl.Close()
	assert.Assert(t, tbl.ReadOnly())
	assert.NilError(t, tbl.PrepareAppend(1))
	stage(t, tbl, people[:1])
	assertKind(t, tbl.WriteCommit(), ErrParameter)
	assertKind(t, tbl.FileCommit(), ErrParameter)
	assertKind(t, tbl.Zap(), ErrParameter)
}

// run performs the same appends against a table, in memory mode or not.
func run(t *testing.T, path string, version Version, memory bool) []byte {
	t.Helper()
	tbl := createPeople(t, path, version)
	if memory {
		assert.NilError(t, tbl.EnableMemoryMode(4))
		assert.Assert(t, tbl.MemoryMode())
	}
	assert.NilError(t, tbl.PrepareAppend(3))
	stage(t, tbl, people)
	assert.NilError(t, tbl.WriteCommit())
	assert.NilError(t, tbl.PrepareAppend(2))
	stage(t, tbl, people[1:])
	assert.NilError(t, tbl.WriteCommit())
	// repeated batches can outgrow the reserved image
	assert.NilError(t, tbl.PrepareAppend(3))
	stage(t, tbl, people)
	assert.NilError(t, tbl.WriteCommit())
	assert.NilError(t, tbl.FileCommit())

	assert.NilError(t, tbl.Read(0, 8))
	assert.NilError(t, tbl.ReadGo(4))
	assert.Equal(t, readPerson(t, tbl), people[2])
	assert.NilError(t, tbl.Close())

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	return data
}

func TestMemoryModeEquivalence(t *testing.T) {
	for _, version := range []Version{VersionDBase3, VersionDBase3Memo, VersionFoxPro2Memo} {
		dir := fs.NewDir(t, "godbf")
		onDisk := run(t, filepath.Join(dir.Path(), "disk.dbf"), version, false)
		inMemory := run(t, filepath.Join(dir.Path(), "memory.dbf"), version, true)
		assert.DeepEqual(t, onDisk, inMemory)
		assert.Equal(t, len(onDisk), 129+version.ReservedLen()+8*22+1)
		dir.Remove()
	}
}

func TestMemoryModeIsNotDurableBeforeFileCommit(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	path := filepath.Join(dir.Path(), "people.dbf")
	tbl := createPeople(t, path, VersionDBase3)
	before, err := os.ReadFile(path)
	assert.NilError(t, err)

	assert.NilError(t, tbl.EnableMemoryMode(10))
	assert.NilError(t, tbl.PrepareAppend(3))
	stage(t, tbl, people)
	assert.NilError(t, tbl.WriteCommit())
	assert.Equal(t, tbl.RecordCount(), 3)

	after, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.DeepEqual(t, before, after)

	assert.NilError(t, tbl.FileCommit())
	after, err = os.ReadFile(path)
	assert.NilError(t, err)
	assert.Equal(t, len(after), 129+3*22+1)
	assert.NilError(t, tbl.Close())
}

func TestAppendBudget(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	tbl := createPeople(t, filepath.Join(dir.Path(), "people.dbf"), VersionDBase3)
	defer tbl.Close()

	// the budget only applies in memory mode
	assert.NilError(t, tbl.PrepareAppend(10))

	assertKind(t, tbl.EnableMemoryMode(-1), ErrParameter)
	assert.NilError(t, tbl.EnableMemoryMode(3))
	assertKind(t, tbl.PrepareAppend(3), ErrParameter)
	assertKind(t, tbl.PrepareAppend(4), ErrParameter)
	assert.NilError(t, tbl.PrepareAppend(2))

	// enabling again re-reserves the budget on the same image
	assert.NilError(t, tbl.EnableMemoryMode(6))
	assert.NilError(t, tbl.PrepareAppend(5))
	assertKind(t, tbl.PrepareAppend(6), ErrParameter)
}

func TestZap(t *testing.T) {
	for _, version := range []Version{VersionDBase3, VersionDBase4Memo} {
		dir := fs.NewDir(t, "godbf")
		path := filepath.Join(dir.Path(), "people.dbf")
		tbl := createPeople(t, path, version)
		fresh, err := os.ReadFile(path)
		assert.NilError(t, err)

		assert.NilError(t, tbl.PrepareAppend(3))
		stage(t, tbl, people)
		assert.NilError(t, tbl.WriteCommit())
		assert.NilError(t, tbl.FileCommit())
		assert.NilError(t, tbl.Read(0, 3))

		assert.NilError(t, tbl.Zap())
		assert.Equal(t, tbl.RecordCount(), 0)
		assertKind(t, tbl.ReadGo(0), ErrParameter)
		assertKind(t, tbl.Read(0, 1), ErrParameter)

		zapped, err := os.ReadFile(path)
		assert.NilError(t, err)
		assert.Equal(t, len(zapped), 129+version.ReservedLen()+1)
		assert.DeepEqual(t, zapped, fresh)
		size, err := tbl.store.Size()
		assert.NilError(t, err)
		assert.Equal(t, size, int64(len(fresh)))

		// the table is still usable
		assert.NilError(t, tbl.PrepareAppend(1))
		stage(t, tbl, people[:1])
		assert.NilError(t, tbl.WriteCommit())
		assert.NilError(t, tbl.FileCommit())
		assert.Equal(t, tbl.RecordCount(), 1)

		assert.NilError(t, tbl.EnableMemoryMode(2))
		assertKind(t, tbl.Zap(), ErrFile)
		assert.NilError(t, tbl.Close())
		dir.Remove()
	}
}

func TestLogger(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	path := filepath.Join(dir.Path(), "people.dbf")
	created := createPeople(t, path, VersionDBase3)
	assert.NilError(t, created.Close())

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tbl, err := Open(path, false, WithLogger(logger))
	assert.NilError(t, err)
	assert.NilError(t, tbl.PrepareAppend(1))
	stage(t, tbl, people[:1])
	assert.NilError(t, tbl.WriteCommit())
	assert.NilError(t, tbl.Close())
	assert.Assert(t, is.Contains(buf.String(), "msg=\"dbf: opened table\""))
	assert.Assert(t, is.Contains(buf.String(), "dbf: committed records"))
}

// commitPeople writes the three people rows to a new table and returns
// its path and size.
func commitPeople(t *testing.T, dir *fs.Dir) (string, int64) {
	t.Helper()
	path := filepath.Join(dir.Path(), "people.dbf")
	tbl := createPeople(t, path, VersionDBase3)
	assert.NilError(t, tbl.PrepareAppend(3))
	stage(t, tbl, people)
	assert.NilError(t, tbl.WriteCommit())
	assert.NilError(t, tbl.FileCommit())
	assert.NilError(t, tbl.Close())
	return path, 129 + 3*22 + 1
}

func TestTruncatedRecords(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	path, _ := commitPeople(t, dir)

	tbl, err := Open(path, true)
	assert.NilError(t, err)
	defer tbl.Close()
	assert.NilError(t, os.Truncate(path, 129+2*22+5))

	err = tbl.Read(0, 3)
	assertKind(t, err, ErrGeneric)
	assert.ErrorContains(t, err, "rows [0, 3)")
	assertKind(t, tbl.ReadGo(0), ErrParameter)
	assertKind(t, tbl.EnableMemoryMode(0), ErrFile)
	assert.Assert(t, !tbl.MemoryMode())

	// rows still on disk remain readable
	assert.NilError(t, tbl.Read(0, 2))
	assert.NilError(t, tbl.ReadGo(1))
	assert.Equal(t, readPerson(t, tbl), people[1])

	assert.NilError(t, tbl.Close())
	_, err = Open(path, true)
	assertKind(t, err, ErrFile)
	assert.ErrorContains(t, err, "3 records need 195 bytes, file has 178")
}

func TestShortImage(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	path, size := commitPeople(t, dir)
	assert.NilError(t, os.Truncate(path, size-10))

	f, err := os.Open(path)
	assert.NilError(t, err)
	defer f.Close()
	_, err = loadMemoryStorage(f, size, 0)
	assert.ErrorContains(t, err, "short image read of 186 bytes (wanted 196)")
}

func TestMissingEOFMarker(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	path, size := commitPeople(t, dir)
	assert.NilError(t, os.Truncate(path, size-1))

	tbl, err := Open(path, false)
	assert.NilError(t, err)
	assert.NilError(t, tbl.EnableMemoryMode(2))
	mem, ok := tbl.store.(*memoryStorage)
	assert.Assert(t, ok)
	assert.Equal(t, int64(len(mem.image)), size)
	assert.Equal(t, mem.image[size-1], fileEnd)

	assert.NilError(t, tbl.Read(0, 3))
	assert.NilError(t, tbl.ReadGo(2))
	assert.Equal(t, readPerson(t, tbl), people[2])

	assert.NilError(t, tbl.FileCommit())
	assert.NilError(t, tbl.Close())
	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Equal(t, int64(len(data)), size)
	assert.Equal(t, data[size-1], fileEnd)
}

func TestCorruptRecordCount(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	path, _ := commitPeople(t, dir)

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	assert.NilError(t, err)
	_, err = f.WriteAt([]byte{0xFF, 0xFF, 0xFF, 0xFF}, 4)
	assert.NilError(t, err)
	assert.NilError(t, f.Close())

	tbl := New()
	err = tbl.Open(path, false)
	assertKind(t, err, ErrFile)
	assert.ErrorContains(t, err, "4294967295 records")
	assert.Assert(t, !tbl.IsOpen())
}

func TestZapChecksMemoryModeFirst(t *testing.T) {
	dir := fs.NewDir(t, "godbf")
	defer dir.Remove()
	path, _ := commitPeople(t, dir)

	tbl, err := Open(path, true)
	assert.NilError(t, err)
	defer tbl.Close()
	assertKind(t, tbl.Zap(), ErrParameter)
	assert.NilError(t, tbl.EnableMemoryMode(0))
	err = tbl.Zap()
	assertKind(t, err, ErrFile)
	assert.ErrorContains(t, err, "memory mode")
	assert.Equal(t, tbl.RecordCount(), 3)
}
