// Package diff compares two DBF tables field by field using only the
// public read API of package dbf.
package diff

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/aita/godbf/dbf"
)

const (
	DefaultBatchSize   = 10000
	DefaultMaxRowDiffs = 128
	DefaultMaxDiffs    = 256
)

// Source is the read surface the comparer needs. *dbf.Table implements it.
type Source interface {
	RecordCount() int
	Read(start, count int) error
	ReadGo(row int) error
	ReadStringByName(name string) (string, error)
}

var _ Source = (*dbf.Table)(nil)

// Comparer holds the comparison settings.
//
// MaxRowDiffs and MaxDiffs are recorded but never stop a scan.
type Comparer struct {
	Fields      []string
	MaxRowDiffs int
	MaxDiffs    int
	BatchSize   int
	Logger      *slog.Logger
}

// New returns a Comparer for fields with the default limits.
func New(fields ...string) *Comparer {
	return &Comparer{
		Fields:      fields,
		MaxRowDiffs: DefaultMaxRowDiffs,
		MaxDiffs:    DefaultMaxDiffs,
		BatchSize:   DefaultBatchSize,
	}
}

// Result accumulates the differences found by a comparison.
type Result struct {
	// Rows counts rows where at least one field differs.
	Rows int
	// Diffs counts differing fields over all rows.
	Diffs int
	// PerField breaks Diffs down by field name.
	PerField map[string]int
	// Records holds the record counts of both tables.
	Records [2]int
}

func (c *Comparer) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Compare scans a and b in batches. Values are trimmed before they are
// compared. Rows present in only one table count as rows where every
// configured field differs.
func (c *Comparer) Compare(a, b Source) (Result, error) {
	res := Result{
		PerField: make(map[string]int, len(c.Fields)),
		Records:  [2]int{a.RecordCount(), b.RecordCount()},
	}
	common := min(res.Records[0], res.Records[1])
	batch := c.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	for start := 0; start < common; start += batch {
		n := min(batch, common-start)
		if err := a.Read(start, n); err != nil {
			return res, errors.Wrapf(err, "read rows %d+%d of first table", start, n)
		}
		if err := b.Read(start, n); err != nil {
			return res, errors.Wrapf(err, "read rows %d+%d of second table", start, n)
		}
		for j := 0; j < n; j++ {
			same, err := c.compareRow(a, b, j, &res)
			if err != nil {
				return res, errors.Wrapf(err, "row %d", start+j)
			}
			if !same {
				res.Rows++
			}
		}
	}
	if extra := max(res.Records[0], res.Records[1]) - common; extra > 0 {
		res.Rows += extra
		res.Diffs += extra * len(c.Fields)
		for _, name := range c.Fields {
			res.PerField[name] += extra
		}
	}
	c.logger().Debug("diff: compared tables",
		"records_a", res.Records[0],
		"records_b", res.Records[1],
		"row_diffs", res.Rows,
		"diffs", res.Diffs)
	return res, nil
}

func (c *Comparer) compareRow(a, b Source, row int, res *Result) (bool, error) {
	if err := multierr.Append(a.ReadGo(row), b.ReadGo(row)); err != nil {
		return false, err
	}
	same := true
	for _, name := range c.Fields {
		va, err := a.ReadStringByName(name)
		if err != nil {
			return false, errors.Wrapf(err, "field %s of first table", name)
		}
		vb, err := b.ReadStringByName(name)
		if err != nil {
			return false, errors.Wrapf(err, "field %s of second table", name)
		}
		if dbf.Trim(va) != dbf.Trim(vb) {
			res.Diffs++
			res.PerField[name]++
			same = false
		}
	}
	return same, nil
}

// Matches reports true only when no difference was found and MaxDiffs is
// zero.
func (c *Comparer) Matches(res Result) bool {
	return res.Diffs == 0 && c.MaxDiffs == 0
}

// CompareFiles opens both paths read-only and compares them. The bool is
// Matches of the result.
func (c *Comparer) CompareFiles(pathA, pathB string, opts ...dbf.Option) (bool, Result, error) {
	a, err := dbf.Open(pathA, true, opts...)
	if err != nil {
		return false, Result{}, err
	}
	b, err := dbf.Open(pathB, true, opts...)
	if err != nil {
		return false, Result{}, multierr.Append(err, a.Close())
	}
	res, err := c.Compare(a, b)
	err = multierr.Combine(err, a.Close(), b.Close())
	if err != nil {
		return false, res, err
	}
	return c.Matches(res), res, nil
}
