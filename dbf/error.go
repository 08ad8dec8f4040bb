package dbf

import (
	"fmt"
)

// Kind classifies the errors returned by a Table.
type Kind int

const (
	// KindGeneric covers short reads/writes and buffer-state mismatches.
	KindGeneric Kind = iota + 1
	// KindFile covers open, parse and schema-corruption failures.
	KindFile
	// KindParameter covers bad field names, row or column indexes and append sizes.
	KindParameter
	// KindCache is reserved for buffer capacity exhaustion.
	KindCache
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic error"
	case KindFile:
		return "file error"
	case KindParameter:
		return "parameter error"
	case KindCache:
		return "cache error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the concrete error type returned by the dbf package.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	s := "dbf: " + e.Kind.String()
	if e.Op != "" {
		s = "dbf: " + e.Op + ": " + e.Kind.String()
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can test
// errors.Is(err, dbf.ErrParameter).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrGeneric   = &Error{Kind: KindGeneric}
	ErrFile      = &Error{Kind: KindFile}
	ErrParameter = &Error{Kind: KindParameter}
	ErrCache     = &Error{Kind: KindCache}
)

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of err, or 0 when err does not come from this package.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0
		}
		err = u.Unwrap()
	}
	return 0
}
