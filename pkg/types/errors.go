package types

import "errors"

// Engine errors. Structural misuse surfaces through these; data-shape
// conditions (parse failures, missing keys) degrade to empty results or
// boolean returns instead.
var (
	// ErrSchemaViolation is returned when an inserted record does not carry
	// exactly the declared physical columns, or a value's kind does not match
	// the column's declared kind.
	ErrSchemaViolation = errors.New("record does not match table schema")

	// ErrUnknownColumn is returned when an index is requested on a column that
	// is neither a physical nor a derived column.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrDuplicateKey is returned when an inserted record's primary key is
	// already held by an active record.
	ErrDuplicateKey = errors.New("duplicate primary key")
)
