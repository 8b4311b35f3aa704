// Package uid generates identifiers: UUIDv7 for correlation and token ids,
// snowflake numbers for primary keys and object ids for stored files.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates time ordered int64 identifiers.
type NumberID interface {
	Generate() int64
}
