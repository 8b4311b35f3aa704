// Package config exposes typed, read-only access to the service configuration.
package config

import (
	"io"
	"time"
)

// DurationConfig reads integer keys as durations of a given unit.
type DurationConfig interface {
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration
	GetDay(key string) time.Duration
}

// Config is the configuration source handed to every module.
//
// Missing keys resolve to the zero value of the requested type. Values set in
// the environment override the file: the key "jwt.secret" is read from
// JWT_SECRET when that variable is present.
type Config interface {
	io.Closer
	DurationConfig

	GetInt(key string) int
	GetInt64(key string) int64
	GetUint(key string) uint
	GetFloat64(key string) float64
	GetBool(key string) bool
	GetString(key string) string

	// GetBinary decodes a base64 value.
	GetBinary(key string) []byte

	// GetArray splits a "a,b,c" value, trimming blanks and dropping empty items.
	GetArray(key string) []string

	// GetMap parses a "k1:v1,k2:v2" value.
	GetMap(key string) map[string]string

	// IsSet reports whether key has a value in the file or environment.
	IsSet(key string) bool
}
