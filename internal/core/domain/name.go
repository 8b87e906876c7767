// Package domain contains the core domain models for the package installer.
package domain

import (
	"strings"
	"unique"
)

// Name is a normalized package identifier. Normalization lowercases the name
// and collapses runs of "-", "_" and "." into a single "-", so that
// "INITools" and "initools", or "version_pkg" and "version-pkg", all resolve
// to the same record.
// Names are interned to reduce memory usage for frequently repeated strings.
type Name struct {
	h unique.Handle[string]
}

// NewName creates a Name from a raw package identifier.
func NewName(raw string) Name {
	return Name{h: unique.Make(normalizeName(raw))}
}

func normalizeName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	sep := false
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch r {
		case '-', '_', '.':
			sep = true
		default:
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// String returns the normalized name.
func (n Name) String() string {
	var zero unique.Handle[string]
	if n.h == zero {
		return ""
	}
	return n.h.Value()
}

// IsZero reports whether the name is empty.
func (n Name) IsZero() bool {
	var zero unique.Handle[string]
	return n.h == zero || n.h.Value() == ""
}

// MarshalText implements encoding.TextMarshaler.
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Name) UnmarshalText(text []byte) error {
	n.h = unique.Make(normalizeName(string(text)))
	return nil
}
