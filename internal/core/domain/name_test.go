package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNameNormalizes(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "INITools", want: "initools"},
		{raw: "version_pkg", want: "version-pkg"},
		{raw: "some.package", want: "some-package"},
		{raw: "weird__--..name", want: "weird-name"},
		{raw: "already-normal", want: "already-normal"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NewName(tt.raw).String())
		})
	}
}

func TestNameEquality(t *testing.T) {
	// Normalized spellings intern to the same handle.
	assert.Equal(t, NewName("INITools"), NewName("initools"))
	assert.Equal(t, NewName("version_pkg"), NewName("version-pkg"))
	assert.NotEqual(t, NewName("initools"), NewName("simple"))
}

func TestNameZero(t *testing.T) {
	var zero Name
	assert.True(t, zero.IsZero())
	assert.False(t, NewName("initools").IsZero())
}

func TestNameTextRoundTrip(t *testing.T) {
	name := NewName("INITools")
	text, err := name.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "initools", string(text))

	var decoded Name
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, name, decoded)
}
