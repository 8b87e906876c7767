package domain

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v(t *testing.T, s string) *semver.Version {
	t.Helper()
	version, err := ParseVersion(s)
	require.NoError(t, err)
	return version
}

func TestParseVersionPreservesOriginal(t *testing.T) {
	version := v(t, "0.2")
	assert.Equal(t, "0.2", version.Original())
	assert.Equal(t, "0.2.0", version.String())
}

func TestParseVersionInvalid(t *testing.T) {
	_, err := ParseVersion("not.a.version")
	assert.Error(t, err)
}

func TestParseSpecifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		matches []string
		misses  []string
		exact   bool
	}{
		{
			name:    "empty matches anything",
			input:   "",
			matches: []string{"0.1", "99.0"},
		},
		{
			name:    "exact pin",
			input:   "==0.2",
			matches: []string{"0.2"},
			misses:  []string{"0.1", "0.3"},
			exact:   true,
		},
		{
			name:    "lower bound",
			input:   ">=0.2",
			matches: []string{"0.2", "1.0"},
			misses:  []string{"0.1"},
		},
		{
			name:    "range",
			input:   ">=0.1,<0.4",
			matches: []string{"0.1", "0.3"},
			misses:  []string{"0.4", "1.0"},
		},
		{
			name:    "exclusion",
			input:   "!=0.2",
			matches: []string{"0.1", "0.3"},
			misses:  []string{"0.2"},
		},
		{
			name:    "partial pin is not a wildcard",
			input:   "==0.2",
			matches: []string{"0.2", "0.2.0"},
			misses:  []string{"0.2.5", "0.3"},
			exact:   true,
		},
		{
			name:    "partial exclusion excludes only that version",
			input:   "!=0.2",
			matches: []string{"0.2.5"},
			misses:  []string{"0.2.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseSpecifier(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.exact, spec.IsExact())
			for _, m := range tt.matches {
				assert.True(t, spec.Matches(v(t, m)), "expected %s to match %q", m, tt.input)
			}
			for _, m := range tt.misses {
				assert.False(t, spec.Matches(v(t, m)), "expected %s not to match %q", m, tt.input)
			}
		})
	}
}

func TestParseSpecifierRejectsBareVersion(t *testing.T) {
	_, err := ParseSpecifier("0.2")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRequirement)
}

func TestSpecifierIntersect(t *testing.T) {
	lower, err := ParseSpecifier(">=0.2")
	require.NoError(t, err)
	upper, err := ParseSpecifier("<0.4")
	require.NoError(t, err)

	both, err := lower.Intersect(upper)
	require.NoError(t, err)
	assert.True(t, both.Matches(v(t, "0.3")))
	assert.False(t, both.Matches(v(t, "0.1")))
	assert.False(t, both.Matches(v(t, "0.4")))
	assert.Equal(t, ">=0.2,<0.4", both.String())

	// Intersecting again with a clause already present changes nothing.
	again, err := both.Intersect(lower)
	require.NoError(t, err)
	assert.Equal(t, both.String(), again.String())
}

func TestSpecifierIntersectWithAny(t *testing.T) {
	pin, err := ParseSpecifier("==0.2")
	require.NoError(t, err)

	merged, err := Specifier{}.Intersect(pin)
	require.NoError(t, err)
	assert.Equal(t, "==0.2", merged.String())

	merged, err = pin.Intersect(Specifier{})
	require.NoError(t, err)
	assert.Equal(t, "==0.2", merged.String())
}

func TestHighestSatisfying(t *testing.T) {
	candidates := []*semver.Version{v(t, "0.1"), v(t, "0.3"), v(t, "0.2")}

	spec, err := ParseSpecifier("<0.3")
	require.NoError(t, err)
	best := HighestSatisfying(candidates, spec)
	require.NotNil(t, best)
	assert.Equal(t, "0.2", best.Original())

	none, err := ParseSpecifier(">=1.0")
	require.NoError(t, err)
	assert.Nil(t, HighestSatisfying(candidates, none))

	assert.Equal(t, "0.3", HighestSatisfying(candidates, Specifier{}).Original())
}

func TestHighestSatisfyingHonorsPartialPin(t *testing.T) {
	candidates := []*semver.Version{v(t, "0.2"), v(t, "0.2.5")}

	pin, err := ParseSpecifier("==0.2")
	require.NoError(t, err)
	best := HighestSatisfying(candidates, pin)
	require.NotNil(t, best)
	assert.Equal(t, "0.2", best.Original())
}
