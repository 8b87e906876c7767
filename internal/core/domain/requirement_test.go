package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantName string
		wantSpec string
		wantKind SourceKind
		wantURL  string
		wantRev  string
	}{
		{
			name:     "bare name",
			token:    "INITools",
			wantName: "initools",
			wantKind: SourceIndex,
		},
		{
			name:     "pinned version",
			token:    "INITools==0.2",
			wantName: "initools",
			wantSpec: "==0.2",
			wantKind: SourceIndex,
		},
		{
			name:     "range specifier",
			token:    "simple>=0.1,<0.4",
			wantName: "simple",
			wantSpec: ">=0.1,<0.4",
			wantKind: SourceIndex,
		},
		{
			name:     "underscored name normalizes",
			token:    "version_pkg",
			wantName: "version-pkg",
			wantKind: SourceIndex,
		},
		{
			name:     "vcs with egg fragment",
			token:    "git+https://example.com/version_pkg.git#egg=version_pkg",
			wantName: "version-pkg",
			wantKind: SourceVCS,
			wantURL:  "git+https://example.com/version_pkg.git",
		},
		{
			name:     "vcs with pinned revision",
			token:    "git+https://example.com/version_pkg.git@abc123#egg=version_pkg",
			wantName: "version-pkg",
			wantKind: SourceVCS,
			wantURL:  "git+https://example.com/version_pkg.git@abc123",
			wantRev:  "abc123",
		},
		{
			name:     "direct url with filename",
			token:    "https://example.com/dists/INITools-0.3.tar.gz",
			wantName: "initools",
			wantKind: SourceDirectURL,
			wantURL:  "https://example.com/dists/INITools-0.3.tar.gz",
		},
		{
			name:     "direct url with egg fragment",
			token:    "https://example.com/archive#egg=INITools",
			wantName: "initools",
			wantKind: SourceDirectURL,
			wantURL:  "https://example.com/archive",
		},
		{
			name:     "relative path",
			token:    "./dists/INITools-0.2.tar.gz",
			wantName: "initools",
			wantKind: SourceLocalPath,
			wantURL:  "./dists/INITools-0.2.tar.gz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequirement(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, req.Name.String())
			assert.Equal(t, tt.wantSpec, req.Spec.String())
			assert.Equal(t, tt.wantKind, req.Kind)
			assert.Equal(t, tt.wantURL, req.URL)
			assert.Equal(t, tt.wantRev, req.Revision)
		})
	}
}

func TestParseRequirementErrors(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "whitespace", token: "   "},
		{name: "bad name", token: "=bogus"},
		{name: "bare version clause", token: "INITools=0.2x,"},
		{name: "vcs without egg", token: "git+https://example.com/repo.git"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequirement(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedRequirement)
		})
	}
}

func TestParseDistFilename(t *testing.T) {
	tests := []struct {
		base        string
		wantName    string
		wantVersion string
	}{
		{base: "INITools-0.3.tar.gz", wantName: "INITools", wantVersion: "0.3"},
		{base: "version_pkg-0.1.yaml", wantName: "version_pkg", wantVersion: "0.1"},
		{base: "pkg-with-dashes-1.0.2.zip", wantName: "pkg-with-dashes", wantVersion: "1.0.2"},
		{base: "noversion", wantName: "noversion", wantVersion: ""},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			name, version := ParseDistFilename(tt.base)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantVersion, version)
		})
	}
}

func TestParseRequirements(t *testing.T) {
	input := `# project requirements
INITools==0.2

simple>=0.1
-e git+https://example.com/version_pkg.git#egg=version_pkg
`
	reqs, err := ParseRequirements(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	assert.Equal(t, "initools", reqs[0].Name.String())
	assert.Equal(t, "==0.2", reqs[0].Spec.String())
	assert.False(t, reqs[0].Editable)

	assert.Equal(t, "simple", reqs[1].Name.String())

	assert.Equal(t, "version-pkg", reqs[2].Name.String())
	assert.Equal(t, SourceVCS, reqs[2].Kind)
	assert.True(t, reqs[2].Editable)
}

func TestParseRequirementsReportsLine(t *testing.T) {
	input := "INITools==0.2\nnot a requirement ==\n"
	_, err := ParseRequirements(strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRequirement)
}
