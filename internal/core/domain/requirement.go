package domain

import (
	"bufio"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// SourceKind identifies where a requirement's distributions come from.
type SourceKind int

const (
	// SourceIndex means the requirement is resolved against the package index.
	SourceIndex SourceKind = iota
	// SourceDirectURL means the requirement names one archive by URL.
	SourceDirectURL
	// SourceVCS means the requirement names a version-control checkout.
	SourceVCS
	// SourceLocalPath means the requirement names a local file or directory.
	SourceLocalPath
)

// String returns a human-readable source kind.
func (k SourceKind) String() string {
	switch k {
	case SourceDirectURL:
		return "url"
	case SourceVCS:
		return "vcs"
	case SourceLocalPath:
		return "path"
	default:
		return "index"
	}
}

// Requirement is a named package plus version constraint and source kind.
// Immutable once parsed.
type Requirement struct {
	// Name is the normalized identifier used for all lookups.
	Name Name
	// Display is the name as the user wrote it.
	Display string
	// Spec constrains acceptable versions; the zero value accepts any.
	Spec Specifier
	// Kind is the distribution source.
	Kind SourceKind
	// URL holds the location for non-index kinds (URL, VCS spec, or local path).
	URL string
	// Revision is the pinned VCS revision, "" when the requirement floats.
	Revision string
	// Editable marks a development install.
	Editable bool
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

var vcsPrefixes = []string{"git+", "hg+", "svn+", "bzr+"}

// ParseRequirement parses a single requirement token: an index name with
// optional specifier ("INITools==0.2"), a direct URL, a VCS spec
// ("git+http://host/repo@rev#egg=name") or a local path.
func ParseRequirement(token string) (Requirement, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Requirement{}, zerr.Wrap(ErrMalformedRequirement, "empty requirement")
	}

	for _, prefix := range vcsPrefixes {
		if strings.HasPrefix(token, prefix) {
			return parseVCSRequirement(token)
		}
	}
	if hasScheme(token) {
		return parseURLRequirement(token)
	}
	if looksLikePath(token) {
		return parsePathRequirement(token)
	}
	return parseIndexRequirement(token)
}

func hasScheme(token string) bool {
	for _, scheme := range []string{"http://", "https://", "file://"} {
		if strings.HasPrefix(token, scheme) {
			return true
		}
	}
	return false
}

func looksLikePath(token string) bool {
	if strings.HasPrefix(token, "./") || strings.HasPrefix(token, "../") || strings.HasPrefix(token, "~/") {
		return true
	}
	if filepath.IsAbs(token) {
		return true
	}
	return strings.ContainsRune(token, '/') || strings.ContainsRune(token, filepath.Separator)
}

func parseIndexRequirement(token string) (Requirement, error) {
	split := len(token)
	for i, r := range token {
		if strings.ContainsRune("=<>!", r) {
			split = i
			break
		}
	}
	name := strings.TrimSpace(token[:split])
	if !namePattern.MatchString(name) {
		return Requirement{}, zerr.With(zerr.Wrap(ErrMalformedRequirement, "invalid package name"), "requirement", token)
	}
	spec, err := ParseSpecifier(token[split:])
	if err != nil {
		return Requirement{}, zerr.With(err, "requirement", token)
	}
	return Requirement{
		Name:    NewName(name),
		Display: name,
		Spec:    spec,
		Kind:    SourceIndex,
	}, nil
}

func parseVCSRequirement(token string) (Requirement, error) {
	loc, frag, _ := strings.Cut(token, "#")

	display := eggFragment(frag)
	revision := ""
	if slash := strings.LastIndexByte(loc, '/'); slash >= 0 {
		if at := strings.LastIndexByte(loc[slash:], '@'); at > 0 {
			revision = loc[slash+at+1:]
		}
	}
	if display == "" {
		return Requirement{}, zerr.With(zerr.Wrap(ErrMalformedRequirement, "vcs requirement needs #egg=name"), "requirement", token)
	}
	return Requirement{
		Name:     NewName(display),
		Display:  display,
		Kind:     SourceVCS,
		URL:      loc,
		Revision: revision,
	}, nil
}

func parseURLRequirement(token string) (Requirement, error) {
	loc, frag, _ := strings.Cut(token, "#")
	display := eggFragment(frag)
	if display == "" {
		display, _ = ParseDistFilename(loc[strings.LastIndexByte(loc, '/')+1:])
	}
	if display == "" {
		return Requirement{}, zerr.With(zerr.Wrap(ErrMalformedRequirement, "cannot determine package name from url"), "requirement", token)
	}
	return Requirement{
		Name:    NewName(display),
		Display: display,
		Kind:    SourceDirectURL,
		URL:     loc,
	}, nil
}

func parsePathRequirement(token string) (Requirement, error) {
	base := filepath.Base(strings.TrimRight(token, "/"))
	display, _ := ParseDistFilename(base)
	if display == "" {
		display = base
	}
	if display == "" || display == "." || display == string(filepath.Separator) {
		return Requirement{}, zerr.With(zerr.Wrap(ErrMalformedRequirement, "cannot determine package name from path"), "requirement", token)
	}
	return Requirement{
		Name:    NewName(display),
		Display: display,
		Kind:    SourceLocalPath,
		URL:     token,
	}, nil
}

func eggFragment(frag string) string {
	for _, part := range strings.Split(frag, "&") {
		if name, ok := strings.CutPrefix(part, "egg="); ok {
			return name
		}
	}
	return ""
}

var distExtensions = []string{".tar.gz", ".tar.bz2", ".tgz", ".zip", ".yaml", ".yml"}

// ParseDistFilename splits a distribution file name like "INITools-0.3.tar.gz"
// into its name and version parts. The version is "" when the name carries none.
func ParseDistFilename(base string) (name, version string) {
	for _, ext := range distExtensions {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	// The version starts at the last dash followed by a digit.
	for i := len(base) - 2; i > 0; i-- {
		if base[i] == '-' && base[i+1] >= '0' && base[i+1] <= '9' {
			return base[:i], base[i+1:]
		}
	}
	return base, ""
}

// ParseRequirementLine parses one line of a requirements file. Blank lines and
// "#" comments yield nil. An "-e " prefix marks the requirement editable.
func ParseRequirementLine(line string) (*Requirement, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}
	editable := false
	if rest, ok := strings.CutPrefix(line, "-e "); ok {
		editable = true
		line = strings.TrimSpace(rest)
	}
	req, err := ParseRequirement(line)
	if err != nil {
		return nil, err
	}
	req.Editable = editable
	return &req, nil
}

// ParseRequirements reads a requirements file, one requirement per line.
func ParseRequirements(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		req, err := ParseRequirementLine(scanner.Text())
		if err != nil {
			return nil, zerr.With(err, "line", lineno)
		}
		if req != nil {
			reqs = append(reqs, *req)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read requirements")
	}
	return reqs, nil
}
