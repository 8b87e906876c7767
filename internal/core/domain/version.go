package domain

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// ParseVersion parses a distribution version. Short forms like "0.2" are accepted
// and coerced to a full version; Original() preserves the written form.
func ParseVersion(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid version"), "version", s)
	}
	return v, nil
}

// Specifier is the version-constraint portion of a requirement. The zero value
// matches any version.
type Specifier struct {
	clauses []string
	cons    *semver.Constraints
	exact   bool
}

// specifier operators, longest first so that "==" is tried before "=".
var specifierOps = []string{"==", ">=", "<=", "!=", ">", "<"}

// ParseSpecifier parses a comma-separated specifier such as "==0.2" or ">=0.1,<0.4".
// An empty string means "any version satisfies". A bare version with no operator
// is rejected with ErrMalformedRequirement.
func ParseSpecifier(s string) (Specifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Specifier{}, nil
	}

	var clauses []string
	for _, clause := range strings.Split(s, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		op := ""
		for _, candidate := range specifierOps {
			if strings.HasPrefix(clause, candidate) {
				op = candidate
				break
			}
		}
		if op == "" {
			return Specifier{}, zerr.With(zerr.Wrap(ErrMalformedRequirement, "version clause has no operator"), "clause", clause)
		}
		version := strings.TrimSpace(clause[len(op):])
		if version == "" {
			return Specifier{}, zerr.With(zerr.Wrap(ErrMalformedRequirement, "version clause has no version"), "clause", clause)
		}
		clauses = append(clauses, op+version)
	}
	if len(clauses) == 0 {
		return Specifier{}, nil
	}

	return newSpecifier(clauses)
}

func newSpecifier(clauses []string) (Specifier, error) {
	cons, err := semver.NewConstraint(constraintText(clauses))
	if err != nil {
		return Specifier{}, zerr.With(zerr.Wrap(ErrMalformedRequirement, "invalid version specifier"), "specifier", strings.Join(clauses, ","))
	}
	exact := len(clauses) == 1 && strings.HasPrefix(clauses[0], "==")
	return Specifier{clauses: clauses, cons: cons, exact: exact}, nil
}

// constraintText rewrites the requirement operators into constraint syntax
// ("==0.2" becomes "=0.2"). Clause versions are padded to the canonical
// major.minor.patch form: a partial version inside a constraint is a wildcard
// range to the constraint parser ("=0.2" means 0.2.x), which would make a pin
// match versions it must not.
func constraintText(clauses []string) string {
	out := make([]string, len(clauses))
	for i, c := range clauses {
		op := ""
		for _, candidate := range specifierOps {
			if strings.HasPrefix(c, candidate) {
				op = candidate
				break
			}
		}
		ver := strings.TrimSpace(c[len(op):])
		if v, err := semver.NewVersion(ver); err == nil {
			ver = v.String()
		}
		if op == "==" {
			op = "="
		}
		out[i] = op + ver
	}
	return strings.Join(out, ", ")
}

// IsAny reports whether the specifier matches every version.
func (s Specifier) IsAny() bool {
	return s.cons == nil
}

// IsExact reports whether the specifier is a single "==" pin.
func (s Specifier) IsExact() bool {
	return s.exact
}

// Matches reports whether v satisfies the specifier.
func (s Specifier) Matches(v *semver.Version) bool {
	if s.cons == nil {
		return true
	}
	return s.cons.Check(v)
}

// String returns the specifier in requirement syntax, "" when any.
func (s Specifier) String() string {
	return strings.Join(s.clauses, ",")
}

// Intersect combines two specifiers so that a version must satisfy both.
// Duplicate clauses are dropped, which keeps repeated intersection idempotent.
func (s Specifier) Intersect(other Specifier) (Specifier, error) {
	if s.IsAny() {
		return other, nil
	}
	if other.IsAny() {
		return s, nil
	}
	merged := slices.Clone(s.clauses)
	for _, c := range other.clauses {
		if !slices.Contains(merged, c) {
			merged = append(merged, c)
		}
	}
	if len(merged) == len(s.clauses) {
		return s, nil
	}
	return newSpecifier(merged)
}

// HighestSatisfying returns the highest version in candidates matching the
// specifier, or nil when none does.
func HighestSatisfying(candidates []*semver.Version, spec Specifier) *semver.Version {
	var best *semver.Version
	for _, v := range candidates {
		if v == nil || !spec.Matches(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	return best
}
