package artifact

import (
	"fmt"
	"regexp"
	"strings"
)

// Predicate selects which cache entries get packaged. The prefix is the
// primary filter; optional patterns refine it further. A pattern starting
// with "!" excludes matching names.
type Predicate struct {
	Prefix   string
	Patterns []string

	compiled []compiledPattern
}

type compiledPattern struct {
	re     *regexp.Regexp
	negate bool
}

// DefaultPrefix selects shell binaries by naming convention.
const DefaultPrefix = "js-"

// NewPredicate compiles the pattern list. An empty prefix falls back to the
// default; nil patterns means prefix-only selection.
func NewPredicate(prefix string, patterns []string) (*Predicate, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	p := &Predicate{Prefix: prefix, Patterns: patterns}
	for _, raw := range patterns {
		negate := false
		expr := raw
		if strings.HasPrefix(expr, "!") {
			negate = true
			expr = expr[1:]
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid artifact pattern %q: %w", raw, err)
		}
		p.compiled = append(p.compiled, compiledPattern{re: re, negate: negate})
	}
	return p, nil
}

// Matches reports whether an entry name is selected for packaging.
// All patterns must agree (AND logic), after the prefix gate passes.
func (p *Predicate) Matches(name string) bool {
	if !strings.HasPrefix(name, p.Prefix) {
		return false
	}
	for _, cp := range p.compiled {
		if cp.re.MatchString(name) == cp.negate {
			return false
		}
	}
	return true
}
