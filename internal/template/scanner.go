// Package template substitutes secret placeholders such as
// bws://key/path embedded in arbitrary text.
package template

import (
	"iter"
	"regexp"
)

// DefaultScheme is the placeholder scheme recognized by default.
const DefaultScheme = "bws"

// Placeholder is one occurrence of scheme://key[/path] in the input.
// Start and End are byte offsets into the scanned text.
type Placeholder struct {
	Raw     string
	Key     string
	Path    string
	HasPath bool
	Start   int
	End     int
}

// TargetPath is the field path looked up inside the secret value: the
// explicit path, or the key itself when none was given.
func (p Placeholder) TargetPath() string {
	if p.HasPath {
		return p.Path
	}
	return p.Key
}

// Scanner finds placeholders for one scheme.
type Scanner struct {
	scheme string
	re     *regexp.Regexp
}

// NewScanner creates a scanner for scheme. An empty scheme means
// DefaultScheme.
func NewScanner(scheme string) *Scanner {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return &Scanner{
		scheme: scheme,
		re:     regexp.MustCompile(regexp.QuoteMeta(scheme) + `://([A-Za-z0-9_\-]+)(?:/([A-Za-z0-9_./-]+))?`),
	}
}

// Scheme returns the scheme this scanner matches.
func (s *Scanner) Scheme() string {
	return s.scheme
}

// Scan yields the placeholders in text from left to right. Matches never
// overlap.
func (s *Scanner) Scan(text string) iter.Seq[Placeholder] {
	return func(yield func(Placeholder) bool) {
		for _, m := range s.re.FindAllStringSubmatchIndex(text, -1) {
			p := Placeholder{
				Raw:   text[m[0]:m[1]],
				Key:   text[m[2]:m[3]],
				Start: m[0],
				End:   m[1],
			}
			if m[4] >= 0 {
				p.Path = text[m[4]:m[5]]
				p.HasPath = true
			}
			if !yield(p) {
				return
			}
		}
	}
}

// ScanAll collects Scan into a slice.
func (s *Scanner) ScanAll(text string) []Placeholder {
	var out []Placeholder
	for p := range s.Scan(text) {
		out = append(out, p)
	}
	return out
}
