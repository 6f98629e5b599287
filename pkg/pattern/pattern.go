// Package pattern compiles gitignore-style glob patterns into matchers over
// slash-separated paths relative to a base directory.
package pattern

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Kind classifies a compiled alternative by the matching strategy it needs.
type Kind int

const (
	// Exact is a literal path; it matches the path itself and everything below it.
	Exact Kind = iota
	// PrefixDir is a literal directory (trailing slash); it matches the
	// directory entry and everything below it, never a file of the same name.
	PrefixDir
	// Wildcard contains '*', '?' or a character class but no '**'; it matches
	// paths of exactly its own depth.
	Wildcard
	// DoubleWildcard contains at least one '**' segment.
	DoubleWildcard
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case PrefixDir:
		return "prefix-dir"
	case Wildcard:
		return "wildcard"
	case DoubleWildcard:
		return "double-wildcard"
	default:
		return "unknown"
	}
}

const doubleStar = "**"

// Pattern is one compiled rule string. It is immutable after Compile.
type Pattern struct {
	Raw        string // Pattern text as supplied.
	Normalized string // Forward slashes, no leading "./", no negation prefix.
	Negate     bool   // Leading '!' (only meaningful inside ignore files).
	DirOnly    bool   // Trailing '/'.
	Anchored   bool   // Contains an interior '/' or a leading '/'.
	Braced     bool   // Expanded from a {a,b} set.

	alts []alternative
}

// alternative is one brace-expanded variant.
type alternative struct {
	kind     Kind
	literal  string    // Set for Exact and PrefixDir.
	segments []segment // Path segments; "**" collapsed.
	descend  bool      // Also match descendants of a matched path.
}

type segment struct {
	text    string
	any     bool // "**"
	literal bool
	g       glob.Glob
}

// Compile parses a single pattern. Blank patterns and malformed braces or
// character classes fail with a *PatternError.
func Compile(raw string) (*Pattern, error) {
	p := &Pattern{Raw: raw}

	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "!") {
		p.Negate = true
		text = text[1:]
	} else if strings.HasPrefix(text, `\!`) || strings.HasPrefix(text, `\#`) {
		text = text[1:]
	}
	text = Normalize(text)

	if strings.HasPrefix(text, "/") {
		p.Anchored = true
		text = strings.TrimLeft(text, "/")
	}
	if strings.HasSuffix(text, "/") {
		p.DirOnly = true
		text = strings.TrimRight(text, "/")
	}
	if text == "" {
		return nil, &PatternError{Pattern: raw, Reason: "empty pattern"}
	}
	if strings.Contains(text, "/") {
		p.Anchored = true
	}
	p.Normalized = text
	if p.DirOnly {
		p.Normalized += "/"
	}

	expanded, err := ExpandBraces(text)
	if err != nil {
		return nil, &PatternError{Pattern: raw, Reason: err.Error()}
	}
	p.Braced = len(expanded) > 1 || expanded[0] != text

	for _, alt := range expanded {
		a, err := compileAlternative(alt, p.Anchored, p.DirOnly)
		if err != nil {
			return nil, &PatternError{Pattern: raw, Reason: err.Error()}
		}
		p.alts = append(p.alts, a)
	}
	return p, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// built-in defaults.
func MustCompile(raw string) *Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Normalize converts OS separators to '/' and strips a leading "./".
func Normalize(path string) string {
	path = filepath.ToSlash(path)
	for strings.HasPrefix(path, "./") {
		path = strings.TrimLeft(path[2:], "/")
	}
	if path == "." {
		return ""
	}
	return path
}

func compileAlternative(text string, anchored, dirOnly bool) (alternative, error) {
	parts := strings.Split(text, "/")
	if !anchored {
		parts = append([]string{doubleStar}, parts...)
	}

	hasWild, hasAny := false, false
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue // collapse "a//b"
		}
		if part == doubleStar {
			hasAny = true
			if n := len(segs); n > 0 && segs[n-1].any {
				continue
			}
			segs = append(segs, segment{text: part, any: true})
			continue
		}
		if !hasMeta(part) {
			segs = append(segs, segment{text: part, literal: true})
			continue
		}
		g, err := glob.Compile(part)
		if err != nil {
			return alternative{}, err
		}
		hasWild = true
		segs = append(segs, segment{text: part, g: g})
	}

	texts := make([]string, len(segs))
	for i, s := range segs {
		texts[i] = s.text
	}
	last := segs[len(segs)-1]
	a := alternative{segments: segs, descend: last.literal}
	switch {
	case hasAny:
		a.kind = DoubleWildcard
	case hasWild:
		a.kind = Wildcard
	case dirOnly:
		a.kind = PrefixDir
		a.literal = strings.Join(texts, "/")
	default:
		a.kind = Exact
		a.literal = strings.Join(texts, "/")
	}
	return a, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, `*?[\`)
}

// Kinds reports the kind of every alternative, in expansion order.
func (p *Pattern) Kinds() []Kind {
	kinds := make([]Kind, len(p.alts))
	for i, a := range p.alts {
		kinds[i] = a.kind
	}
	return kinds
}

// HasWildcard reports whether any alternative needs glob matching.
func (p *Pattern) HasWildcard() bool {
	for _, a := range p.alts {
		if a.kind == Wildcard || a.kind == DoubleWildcard {
			return true
		}
	}
	return false
}

// Match reports whether the relative path matches. isDir states whether path
// names a directory; the filesystem is never consulted.
func (p *Pattern) Match(path string, isDir bool) bool {
	if p == nil {
		return false
	}
	path = Normalize(path)
	if path == "" {
		return false
	}
	for i := range p.alts {
		if p.alts[i].match(path, isDir, p.DirOnly) {
			return true
		}
	}
	return false
}

func (a *alternative) match(path string, isDir, dirOnly bool) bool {
	switch a.kind {
	case Exact:
		return path == a.literal || strings.HasPrefix(path, a.literal+"/")
	case PrefixDir:
		return (path == a.literal && isDir) || strings.HasPrefix(path, a.literal+"/")
	}

	parts := strings.Split(path, "/")
	if matchSegments(a.segments, parts) && (!dirOnly || isDir) {
		return true
	}
	if a.descend {
		// Every proper prefix of path is a directory.
		for k := len(parts) - 1; k >= 1; k-- {
			if matchSegments(a.segments, parts[:k]) {
				return true
			}
		}
	}
	return false
}

func matchSegments(segs []segment, parts []string) bool {
	if len(segs) == 0 {
		return len(parts) == 0
	}
	s := segs[0]
	if s.any {
		for skip := 0; skip <= len(parts); skip++ {
			if matchSegments(segs[1:], parts[skip:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 || !s.matchPart(parts[0]) {
		return false
	}
	return matchSegments(segs[1:], parts[1:])
}

func (s segment) matchPart(part string) bool {
	if s.literal {
		return s.text == part
	}
	return s.g.Match(part)
}

// CouldMatchUnder reports whether some path strictly below dir might match.
// The answer is conservative: true may be a false positive, false is exact.
func (p *Pattern) CouldMatchUnder(dir string) bool {
	if p == nil {
		return false
	}
	dir = Normalize(dir)
	if dir == "" {
		return true
	}
	parts := strings.Split(dir, "/")
	for _, a := range p.alts {
		if prefixCompatible(a.segments, parts, a.descend) {
			return true
		}
	}
	return false
}

func prefixCompatible(segs []segment, parts []string, descend bool) bool {
	if len(parts) == 0 {
		return len(segs) > 0 || descend
	}
	if len(segs) == 0 {
		// The pattern ends above dir; only a literal tail reaches below it.
		return descend
	}
	s := segs[0]
	if s.any {
		return true
	}
	if !s.matchPart(parts[0]) {
		return false
	}
	return prefixCompatible(segs[1:], parts[1:], descend)
}

func (p *Pattern) String() string {
	return p.Raw
}
