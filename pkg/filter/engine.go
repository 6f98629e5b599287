// Package filter decides, for every path below the scan root, whether it is
// selected. Ignore files and version-control tracking give a tentative
// verdict; ordered user rules override it with last-match-wins.
package filter

import (
	"path"
	"sync"

	"gptcopy/pkg/ignore"
	"gptcopy/pkg/pattern"
	"gptcopy/pkg/tracking"
)

// Source names what produced a Decision.
type Source int

const (
	SourceDefault   Source = iota // No rule applied.
	SourceIgnore                  // An ignore-file pattern.
	SourceTracking                // The path is not tracked by version control.
	SourceRule                    // A user include/exclude rule.
	SourceWhitelist               // Include rules exist and none matched.
	SourceAncestor                // An ancestor directory is excluded.
	SourceOutput                  // The path is the run's own output file.
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceIgnore:
		return "ignore"
	case SourceTracking:
		return "tracking"
	case SourceRule:
		return "rule"
	case SourceWhitelist:
		return "whitelist"
	case SourceAncestor:
		return "ancestor"
	case SourceOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Decision is the verdict for one path.
type Decision struct {
	Path     string
	IsDir    bool
	Included bool
	Source   Source
	Rule     *Rule                 // Set when Source is SourceRule, or SourceAncestor below a rule exclusion.
	Ignore   *ignore.IgnorePattern // Set when Source is SourceIgnore.

	// barrier is the index of the rule that excluded this path or its
	// ancestor; only later anchored includes can re-include below it.
	// -1 when the exclusion came from ignore files or tracking.
	barrier int
}

// ByUser reports whether the path was excluded by a user rule, directly or
// through an ancestor.
func (d Decision) ByUser() bool {
	return !d.Included && d.Rule != nil && d.Rule.Kind == Exclude
}

// Options configures an Engine.
type Options struct {
	Rules   []Rule
	Ignore  *ignore.Context  // nil means no ignore rules.
	Tracker tracking.Tracker // nil means everything is tracked.
	Force   bool             // Skip ignore rules and tracking entirely.
	Output  string           // Output file relative to the root, never selected.
}

// Engine evaluates selection. It is safe for concurrent use.
type Engine struct {
	rules       []Rule
	ignore      *ignore.Context
	tracker     tracking.Tracker
	force       bool
	output      string
	hasIncludes bool

	mu   sync.Mutex
	dirs map[string]Decision
	hits []bool
}

// New builds an Engine. Rules must come from CompileRules so indexes are
// consistent with their order.
func New(opts Options) *Engine {
	e := &Engine{
		rules:   opts.Rules,
		ignore:  opts.Ignore,
		tracker: opts.Tracker,
		force:   opts.Force,
		output:  pattern.Normalize(opts.Output),
		dirs:    make(map[string]Decision),
		hits:    make([]bool, len(opts.Rules)),
	}
	if e.tracker == nil {
		e.tracker = tracking.Nop{}
	}
	for _, r := range opts.Rules {
		if r.Kind == Include {
			e.hasIncludes = true
			break
		}
	}
	return e
}

// Selected reports whether rel is included.
func (e *Engine) Selected(rel string, isDir bool) bool {
	return e.Decide(rel, isDir).Included
}

// Decide evaluates rel (slash-separated, relative to the root). The result is
// a pure function of the options and the path; the walk order does not
// matter.
func (e *Engine) Decide(rel string, isDir bool) Decision {
	rel = pattern.Normalize(rel)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decide(rel, isDir)
}

func (e *Engine) decide(rel string, isDir bool) Decision {
	if rel == "" {
		return Decision{IsDir: true, Included: true, barrier: -1}
	}
	if isDir {
		if d, ok := e.dirs[rel]; ok {
			return d
		}
	}
	parent := path.Dir(rel)
	if parent == "." {
		parent = ""
	}
	d := e.evaluate(rel, isDir, e.decide(parent, true))
	if isDir {
		e.dirs[rel] = d
	}
	return d
}

func (e *Engine) evaluate(rel string, isDir bool, parent Decision) Decision {
	d := Decision{Path: rel, IsDir: isDir, barrier: -1}
	if rel == e.output && !isDir {
		d.Source = SourceOutput
		return d
	}

	if !parent.Included {
		// Below an excluded directory only later rules can change anything,
		// and includes must name the path explicitly.
		d.Source, d.Rule, d.Ignore, d.barrier = SourceAncestor, parent.Rule, parent.Ignore, parent.barrier
		if r := e.lastMatch(rel, isDir, parent.barrier, true); r != nil {
			d.Rule, d.Source = r, SourceRule
			if r.Kind == Include {
				d.Included, d.barrier = true, -1
			} else {
				d.barrier = r.Index
			}
		}
		return d
	}

	d.Included = true
	if !e.force {
		if ignored, ip := e.ignore.MatchesPathWithPattern(rel, isDir); ignored {
			d.Included, d.Source, d.Ignore = false, SourceIgnore, ip
		} else if !e.tracker.Tracked(rel, isDir) {
			d.Included, d.Source = false, SourceTracking
		}
	}

	if r := e.lastMatch(rel, isDir, -1, false); r != nil {
		d.Rule, d.Source, d.Ignore = r, SourceRule, nil
		d.Included = r.Kind == Include
		if !d.Included {
			d.barrier = r.Index
		}
		return d
	}

	// Include rules select only the files they match; directories keep
	// their tentative verdict so the walk can reach those files.
	if d.Included && e.hasIncludes && !isDir {
		d.Included, d.Source = false, SourceWhitelist
	}
	return d
}

// lastMatch returns the highest-indexed rule after barrier that matches rel
// directly, recording every hit. anchoredOnly drops includes without an
// interior slash.
func (e *Engine) lastMatch(rel string, isDir bool, barrier int, anchoredOnly bool) *Rule {
	var last *Rule
	for i := barrier + 1; i < len(e.rules); i++ {
		r := &e.rules[i]
		if anchoredOnly && r.Kind == Include && !r.Pattern.Anchored {
			continue
		}
		if r.Pattern.Match(rel, isDir) {
			e.hits[i] = true
			last = r
		}
	}
	return last
}

// Descend reports whether the walk must enter the directory d describes.
// Excluded directories are entered only when a later anchored include could
// match something below them, so pruning never changes the selected set.
func (e *Engine) Descend(d Decision) bool {
	if d.Included {
		return true
	}
	for i := d.barrier + 1; i < len(e.rules); i++ {
		r := e.rules[i]
		if r.Kind == Include && r.Pattern.Anchored && r.Pattern.CouldMatchUnder(d.Path) {
			return true
		}
	}
	return false
}

// Unmatched returns the user rules that matched no evaluated path.
func (e *Engine) Unmatched() []Rule {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Rule
	for i, hit := range e.hits {
		if !hit {
			out = append(out, e.rules[i])
		}
	}
	return out
}

// Rules returns the compiled rule list.
func (e *Engine) Rules() []Rule {
	return e.rules
}
