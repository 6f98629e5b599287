package filter

import (
	"errors"
	"strings"
	"testing"

	"gptcopy/pkg/ignore"
	"gptcopy/pkg/pattern"
	"gptcopy/pkg/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rules compiles "-i pat" / "-e pat" / "-d name" strings in order.
func rules(t *testing.T, specs ...string) []Rule {
	t.Helper()
	args := make([]RuleArg, 0, len(specs))
	for _, s := range specs {
		flag, value, ok := strings.Cut(s, " ")
		require.True(t, ok, s)
		kind := map[string]RuleKind{"-i": Include, "-e": Exclude, "-d": ExcludeDir}[flag]
		args = append(args, RuleArg{Kind: kind, Value: value})
	}
	compiled, err := CompileRules(args)
	require.NoError(t, err)
	return compiled
}

func ignoreLines(lines ...string) *ignore.Context {
	rs := ignore.NewRuleSet("")
	rs.CompileIgnoreLines("test", nil, lines...)
	return ignore.NewContext(rs)
}

type probe struct {
	path  string
	isDir bool
	want  bool
}

func TestEngineSelection(t *testing.T) {
	tests := []struct {
		name   string
		rules  []string
		ignore []string
		force  bool
		probes []probe
	}{
		{
			name:  "no rules selects everything",
			probes: []probe{{"main.py", false, true}, {"subdir/config.yaml", false, true}},
		},
		{
			name:  "later include re-includes deeper subtree",
			rules: []string{"-e tests/*", "-i tests/deep/**"},
			probes: []probe{
				{"tests/deep/x.py", false, true},
				{"tests/deep", true, true},
				{"tests/file.py", false, false},
				{"tests/other/y.py", false, false},
				{"main.py", false, false},
			},
		},
		{
			name:  "directory-only exclude covers descendants",
			rules: []string{"-e node_modules/", "-i *.js"},
			probes: []probe{
				{"node_modules/pkg/index.js", false, false},
				{"node_modules", true, false},
				{"src/app.js", false, true},
			},
		},
		{
			name:  "specific later include reaches below excluded directory",
			rules: []string{"-e node_modules/", "-i node_modules/pkg/index.js"},
			probes: []probe{
				{"node_modules/pkg/index.js", false, true},
				{"node_modules/pkg/other.js", false, false},
			},
		},
		{
			name:  "exclude-dir is sugar for trailing slash",
			rules: []string{"-d vendor"},
			probes: []probe{
				{"vendor/lib/a.go", false, false},
				{"src/vendor/b.go", false, false},
				{"vendor.go", false, true},
			},
		},
		{
			name:  "tests star vs double star",
			rules: []string{"-i tests/*"},
			probes: []probe{
				{"tests/a.py", false, true},
				{"tests/sub/a.py", false, false},
			},
		},
		{
			name:  "tests double star",
			rules: []string{"-i tests/**"},
			probes: []probe{
				{"tests/a.py", false, true},
				{"tests/sub/a.py", false, true},
				{"src/a.py", false, false},
			},
		},
		{
			name:  "brace expansion",
			rules: []string{"-i src/{a,b}.py"},
			probes: []probe{
				{"src/a.py", false, true},
				{"src/b.py", false, true},
				{"src/c.py", false, false},
				{"a.py", false, false},
			},
		},
		{
			name:   "ignore file excludes",
			ignore: []string{"secret.txt", "build/"},
			probes: []probe{
				{"secret.txt", false, false},
				{"build/out.bin", false, false},
				{"main.go", false, true},
			},
		},
		{
			name:   "force bypasses ignore rules",
			ignore: []string{"secret.txt"},
			force:  true,
			probes: []probe{{"secret.txt", false, true}},
		},
		{
			name:   "force still honors user excludes",
			ignore: []string{"secret.txt"},
			rules:  []string{"-e secret.txt"},
			force:  true,
			probes: []probe{{"secret.txt", false, false}},
		},
		{
			name:   "user include overrides ignore verdict",
			ignore: []string{"*.log"},
			rules:  []string{"-i debug.log"},
			probes: []probe{{"debug.log", false, true}, {"other.log", false, false}},
		},
		{
			name:   "anchored include reaches into ignored directory",
			ignore: []string{"build/"},
			rules:  []string{"-i build/keep.txt", "-i *.go"},
			probes: []probe{
				{"build/keep.txt", false, true},
				{"build/other.txt", false, false},
				{"build/x.go", false, false},
				{"main.go", false, true},
			},
		},
		{
			name:  "last match wins between include and exclude",
			rules: []string{"-i *.py", "-e tests/*.py", "-i tests/keep.py"},
			probes: []probe{
				{"tests/keep.py", false, true},
				{"tests/drop.py", false, false},
				{"main.py", false, true},
			},
		},
		{
			name:  "wildcard include does not carry into matched directory",
			rules: []string{"-i doc*"},
			probes: []probe{
				{"docs", true, true},
				{"docs/guide/a.md", false, false},
				{"doc.md", false, true},
			},
		},
		{
			name:  "wildcard directory-only include selects directories only",
			rules: []string{"-i tmp/**/", "-i *.txt"},
			probes: []probe{
				{"tmp", true, true},
				{"tmp/cache", true, true},
				{"tmp/a.txt", false, true},
				{"tmp/a.bin", false, false},
			},
		},
		{
			name:  "wildcard directory-only exclude hits directories only",
			rules: []string{"-e tmp/**/"},
			probes: []probe{
				{"tmp/cache", true, false},
				{"tmp/cache/a.txt", false, false},
				{"tmpfile", false, true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Rules: rules(t, tt.rules...), Force: tt.force}
			if tt.ignore != nil {
				opts.Ignore = ignoreLines(tt.ignore...)
			}
			e := New(opts)
			for _, p := range tt.probes {
				assert.Equal(t, p.want, e.Selected(p.path, p.isDir), "%s (dir=%v)", p.path, p.isDir)
			}
		})
	}
}

func TestEngineDecisionSource(t *testing.T) {
	e := New(Options{
		Rules:  rules(t, "-e tests/*", "-i *.py"),
		Ignore: ignoreLines("*.log"),
	})

	d := e.Decide("debug.log", false)
	assert.Equal(t, SourceIgnore, d.Source)
	require.NotNil(t, d.Ignore)
	assert.Equal(t, "*.log", d.Ignore.Line)

	d = e.Decide("tests/a.py", false)
	assert.True(t, d.Included)
	assert.Equal(t, SourceRule, d.Source)
	assert.Equal(t, 1, d.Rule.Index)

	d = e.Decide("tests/a.txt", false)
	assert.False(t, d.Included)
	assert.True(t, d.ByUser())

	d = e.Decide("README.md", false)
	assert.Equal(t, SourceWhitelist, d.Source)
	assert.False(t, d.ByUser())
}

func TestEngineTracking(t *testing.T) {
	tr := tracking.NewSet([]string{"a.go", "pkg/b.go"})

	e := New(Options{Tracker: tr})
	d := e.Decide("untracked.go", false)
	assert.False(t, d.Included)
	assert.Equal(t, SourceTracking, d.Source)
	assert.True(t, e.Selected("pkg/b.go", false))
	assert.False(t, e.Selected("scratch", true))

	forced := New(Options{Tracker: tr, Force: true})
	assert.True(t, forced.Selected("untracked.go", false))
	assert.True(t, forced.Selected("scratch/x.go", false))

	incl := New(Options{Tracker: tr, Rules: rules(t, "-i untracked.go")})
	assert.True(t, incl.Selected("untracked.go", false))
}

func TestEngineOutputSelfExclusion(t *testing.T) {
	e := New(Options{Output: "./out/combined.md"})
	d := e.Decide("out/combined.md", false)
	assert.False(t, d.Included)
	assert.Equal(t, SourceOutput, d.Source)
	assert.True(t, e.Selected("out/other.md", false))
}

func TestEngineDescend(t *testing.T) {
	e := New(Options{
		Rules:  rules(t, "-e node_modules/", "-e tests/*", "-i tests/deep/**", "-i *.js"),
		Ignore: ignoreLines("build/"),
	})

	assert.False(t, e.Descend(e.Decide("node_modules", true)), "no later anchored include below node_modules")
	assert.False(t, e.Descend(e.Decide("tests/other", true)))
	assert.True(t, e.Descend(e.Decide("tests", true)))
	assert.False(t, e.Descend(e.Decide("build", true)))

	reinc := New(Options{Rules: rules(t, "-e node_modules/", "-i node_modules/pkg/index.js")})
	assert.True(t, reinc.Descend(reinc.Decide("node_modules", true)))

	// An include that comes before the exclusion cannot reach below it.
	early := New(Options{Rules: rules(t, "-i node_modules/pkg/index.js", "-e node_modules/")})
	assert.False(t, early.Descend(early.Decide("node_modules", true)))
	assert.False(t, early.Selected("node_modules/pkg/index.js", false))
}

func TestEngineOrderIndependent(t *testing.T) {
	paths := []probe{
		{"tests/deep/x.py", false, false},
		{"tests", true, false},
		{"tests/file.py", false, false},
		{"tests/deep", true, false},
		{"main.py", false, false},
	}
	r := rules(t, "-e tests/*", "-i tests/deep/**")

	forward := New(Options{Rules: r})
	backward := New(Options{Rules: r})
	got := make(map[string]bool)
	for _, p := range paths {
		got[p.path] = forward.Selected(p.path, p.isDir)
	}
	for i := len(paths) - 1; i >= 0; i-- {
		p := paths[i]
		assert.Equal(t, got[p.path], backward.Selected(p.path, p.isDir), p.path)
	}
	assert.True(t, got["tests/deep/x.py"])
	assert.False(t, got["tests/file.py"])
}

func TestEngineUnmatched(t *testing.T) {
	e := New(Options{Rules: rules(t, "-i *.go", "-e nothing/", "-d vendor")})
	e.Selected("main.go", false)
	e.Selected("pkg/util.go", false)

	unmatched := e.Unmatched()
	require.Len(t, unmatched, 2)
	assert.Equal(t, "--exclude 'nothing/'", unmatched[0].Flag())
	assert.Equal(t, "--exclude 'vendor/'", unmatched[1].Flag())
}

func TestCompileRulesErrors(t *testing.T) {
	_, err := CompileRules([]RuleArg{{Kind: Include, Value: "src/{a,b.py"}})
	var perr *pattern.PatternError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "src/{a,b.py", perr.Pattern)

	_, err = CompileRules([]RuleArg{{Kind: ExcludeDir, Value: "/"}})
	assert.Error(t, err)
}
