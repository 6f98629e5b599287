package ignore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestRuleSetBlankAndComments(t *testing.T) {
	rs := NewRuleSet("")
	rs.CompileIgnoreLines("test", nil, "", "  ", "# comment", "  # indented comment")
	assert.Empty(t, rs.Patterns)
}

func TestRuleSetNegation(t *testing.T) {
	rs := NewRuleSet("")
	rs.CompileIgnoreLines("test", nil, "*.log", "!important.log")

	matched, ip := rs.MatchesPathWithPattern("debug.log", false)
	assert.True(t, matched)
	require.NotNil(t, ip)
	assert.Equal(t, 1, ip.LineNo)

	matched, ip = rs.MatchesPathWithPattern("important.log", false)
	assert.False(t, matched)
	require.NotNil(t, ip)
	assert.Equal(t, "!important.log", ip.Line)
}

func TestRuleSetScopedToBase(t *testing.T) {
	rs := NewRuleSet("sub")
	rs.CompileIgnoreLines("sub/.gitignore", nil, "/local.txt", "*.tmp")

	assert.True(t, rs.Patterns[0].Pattern.Anchored)
	matched, _ := rs.MatchesPathWithPattern("sub/local.txt", false)
	assert.True(t, matched)
	matched, _ = rs.MatchesPathWithPattern("local.txt", false)
	assert.False(t, matched, "rules must not reach outside their directory")
	matched, _ = rs.MatchesPathWithPattern("sub/deep/x.tmp", false)
	assert.True(t, matched)
	matched, _ = rs.MatchesPathWithPattern("sub/deep/local.txt", false)
	assert.False(t, matched, "leading slash anchors to the ignore file's directory")
}

func TestRuleSetMalformedLineSkipped(t *testing.T) {
	rs := NewRuleSet("")
	rs.CompileIgnoreLines("test", nil, "src/{a,b.py", "*.log")
	require.Len(t, rs.Patterns, 1)
	assert.Equal(t, 2, rs.Patterns[0].LineNo)
}

func TestCollectNestedPrecedence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "*.log\nbuild/\n")
	writeFile(t, root, "pkg/.gitignore", "!keep.log\n")
	writeFile(t, root, "pkg/keep.log", "x")
	writeFile(t, root, "pkg/drop.log", "x")
	writeFile(t, root, "build/.gitignore", "!*\n")
	writeFile(t, root, "build/out.txt", "x")

	c, err := Collector{}.Collect(context.Background(), root)
	require.NoError(t, err)

	assert.True(t, c.MatchesPath("debug.log", false))
	assert.True(t, c.MatchesPath("pkg/drop.log", false))
	assert.False(t, c.MatchesPath("pkg/keep.log", false), "deeper negation overrides ancestor rule")
	assert.True(t, c.MatchesPath("build", true))
	assert.True(t, c.MatchesPath(".git", true))
	assert.False(t, c.MatchesPath("main.go", false))

	// build/ is ignored, so its ignore file is never read.
	assert.Len(t, c.Chain("build"), 1)
	assert.Len(t, c.Chain("pkg"), 2)
}

func TestCollectUnreadableIgnoreFile(t *testing.T) {
	root := t.TempDir()
	// A directory where the ignore file should be cannot be read as a file.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", ".gitignore"), 0o755))
	writeFile(t, root, "sub/a.txt", "x")

	c, err := Collector{}.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.False(t, c.MatchesPath("sub/a.txt", false))
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Collector{}.Collect(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDisabledContext(t *testing.T) {
	c := Disabled()
	assert.False(t, c.MatchesPath(".git", true))
	assert.Nil(t, c.Chain(""))

	var nilCtx *Context
	assert.False(t, nilCtx.MatchesPath("a", false))
}

func TestCollectGlobalFile(t *testing.T) {
	root := t.TempDir()
	global := filepath.Join(t.TempDir(), "global.ignore")
	require.NoError(t, os.WriteFile(global, []byte("*.bak\n"), 0o644))
	writeFile(t, root, ".gitignore", "!keep.bak\n")

	c, err := Collector{GlobalFile: global}.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, c.MatchesPath("old.bak", false))
	assert.False(t, c.MatchesPath("keep.bak", false), "root ignore file overrides global rules")

	missing, err := Collector{GlobalFile: filepath.Join(root, "nope")}.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.False(t, missing.MatchesPath("old.bak", false))
}
