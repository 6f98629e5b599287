package combine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gptcopy/pkg/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relPaths(files []FileEntry) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Rel
	}
	return out
}

func TestWalkSymlinks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"real/a.txt": "a",
		"b.txt":      "b",
	})
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "loop")))
	require.NoError(t, os.Symlink(filepath.Join(root, "b.txt"), filepath.Join(root, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "broken.txt")))

	res, err := Walker{Root: root, Engine: filter.New(filter.Options{})}.Walk(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "link.txt", "real/a.txt"}, relPaths(res.Files))
}

func TestWalkCompressesUserExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"vendor/a.go":   "a",
		"vendor/b.go":   "b",
		"vendor/c/d.go": "d",
		"vendor/e.go":   "e",
		"main.go":       "m",
	})
	rules, err := filter.CompileRules([]filter.RuleArg{{Kind: filter.ExcludeDir, Value: "vendor"}})
	require.NoError(t, err)

	res, err := Walker{Root: root, Engine: filter.New(filter.Options{Rules: rules}), CompressSize: 3}.Walk(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, relPaths(res.Files))
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, ExcludedDir{Rel: "vendor", Entries: []string{"a.go", "b.go", "c/"}, More: true}, res.Excluded[0])
}

func TestWalkReentersExcludedDirectoryForLaterInclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"node_modules/pkg/index.js": "x",
		"node_modules/pkg/other.js": "y",
	})
	rules, err := filter.CompileRules([]filter.RuleArg{
		{Kind: filter.Exclude, Value: "node_modules/"},
		{Kind: filter.Include, Value: "node_modules/pkg/index.js"},
	})
	require.NoError(t, err)

	res, err := Walker{Root: root, Engine: filter.New(filter.Options{Rules: rules})}.Walk(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules/pkg/index.js"}, relPaths(res.Files))
	assert.Empty(t, res.Excluded)
}
