package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAndFormats(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })
	Version, Commit = "1.2.3", "abcdefg"

	info := Get()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, "gptcopy, version 1.2.3", info.Short())
	assert.Contains(t, info.String(), "gptcopy version 1.2.3 (commit: abcdefg)")
}
