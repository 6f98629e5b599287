package tokens

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wordCounter struct{}

func (wordCounter) Name() string { return "words" }

func (wordCounter) CountString(input string) (int, error) {
	return len(strings.Fields(input)), nil
}

type failingCounter struct{}

func (failingCounter) Name() string { return "failing" }

func (failingCounter) CountString(string) (int, error) {
	return 0, errors.New("tokenizer unavailable")
}

func TestTopN(t *testing.T) {
	var r Report
	r.Add("a.py", 10, true)
	r.Add("b.py", 50, true)
	r.Add("c.py", 30, true)

	top := r.TopN(2)
	require.Len(t, top, 2)
	assert.Equal(t, "b.py", top[0].Path)
	assert.Equal(t, 50, top[0].Tokens)
	assert.Equal(t, "c.py", top[1].Path)
	assert.Equal(t, 30, top[1].Tokens)
	assert.Equal(t, 90, r.Total())
}

func TestTopNTiesAndUnavailable(t *testing.T) {
	var r Report
	r.Add("first.go", 5, true)
	r.Add("broken.bin", 0, false)
	r.Add("second.go", 5, true)
	r.Add("big.go", 9, true)

	top := r.TopN(0)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"big.go", "first.go", "second.go"},
		[]string{top[0].Path, top[1].Path, top[2].Path})

	assert.Len(t, r.TopN(10), 3)
	assert.Equal(t, 19, r.Total())
	assert.False(t, r.ByPath()["broken.bin"].OK)
}

func TestCount(t *testing.T) {
	n, err := Count(wordCounter{}, []byte("one two three"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = Count(failingCounter{}, []byte("x"))
	assert.Error(t, err)
}
