package pattern

import (
	"errors"
	"strings"
)

var (
	errUnclosedBrace = errors.New("unbalanced '{': missing '}'")
	errStrayBrace    = errors.New("unbalanced '}': missing '{'")
	errNestedBrace   = errors.New("nested brace sets are not supported")
	errEmptyBrace    = errors.New("empty brace set")
)

// ExpandBraces expands every {a,b,...} set into its alternatives, left to
// right. "src/{a,b}.{py,pyi}" yields four patterns. Escaped braces are kept
// literally.
func ExpandBraces(text string) ([]string, error) {
	open, close, err := findBraceSet(text)
	if err != nil {
		return nil, err
	}
	if open < 0 {
		return []string{text}, nil
	}

	body := text[open+1 : close]
	if body == "" {
		return nil, errEmptyBrace
	}
	prefix, suffix := text[:open], text[close+1:]

	var out []string
	for _, option := range strings.Split(body, ",") {
		rest, err := ExpandBraces(option + suffix)
		if err != nil {
			return nil, err
		}
		for _, r := range rest {
			out = append(out, prefix+r)
		}
	}
	return out, nil
}

// findBraceSet locates the first unescaped brace set. It returns -1, -1 when
// there is none.
func findBraceSet(text string) (int, int, error) {
	open := -1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '{':
			if open >= 0 {
				return 0, 0, errNestedBrace
			}
			open = i
		case '}':
			if open < 0 {
				return 0, 0, errStrayBrace
			}
			return open, i, nil
		}
	}
	if open >= 0 {
		return 0, 0, errUnclosedBrace
	}
	return -1, -1, nil
}
