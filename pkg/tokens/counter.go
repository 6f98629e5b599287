// Package tokens counts language-model tokens in file contents and ranks
// files by their counts.
package tokens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (c tiktokenCounter) Name() string {
	return c.name
}

func (c tiktokenCounter) CountString(input string) (int, error) {
	if c.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	return len(c.encoding.Encode(input, nil, nil)), nil
}

// NewCounter returns a tiktoken Counter for model. Unknown models fall back
// to the cl100k_base encoding.
func NewCounter(model string) (Counter, error) {
	model = strings.ToLower(strings.TrimSpace(model))
	if model == "" {
		model = DefaultModel
	}
	encoding, err := tiktoken.EncodingForModel(model)
	if err == nil && encoding != nil {
		return tiktokenCounter{encoding: encoding, name: model}, nil
	}
	fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackErr != nil {
		return nil, fmt.Errorf("initialize fallback tokenizer: %w", fallbackErr)
	}
	return tiktokenCounter{encoding: fallback, name: defaultEncodingName}, nil
}
