package combine

import (
	"gptcopy/pkg/filter"
	"gptcopy/pkg/tokens"
)

// Arguments holds the options for one combine run.
type Arguments struct {
	Root              string           // The directory to scan
	Output            string           // Output file; empty writes to the primary writer
	Rules             []filter.RuleArg // Include/exclude patterns in command-line order
	Force             bool             // Disable ignore files and tracked-file filtering
	NoNumber          bool             // Do not prefix content lines with line numbers
	TreeOnly          bool             // Emit only the directory tree
	Tokens            bool             // Annotate the tree with token counts
	TopN              int              // With Tokens, list only the N largest files
	Model             string           // Tokenizer model name
	MaxFileSizeKB     int              // Skip contents of larger files (0 = unlimited)
	MaxWorkers        int              // Concurrent file readers (<= 0 uses NumCPU)
	TreeCompressItems int              // Entries shown for a user-excluded directory
	GlobalIgnore      string           // Optional ignore file applied at the root
	Progress          bool             // Show a spinner on an interactive diagnostic terminal
	Counter           tokens.Counter   // Tokenizer override; built from Model when nil
}

// FileEntry is a selected file discovered by the walk.
type FileEntry struct {
	Rel  string // Slash-separated path relative to the root
	Abs  string // Path used for reading
	Size int64  // Size in bytes
}

// FileContent holds a file after reading. Skipped files keep their entry in
// the tree but contribute no content.
type FileContent struct {
	Path    string // Relative file path
	Content string // Raw file text
	Skipped string // Reason the contents were omitted, empty when read
	Tokens  int    // Token count when counted
	Counted bool   // Tokens is valid
}

// ExcludedDir is a directory pruned by a user exclude rule. It is shown in
// the tree with a few of its entry names.
type ExcludedDir struct {
	Rel     string
	Entries []string // First entry names, directories with a trailing slash
	More    bool     // More entries exist than are listed
}

// Summary reports what a run did.
type Summary struct {
	Selected int // Files selected by the filter
	Written  int // Files whose contents were rendered
	Skipped  int // Selected files whose contents were omitted
	Tokens   int // Total tokens when counted
}

// Constants
const (
	DefaultTreeCompressItems = 3
	binarySniffSize          = 8000 // Bytes inspected for binary detection
)
