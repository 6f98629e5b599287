package combine

import (
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// fenceLanguages maps extensions to the hint GitHub-flavored Markdown expects.
var fenceLanguages = map[string]string{
	".c": "c", ".cc": "cpp", ".cpp": "cpp", ".cs": "csharp", ".css": "css",
	".go": "go", ".h": "c", ".hpp": "cpp", ".html": "html", ".java": "java",
	".js": "javascript", ".json": "json", ".jsx": "jsx", ".kt": "kotlin",
	".md": "markdown", ".php": "php", ".py": "python", ".rb": "ruby",
	".rs": "rust", ".sh": "bash", ".sql": "sql", ".swift": "swift",
	".toml": "toml", ".ts": "typescript", ".tsx": "tsx", ".xml": "xml",
	".yaml": "yaml", ".yml": "yaml",
}

// languageFor returns the code fence hint for rel, or "" when unknown.
// Unlisted extensions fall back to chroma's filename lexer registry.
func languageFor(rel string) string {
	name := path.Base(rel)
	if lang, ok := fenceLanguages[strings.ToLower(path.Ext(name))]; ok {
		return lang
	}
	lexer := lexers.Match(name)
	if lexer == nil {
		return ""
	}
	cfg := lexer.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(strings.ReplaceAll(cfg.Name, " ", ""))
}
