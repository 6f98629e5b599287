// File: pkg/combine/execute.go
package combine

import (
	"bufio"
	"fmt"
	"io"

	"gptcopy/pkg/tokens"
)

// view is everything a run renders. Rendering it twice yields identical
// bytes.
type view struct {
	tree     *TreeNode
	contents []FileContent
	report   tokens.Report

	tokens   bool
	topN     int
	treeOnly bool
	numbered bool
}

func buildView(rootName string, args *Arguments, walk WalkResult, contents []FileContent) *view {
	paths := make([]string, len(walk.Files))
	for i, f := range walk.Files {
		paths[i] = f.Rel
	}
	v := &view{
		tree:     BuildTree(rootName, paths, walk.Excluded),
		contents: contents,
		tokens:   args.Tokens,
		topN:     args.TopN,
		treeOnly: args.TreeOnly,
		numbered: !args.NoNumber,
	}
	if v.tokens {
		for _, fc := range contents {
			v.report.Add(fc.Path, fc.Tokens, fc.Counted)
		}
		v.tree.AnnotateTokens(v.report.ByPath())
	}
	return v
}

// write renders the view. Token mode emits only the token report; tree-only
// mode emits the bare tree; otherwise the full Markdown document.
func (v *view) write(w io.Writer) error {
	switch {
	case v.tokens && v.topN > 0:
		return writeTopN(w, &v.report, v.topN)
	case v.tokens, v.treeOnly:
		_, err := io.WriteString(w, v.tree.Render(v.tokens))
		return err
	default:
		return WriteDocument(w, v.tree.Render(false), v.contents, v.numbered)
	}
}

func (v *view) summary() Summary {
	s := Summary{Selected: len(v.contents), Tokens: v.report.Total()}
	if v.treeOnly || v.tokens {
		return s
	}
	for _, fc := range v.contents {
		if fc.Skipped != "" {
			s.Skipped++
		} else {
			s.Written++
		}
	}
	return s
}

// writeTopN writes the ranked list of the n largest files.
func writeTopN(w io.Writer, report *tokens.Report, n int) error {
	top := report.TopN(n)
	writer := bufio.NewWriter(w)
	fmt.Fprintf(writer, "Showing top %d files by token count (of %d total, %d tokens)\n\n",
		len(top), len(report.Files), report.Total())
	for i, fc := range top {
		fmt.Fprintf(writer, "%3d. %s (%d tokens)\n", i+1, fc.Path, fc.Tokens)
	}
	return writer.Flush()
}
