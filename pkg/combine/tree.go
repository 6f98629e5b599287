// File: pkg/combine/tree.go
package combine

import (
	"fmt"
	"sort"
	"strings"

	"gptcopy/pkg/tokens"
)

// TreeNode is one entry of the rendered directory tree.
type TreeNode struct {
	Name     string
	Path     string // Relative path; empty for the root
	IsDir    bool
	Children []*TreeNode
	Tokens   int
	Counted  bool // Tokens is valid
	Excluded bool // Directory pruned by a user rule, shown compressed
	More     bool // Excluded directory has unlisted entries
}

// BuildTree builds the tree for the selected files plus the compressed
// excluded directories. The result does not depend on input order.
func BuildTree(rootName string, files []string, excluded []ExcludedDir) *TreeNode {
	root := &TreeNode{Name: rootName, IsDir: true}
	for _, f := range files {
		root.insert(f, false)
	}
	for _, ed := range excluded {
		n := root.insert(ed.Rel, true)
		n.Excluded, n.More = true, ed.More
		for _, name := range ed.Entries {
			isDir := strings.HasSuffix(name, "/")
			n.child(strings.TrimSuffix(name, "/"), isDir)
		}
	}
	root.sort()
	return root
}

func (n *TreeNode) insert(rel string, isDir bool) *TreeNode {
	parts := strings.Split(rel, "/")
	cur := n
	for i, part := range parts {
		last := i == len(parts)-1
		cur = cur.child(part, !last || isDir)
	}
	return cur
}

func (n *TreeNode) child(name string, isDir bool) *TreeNode {
	for _, c := range n.Children {
		if c.Name == name && c.IsDir == isDir {
			return c
		}
	}
	p := name
	if n.Path != "" {
		p = n.Path + "/" + name
	}
	c := &TreeNode{Name: name, Path: p, IsDir: isDir}
	n.Children = append(n.Children, c)
	return c
}

// sort orders children byte-wise by name, directories and files interleaved.
func (n *TreeNode) sort() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		if n.Children[i].Name != n.Children[j].Name {
			return n.Children[i].Name < n.Children[j].Name
		}
		return n.Children[i].IsDir && !n.Children[j].IsDir
	})
	for _, c := range n.Children {
		c.sort()
	}
}

// AnnotateTokens sets file counts from counts and sums them into
// directories. Excluded directories are never counted.
func (n *TreeNode) AnnotateTokens(counts map[string]tokens.FileCount) {
	if !n.IsDir {
		if fc, ok := counts[n.Path]; ok && fc.OK {
			n.Tokens, n.Counted = fc.Tokens, true
		}
		return
	}
	n.Tokens, n.Counted = 0, !n.Excluded
	if n.Excluded {
		return
	}
	for _, c := range n.Children {
		c.AnnotateTokens(counts)
		if c.Counted {
			n.Tokens += c.Tokens
		}
	}
}

// Render draws the tree with box-drawing connectors. withTokens appends
// token annotations to every line.
func (n *TreeNode) Render(withTokens bool) string {
	var b strings.Builder
	b.WriteString(n.label(withTokens))
	b.WriteString("\n")
	n.renderChildren(&b, "", withTokens)
	return b.String()
}

func (n *TreeNode) renderChildren(b *strings.Builder, prefix string, withTokens bool) {
	count := len(n.Children)
	if n.More {
		count++
	}
	for i, c := range n.Children {
		connector, extension := "├── ", "│   "
		if i == count-1 {
			connector, extension = "└── ", "    "
		}
		b.WriteString(prefix + connector + c.label(withTokens && !n.Excluded))
		b.WriteString("\n")
		if c.IsDir {
			c.renderChildren(b, prefix+extension, withTokens)
		}
	}
	if n.More {
		b.WriteString(prefix + "└── [...]\n")
	}
}

func (n *TreeNode) label(withTokens bool) string {
	name := n.Name
	if n.IsDir {
		name += "/"
	}
	if n.Excluded {
		return name + " (excluded)"
	}
	if !withTokens {
		return name
	}
	if !n.Counted {
		return name + " (n/a)"
	}
	return fmt.Sprintf("%s (%d tokens)", name, n.Tokens)
}
