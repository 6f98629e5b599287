package tokens

import (
	"sort"
)

// FileCount is the token count of one selected file. Order is the file's
// position in selection order; OK is false when the count is unavailable.
type FileCount struct {
	Path   string
	Tokens int
	OK     bool
	Order  int
}

// Report aggregates per-file counts.
type Report struct {
	Files []FileCount
}

// Add records a count for path in selection order.
func (r *Report) Add(path string, tokens int, ok bool) {
	r.Files = append(r.Files, FileCount{Path: path, Tokens: tokens, OK: ok, Order: len(r.Files)})
}

// Total sums the available counts.
func (r *Report) Total() int {
	total := 0
	for _, f := range r.Files {
		if f.OK {
			total += f.Tokens
		}
	}
	return total
}

// ByPath indexes the counts by path.
func (r *Report) ByPath() map[string]FileCount {
	m := make(map[string]FileCount, len(r.Files))
	for _, f := range r.Files {
		m[f.Path] = f
	}
	return m
}

// TopN returns the n files with the highest counts, descending, ties broken
// by selection order. Files without a count are never ranked. n <= 0 or n
// larger than the number of ranked files returns all of them.
func (r *Report) TopN(n int) []FileCount {
	ranked := make([]FileCount, 0, len(r.Files))
	for _, f := range r.Files {
		if f.OK {
			ranked = append(ranked, f)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Tokens != ranked[j].Tokens {
			return ranked[i].Tokens > ranked[j].Tokens
		}
		return ranked[i].Order < ranked[j].Order
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Count runs counter over content. Errors are returned as-is so callers can
// report the count as unavailable.
func Count(counter Counter, content []byte) (int, error) {
	return counter.CountString(string(content))
}
