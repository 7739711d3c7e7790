package extract

import (
	"sort"

	"ricochet/internal/request"
)

// lineTable precomputes byte offsets of each line start so a byte offset
// can be converted to a 1-based (line, column) pair without rescanning
// the document for every reference found
type lineTable struct {
	starts []int
}

func newLineTable(text string) *lineTable {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineTable{starts: starts}
}

// spanAt returns the 1-based line and column for a byte offset
func (lt *lineTable) spanAt(offset int) request.Span {
	line := sort.Search(len(lt.starts), func(i int) bool { return lt.starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	col := offset - lt.starts[line] + 1
	return request.Span{Line: line + 1, Column: col}
}
