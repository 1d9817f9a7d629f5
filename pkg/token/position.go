package token

import "fmt"

// Position represents a location in the source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// TextRange is a half-open byte range [Start, End) in the source text.
type TextRange struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r TextRange) Len() int {
	return r.End - r.Start
}

// Contains returns true if the range contains the given offset.
func (r TextRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// String renders the range the way the syntax tree dump does: [start; end).
func (r TextRange) String() string {
	return fmt.Sprintf("[%d; %d)", r.Start, r.End)
}
