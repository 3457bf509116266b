package scanner

import "fmt"

// Position represents a line/column position in source text
// Uses LSP conventions: 1-based line numbers, 0-based character offsets
type Position struct {
	Line      int `json:"line"`      // 1-based line number
	Character int `json:"character"` // 0-based character offset within line
	Offset    int `json:"offset"`    // 0-based byte offset in entire source
}

// String formats the position as "line:column" with a 1-based column,
// the way compilers report locations.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character+1)
}

// Range represents a source span from start to end position
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// positionTracker maintains line/column/offset state while the scanner
// consumes source bytes.
type positionTracker struct {
	source    string
	line      int // 1-based
	character int // 0-based within line
	offset    int // 0-based in source
}

func newPositionTracker(source string) *positionTracker {
	return &positionTracker{
		source: source,
		line:   1,
	}
}

// advanceBytes advances by n bytes. Continuation bytes of a multi-byte
// UTF-8 sequence do not count as a new character.
func (pt *positionTracker) advanceBytes(n int) {
	for i := 0; i < n && pt.offset < len(pt.source); i++ {
		ch := pt.source[pt.offset]
		switch {
		case ch == '\n':
			pt.line++
			pt.character = 0
		case ch&0xC0 != 0x80:
			pt.character++
		}
		pt.offset++
	}
}

func (pt *positionTracker) mark() Position {
	return Position{
		Line:      pt.line,
		Character: pt.character,
		Offset:    pt.offset,
	}
}
