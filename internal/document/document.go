package document

import "strings"

// Document is the line sequence of one converted article. Lines are kept
// verbatim; stages trim or normalize their own copies.
type Document struct {
	Name  string   // Source file name (base name, as found on disk)
	Lines []string // Raw lines in file order
}

// Position is a line index into a Document. Every segmentation stage takes a
// Position as its lower bound and returns one as its resume point.
type Position int

// Len returns the number of lines as a Position (one past the last line).
func (d *Document) Len() Position {
	return Position(len(d.Lines))
}

// Clamp bounds p to [0, d.Len()].
func (d *Document) Clamp(p Position) Position {
	if p < 0 {
		return 0
	}
	if n := d.Len(); p > n {
		return n
	}
	return p
}

// Trimmed returns line p with surrounding whitespace removed, or "" when p is
// out of range.
func (d *Document) Trimmed(p Position) string {
	if p < 0 || p >= d.Len() {
		return ""
	}
	return strings.TrimSpace(d.Lines[p])
}

// Blank reports whether line p is empty after trimming. Out-of-range lines
// count as blank.
func (d *Document) Blank(p Position) bool {
	return d.Trimmed(p) == ""
}

// Offset converts a line index into a cumulative character offset: the sum of
// len(line)+1 over every line before p.
func (d *Document) Offset(p Position) int {
	p = d.Clamp(p)
	total := 0
	for _, line := range d.Lines[:p] {
		total += len(line) + 1
	}
	return total
}

// LineAt converts a cumulative character offset back into a line index: the
// first line whose running total (including its own length and separator)
// meets or exceeds offset. Offsets past the end map to d.Len().
func (d *Document) LineAt(offset int) Position {
	if offset <= 0 {
		return 0
	}
	total := 0
	for i, line := range d.Lines {
		total += len(line) + 1
		if total >= offset {
			return Position(i)
		}
	}
	return d.Len()
}

// Join returns lines [from, to) joined with sep and trimmed.
func (d *Document) Join(from, to Position, sep string) string {
	from, to = d.Clamp(from), d.Clamp(to)
	if from >= to {
		return ""
	}
	return strings.TrimSpace(strings.Join(d.Lines[from:to], sep))
}
