// Package layout repairs page layout artifacts left by text conversion:
// two-column pages rendered side by side and noisy whitespace.
package layout

import (
	"sort"
	"strings"
)

// Config controls gutter detection.
type Config struct {
	MinColumn int     // Gaps starting left of this rune column are ignored.
	MinGap    int     // Minimum run of spaces that counts as a gutter.
	MinRatio  float64 // Share of non-blank lines that must agree on the column.
}

// DefaultConfig returns the thresholds tuned for pdftotext -layout output.
func DefaultConfig() Config {
	return Config{
		MinColumn: 40,
		MinGap:    4,
		MinRatio:  0.15,
	}
}

// DetectGutter finds the rune column where a second text column starts.
// For every non-blank line it records each column at or after MinColumn
// where text resumes after at least MinGap spaces; the most common column
// wins if enough lines share it. ok is false for single-column text.
func DetectGutter(lines []string, cfg Config) (column int, ok bool) {
	if cfg.MinColumn <= 0 {
		cfg.MinColumn = 40
	}
	if cfg.MinGap <= 0 {
		cfg.MinGap = 4
	}
	if cfg.MinRatio <= 0 {
		cfg.MinRatio = 0.15
	}

	histogram := make(map[int]int)
	total := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		total++

		spaces := 0
		col := 0
		for _, r := range line {
			if col >= cfg.MinColumn {
				if r == ' ' {
					spaces++
				} else {
					if spaces >= cfg.MinGap {
						histogram[col]++
					}
					spaces = 0
				}
			}
			col++
		}
	}
	if len(histogram) == 0 {
		return 0, false
	}

	// Most frequent column; ties go to the leftmost so results are stable.
	cols := make([]int, 0, len(histogram))
	for c := range histogram {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	best := cols[0]
	for _, c := range cols[1:] {
		if histogram[c] > histogram[best] {
			best = c
		}
	}

	if float64(histogram[best])/float64(total) < cfg.MinRatio {
		return 0, false
	}
	return best, true
}

// Truncate cuts every line to its first column runes and trims the right
// edge.
func Truncate(lines []string, column int) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		n := 0
		for idx := range line {
			if n == column {
				line = line[:idx]
				break
			}
			n++
		}
		out[i] = strings.TrimRight(line, " \t\r")
	}
	return out
}

// KeepFirstColumn drops the right-hand column of two-column text. Lines are
// returned unchanged (apart from trailing whitespace) when no gutter is found.
func KeepFirstColumn(lines []string, cfg Config) ([]string, int, bool) {
	column, ok := DetectGutter(lines, cfg)
	if !ok {
		out := make([]string, len(lines))
		for i, line := range lines {
			out[i] = strings.TrimRight(line, " \t\r")
		}
		return out, 0, false
	}
	return Truncate(lines, column), column, true
}
