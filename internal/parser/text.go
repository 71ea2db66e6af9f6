package parser

import (
	"bufio"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/papersect/internal/document"
)

// maxLineBytes is the longest line kept; longer lines are dropped.
const maxLineBytes = 1024 * 1024

// TextParser handles plain text files. Lines are kept verbatim except for a
// trailing carriage return. Lines that are not valid UTF-8 or longer than
// maxLineBytes are dropped; neither fails the file.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var lines []string
	for {
		line, ok, err := readLine(br)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if ok {
			line = strings.TrimSuffix(line, "\r")
			if utf8.ValidString(line) {
				lines = append(lines, line)
			}
		}
		if err != nil {
			break
		}
	}

	return &document.Document{Name: filepath.Base(filename), Lines: lines}, nil
}

// readLine returns the next line without its newline. ok is false when the
// line exceeded maxLineBytes (it is consumed and discarded) or when the
// input ended without any further bytes. err is io.EOF after the last line.
func readLine(br *bufio.Reader) (line string, ok bool, err error) {
	var buf []byte
	tooLong := false
	read := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && read {
				return string(buf), !tooLong, io.EOF
			}
			return "", false, err
		}
		read = true
		if !tooLong {
			if len(buf)+len(chunk) > maxLineBytes {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), !tooLong, nil
		}
	}
}
