// Package segment splits the line sequence of a converted article into its
// sections. Each extractor is a method on Segmenter so it can read the
// active rule table; Segment threads them together in document order.
package segment

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/papersect/internal/document"
	"github.com/dgallion1/papersect/internal/rules"
)

// ErrTitleNotFound is returned when no line survives the title filters.
// It is the only condition that aborts a document.
var ErrTitleNotFound = errors.New("title not found")

// Segmenter runs the extraction stages against one rule table.
type Segmenter struct {
	rules *rules.Set
	log   *slog.Logger
}

// New returns a Segmenter using rs. A nil rs selects the built-in rules.
func New(rs *rules.Set, log *slog.Logger) *Segmenter {
	if rs == nil {
		rs = rules.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Segmenter{rules: rs, log: log}
}

// Segment extracts every section of doc. Missing conclusion, discussion and
// bibliography sections are replaced by their placeholders.
func (s *Segmenter) Segment(doc *document.Document) (document.Record, error) {
	log := s.log.With("file", doc.Name)

	title, err := s.Title(doc)
	if err != nil {
		return document.Record{}, fmt.Errorf("%s: %w", doc.Name, err)
	}
	authors := s.Authors(doc, title.End)
	abstract := s.Abstract(doc)
	intro := s.Introduction(doc, abstract.Text)
	body := s.Body(doc, intro.End)
	conclusion := s.Conclusion(doc, body.End)
	discussion := s.Discussion(doc, body.End)
	bib := s.Bibliography(doc)

	log.Debug("segmented",
		"lines", len(doc.Lines),
		"title_end", title.End,
		"authors_end", authors.End,
		"abstract_found", abstract.Found,
		"intro_found", intro.Found,
		"intro_end", intro.End,
		"body_end", body.End,
		"conclusion_found", conclusion.Found,
		"discussion_found", discussion.Found,
		"bibliography_found", bib.Found,
	)

	return document.Record{
		Filename:     strings.ReplaceAll(doc.Name, " ", "_"),
		Title:        title.Text,
		Authors:      authors.Text,
		Abstract:     abstract.Text,
		Introduction: intro.Text,
		Body:         body.Text,
		Conclusion:   orPlaceholder(conclusion.Text, document.NoConclusion),
		Discussion:   orPlaceholder(discussion.Text, document.NoDiscussion),
		Bibliography: orPlaceholder(bib.Text, document.NoBibliography),
	}, nil
}

func orPlaceholder(text, placeholder string) string {
	if text == "" {
		return placeholder
	}
	return text
}

// isAbstractAnchor reports whether line opens the abstract.
func (s *Segmenter) isAbstractAnchor(line string) bool {
	return s.rules.Abstract.Anchor.MatchString(NormalizeLine(line))
}

// isIntroHeading reports whether line is a strict introduction heading.
func (s *Segmenter) isIntroHeading(line string) bool {
	return s.rules.Introduction.Heading.MatchString(NormalizeLine(line))
}
