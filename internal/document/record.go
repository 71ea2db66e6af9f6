package document

// Placeholders written into a Record when the matching stage found nothing.
const (
	NoConclusion   = "no conclusion found"
	NoDiscussion   = "no discussion found"
	NoBibliography = "no bibliography found"
)

// SectionResult is what every segmentation stage returns.
type SectionResult struct {
	Text  string   // Extracted text, trimmed
	End   Position // Where the next stage resumes scanning
	Found bool     // False when the stage's anchor never matched
}

// Record is the segmented form of one article.
type Record struct {
	Filename     string `json:"filename"`
	Title        string `json:"title"`
	Authors      string `json:"authors"`
	Abstract     string `json:"abstract"`
	Introduction string `json:"introduction"`
	Body         string `json:"body"`
	Conclusion   string `json:"conclusion"`
	Discussion   string `json:"discussion"`
	Bibliography string `json:"bibliography"`
}

// TextLength is the number of extracted characters across the prose sections
// (abstract, introduction, body, discussion and conclusion).
func (r Record) TextLength() int {
	return len(r.Abstract) + len(r.Introduction) + len(r.Body) + len(r.Discussion) + len(r.Conclusion)
}
