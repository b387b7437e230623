package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"quizforge/internal/domain"
)

// PageSource decodes a document into a sequence of per-page plain texts. The
// decoding library is treated as a black box behind this interface so tests
// can substitute a fake.
type PageSource interface {
	Pages(path string) ([]string, error)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extractor normalizes an uploaded document or raw paragraph into a bounded
// plain-text string for prompting.
type Extractor struct {
	pages    PageSource
	maxChars int
}

// NewExtractor creates an Extractor reading documents from pages and capping
// output at maxChars characters.
func NewExtractor(pages PageSource, maxChars int) *Extractor {
	return &Extractor{pages: pages, maxChars: maxChars}
}

// FromDocument decodes the document at path to per-page text, joins the pages
// with a single space, and normalizes the result. It fails if the document
// cannot be decoded or yields no text.
func (e *Extractor) FromDocument(path string) (string, error) {
	pages, err := e.pages.Pages(path)
	if err != nil {
		return "", domain.NewExtractionError("Failed to decode document", err)
	}

	text := e.normalize(strings.Join(pages, " "))
	if text == "" {
		return "", domain.NewExtractionError("Document contains no extractable text", nil)
	}
	return text, nil
}

// FromParagraph normalizes raw user text. Paragraphs go through the same
// whitespace collapse and character cap as documents, so the prompt budget
// holds for both input paths.
func (e *Extractor) FromParagraph(paragraph string) (string, error) {
	text := e.normalize(paragraph)
	if text == "" {
		return "", domain.NewExtractionError("Paragraph contains no text", nil)
	}
	return text, nil
}

// normalize collapses whitespace runs to single spaces, trims, and
// hard-truncates at the character budget. The budget counts runes, not bytes,
// so multi-byte scripts get the full budget and the cut never splits a
// character. No word-boundary awareness.
func (e *Extractor) normalize(text string) string {
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if e.maxChars > 0 && utf8.RuneCountInString(text) > e.maxChars {
		runes := []rune(text)
		text = string(runes[:e.maxChars])
	}
	return text
}
