package extract

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"quizforge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePageSource struct {
	pages []string
	err   error
}

func (f *fakePageSource) Pages(path string) ([]string, error) {
	return f.pages, f.err
}

func domainCode(t *testing.T, err error) domain.ErrorCode {
	t.Helper()
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestFromDocument_JoinsPagesWithSingleSpace(t *testing.T) {
	e := NewExtractor(&fakePageSource{pages: []string{"page one", "page two"}}, 1000)

	text, err := e.FromDocument("doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "page one page two", text)
}

func TestFromDocument_CollapsesWhitespaceRuns(t *testing.T) {
	e := NewExtractor(&fakePageSource{pages: []string{"  a\t\tb\n\nc ", "d\r\ne"}}, 1000)

	text, err := e.FromDocument("doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "a b c d e", text)
}

func TestFromDocument_TruncatesToBudgetWithoutError(t *testing.T) {
	long := strings.Repeat("x", 500)
	e := NewExtractor(&fakePageSource{pages: []string{long, long, long}}, 100)

	text, err := e.FromDocument("doc.pdf")
	require.NoError(t, err)
	assert.Len(t, text, 100)
}

func TestFromDocument_TruncatesMultiByteTextOnRuneBoundary(t *testing.T) {
	e := NewExtractor(&fakePageSource{pages: []string{strings.Repeat("é", 200)}}, 150)

	text, err := e.FromDocument("doc.pdf")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(text), "truncation must not split a multi-byte rune")
	assert.Equal(t, 150, utf8.RuneCountInString(text), "budget counts characters, not bytes")
	assert.Equal(t, strings.Repeat("é", 150), text)
}

func TestFromDocument_MultiByteTextUnderBudgetUntouched(t *testing.T) {
	e := NewExtractor(&fakePageSource{pages: []string{strings.Repeat("日", 100)}}, 101)

	text, err := e.FromDocument("doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("日", 100), text, "100 runes fit a 101-character budget despite being 300 bytes")
}

func TestFromDocument_DecodeFailure(t *testing.T) {
	e := NewExtractor(&fakePageSource{err: errors.New("corrupt file")}, 1000)

	_, err := e.FromDocument("doc.pdf")
	require.Error(t, err)
	assert.Equal(t, domain.ErrExtractionFailed, domainCode(t, err))
}

func TestFromDocument_EmptyDocument(t *testing.T) {
	e := NewExtractor(&fakePageSource{pages: []string{"   ", "\n\t"}}, 1000)

	_, err := e.FromDocument("doc.pdf")
	require.Error(t, err)
	assert.Equal(t, domain.ErrExtractionFailed, domainCode(t, err))
}

func TestFromParagraph_NormalizedLikeDocuments(t *testing.T) {
	e := NewExtractor(NewPDFPageSource(), 50)

	text, err := e.FromParagraph("  some\n\nuser   text\t here  ")
	require.NoError(t, err)
	assert.Equal(t, "some user text here", text)

	long, err := e.FromParagraph(strings.Repeat("y", 200))
	require.NoError(t, err)
	assert.Len(t, long, 50)
}

func TestFromParagraph_EmptyFails(t *testing.T) {
	e := NewExtractor(NewPDFPageSource(), 50)

	_, err := e.FromParagraph("   \n ")
	require.Error(t, err)
	assert.Equal(t, domain.ErrExtractionFailed, domainCode(t, err))
}
