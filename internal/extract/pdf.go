package extract

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFPageSource reads per-page text from PDF files.
type PDFPageSource struct{}

// NewPDFPageSource creates a PageSource backed by the pdf library.
func NewPDFPageSource() *PDFPageSource {
	return &PDFPageSource{}
}

// Pages implements PageSource. Pages that fail to render are skipped rather
// than failing the whole document; only an unreadable file is an error.
func (s *PDFPageSource) Pages(path string) ([]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
