package resume

import (
	"bytes"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/ledongthuc/pdf"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"github.com/FOX2920/Automated-CV-Scoring/internal/utils"
)

var pdfLicensed atomic.Bool

// SetPDFLicense registers a metered unidoc key. unipdf refuses to extract text
// without one, so extractors created afterwards only try it when a key is set.
func SetPDFLicense(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("set unidoc license: %w", err)
	}
	pdfLicensed.Store(true)
	return nil
}

// pdfChain returns the PDF strategies in preference order.
func pdfChain() []Strategy {
	if pdfLicensed.Load() {
		return []Strategy{PDFPages(), PDFPlainText()}
	}
	return []Strategy{PDFPlainText()}
}

// PDFPages concatenates the text of every page with unipdf and collapses whitespace.
func PDFPages() Strategy {
	return Strategy{Name: "pdf_pages", Extract: extractPDF}
}

// PDFPlainText reads the page text operators with ledongthuc/pdf. It needs no licence.
func PDFPlainText() Strategy {
	return Strategy{Name: "pdf_plain_text", Extract: extractPDFPlain}
}

func extractPDF(data []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("get page count: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("get page %d: %w", i, err)
		}

		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("create extractor for page %d: %w", i, err)
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("extract text from page %d: %w", i, err)
		}

		builder.WriteString(text)
		builder.WriteString(" ")
	}

	return utils.CollapseWhitespace(builder.String()), nil
}

func extractPDFPlain(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract text from page %d: %w", i, err)
		}

		builder.WriteString(text)
		builder.WriteString(" ")
	}

	return utils.CollapseWhitespace(builder.String()), nil
}
