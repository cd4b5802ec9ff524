package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

var errNoText = errors.New("no text content found in PDF")

type PDFParserService interface {
	ExtractText(filePath string) (string, error)
	ExtractTextFromReader(r io.ReaderAt, size int64) (string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractText implements PDFParserService.
func (p *pdfParserService) ExtractText(filePath string) (text string, err error) {
	defer recoverMalformed(&text, &err)

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", &ExtractionError{Err: err}
	}
	defer f.Close()

	return readPages(r)
}

// ExtractTextFromReader implements PDFParserService. Multipart uploads satisfy
// io.ReaderAt, so nothing is spooled to disk.
func (p *pdfParserService) ExtractTextFromReader(r io.ReaderAt, size int64) (text string, err error) {
	defer recoverMalformed(&text, &err)

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", &ExtractionError{Err: err}
	}

	return readPages(reader)
}

// readPages concatenates the text of every page that yields any, in order.
func readPages(r *pdf.Reader) (string, error) {
	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := pageText(page)
		if err != nil || text == "" {
			continue
		}

		textBuilder.WriteString(text)
	}

	text := strings.TrimSpace(textBuilder.String())
	if text == "" {
		return "", &ExtractionError{Err: errNoText}
	}

	return text, nil
}

// pageText isolates a single page so a broken content stream only drops that page.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("page content: %v", rec)
		}
	}()

	return page.GetPlainText(nil)
}

// ledongthuc/pdf panics on some malformed inputs instead of returning errors.
func recoverMalformed(text *string, err *error) {
	if rec := recover(); rec != nil {
		*text = ""
		*err = &ExtractionError{Err: fmt.Errorf("malformed PDF: %v", rec)}
	}
}
