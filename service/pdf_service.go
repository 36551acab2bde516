package service

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// PDFService extracts the text of a protocol PDF. Pages are
// concatenated into one logical document string so downstream chunking
// can span page boundaries.
type PDFService struct {
	logger *zap.Logger
}

func NewPDFService(logger *zap.Logger) *PDFService {
	return &PDFService{logger: logger}
}

// ExtractText reads every page of the PDF at filePath and returns the
// concatenated, cleaned document text. It tries the pure-Go reader
// first and falls back to the pdftotext utility for files the reader
// cannot parse.
func (s *PDFService) ExtractText(filePath string) (string, error) {
	text, err := s.extractWithReader(filePath)
	if err != nil || strings.TrimSpace(text) == "" {
		s.logger.Warn("pdf reader extraction failed, trying pdftotext",
			zap.String("file", filePath), zap.Error(err))
		text, err = s.extractWithPdftotext(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to extract text: %w", err)
		}
	}
	cleaned := s.cleanText(text)
	if cleaned == "" {
		return "", fmt.Errorf("no text extracted from %s", filePath)
	}
	return cleaned, nil
}

func (s *PDFService) extractWithReader(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("parse PDF: %w", err)
	}

	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			s.logger.Warn("failed to extract page", zap.Int("page", i), zap.Error(err))
			continue
		}
		buf.WriteString(text)
		buf.WriteByte(' ')
	}
	return buf.String(), nil
}

func (s *PDFService) extractWithPdftotext(filePath string) (string, error) {
	cmd := exec.Command("pdftotext", "-enc", "UTF-8", "-nopgbrk", filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	if trimmed := strings.TrimSpace(out.String()); len(trimmed) > 0 {
		return trimmed, nil
	}
	return "", fmt.Errorf("pdftotext produced no text for %s", filePath)
}

func (s *PDFService) cleanText(text string) string {
	replacements := map[string]string{
		"\x00":   "",   // Null character
		"\uFFFD": "",   // Unicode replacement character
		"\x1b":   "",   // Escape character
		"\r":     "",   // Carriage return
		"\f":     "\n", // Form feed to newline
		"  ":     " ",  // Multiple spaces to single space
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}
