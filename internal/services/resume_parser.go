package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

type ResumeParserService interface {
	// ExtractText turns raw resume bytes into plain text. PDF files are
	// parsed page by page; anything else is treated as UTF-8 text.
	ExtractText(filename string, raw []byte) (string, error)
}

type resumeParserService struct{}

func NewResumeParserService() ResumeParserService {
	return &resumeParserService{}
}

func (p *resumeParserService) ExtractText(filename string, raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("resume file is empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".pdf" {
		text, err := p.extractPDFText(raw)
		if err != nil {
			return "", err
		}
		return text, nil
	}

	text := string(raw)
	if !utf8.ValidString(text) || strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no readable text found in resume")
	}

	return CleanText(text), nil
}

func (p *resumeParserService) extractPDFText(raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}

// CleanText removes excessive whitespace and blank lines.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
