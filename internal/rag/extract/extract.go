package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dslipak/pdf"

	"github.com/chatlet/chatlet/internal/domain/apperrors"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

var logger = logger_i.NewLogger("Extractor")

// FromFile turns an uploaded file into plain text plus metadata. The declared
// MIME type is what the client sent; the extension is checked too because
// browsers are not consistent about MIME headers.
func FromFile(fileName, mimeType string, data []byte) (commonModels.ExtractedContent, error) {
	var empty commonModels.ExtractedContent

	switch {
	case mimeType == "application/pdf" || hasExt(fileName, ".pdf"):
		text, err := extractPDF(data)
		if err != nil {
			return empty, err
		}
		return build(text, fileName, "application/pdf"), nil

	case mimeType == "text/plain" || hasExt(fileName, ".txt"):
		if !utf8.Valid(data) {
			return empty, apperrors.Extraction(apperrors.ParseFailure, "text file is not valid UTF-8")
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return empty, apperrors.Extraction(apperrors.EmptyContent, "text file is empty")
		}
		return build(text, fileName, "text/plain"), nil

	default:
		return empty, apperrors.Extraction(apperrors.UnsupportedType,
			fmt.Sprintf("unsupported file type: %s. Supported types: PDF, TXT", mimeType))
	}
}

func build(text, source, contentType string) commonModels.ExtractedContent {
	return commonModels.ExtractedContent{
		Text: text,
		Metadata: commonModels.ContentMetadata{
			Source:      source,
			ContentType: contentType,
			WordCount:   len(strings.Fields(text)),
		},
	}
}

func hasExt(fileName, ext string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ext)
}

func extractPDF(data []byte) (string, error) {
	text, err := readPDFText(data)
	if err != nil && isSpuriousDecodeErr(err) {
		//the decoder occasionally fails a structurally fine document on the
		//first pass; one retry clears it
		logger.Debug("retrying pdf decode after spurious error", "error", err)
		text, err = readPDFText(data)
	}
	if err != nil {
		return "", apperrors.ExtractionWrap(apperrors.ParseFailure,
			"failed to parse PDF. The file might be corrupted or contain only images", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.Extraction(apperrors.EmptyContent,
			"PDF appears to be empty or contains only images. Please use a PDF with selectable text")
	}
	return text, nil
}

func readPDFText(data []byte) (text string, err error) {
	//the decoder panics on some malformed inputs instead of returning an error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf decoder panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			//a single broken page should not sink the document
			logger.Warn("skipping unreadable pdf page", "page", i, "error", pageErr)
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func isSpuriousDecodeErr(err error) bool {
	return strings.Contains(err.Error(), "malformed PDF")
}
