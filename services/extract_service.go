package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"accana-api/utils"
)

// MIME types accepted by ExtractText.
const (
	MimeText = "text/plain"
	MimePDF  = "application/pdf"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ExtractText converts an uploaded file into plain text. Unsupported MIME
// types fail with an UnsupportedFormat error naming the offending type.
func ExtractText(data []byte, mimeType string) (string, error) {
	switch normalizeMime(mimeType) {
	case MimeText:
		return string(data), nil
	case MimePDF:
		return extractPDFText(data)
	case MimeDocx:
		return extractDocxText(data)
	default:
		return "", utils.UnsupportedFormatError("unsupported file type: %s", mimeType)
	}
}

func normalizeMime(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	// Browsers may append parameters such as "; charset=utf-8".
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", utils.ExternalServiceError(err, "failed to open PDF")
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", utils.ExternalServiceError(err, "failed to extract PDF text")
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", utils.ExternalServiceError(err, "failed to read PDF text")
	}
	return b.String(), nil
}

// extractDocxText walks word/document.xml inside the OOXML container,
// collecting w:t runs and emitting a newline at each paragraph end.
func extractDocxText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", utils.ExternalServiceError(err, "failed to open DOCX container")
	}

	var document io.ReadCloser
	for _, file := range archive.File {
		if file.Name == "word/document.xml" {
			document, err = file.Open()
			if err != nil {
				return "", utils.ExternalServiceError(err, "failed to read DOCX document")
			}
			break
		}
	}
	if document == nil {
		return "", utils.ExternalServiceError(nil, "DOCX container has no word/document.xml")
	}
	defer document.Close()

	var b strings.Builder
	decoder := xml.NewDecoder(document)
	inText := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", utils.ExternalServiceError(err, "failed to parse DOCX document")
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
