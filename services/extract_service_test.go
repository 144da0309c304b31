package services

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"accana-api/utils"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to build docx: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to build docx: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to build docx: %v", err)
	}
	return buf.Bytes()
}

func TestExtractPlainText(t *testing.T) {
	got, err := ExtractText([]byte("clinical curriculum"), "text/plain")
	if err != nil {
		t.Fatalf("plain text extraction failed: %v", err)
	}
	if got != "clinical curriculum" {
		t.Errorf("unexpected text: %q", got)
	}

	// Charset parameters are ignored.
	if _, err := ExtractText([]byte("x"), "text/plain; charset=utf-8"); err != nil {
		t.Errorf("charset parameter should be tolerated: %v", err)
	}
	if _, err := ExtractText([]byte("x"), "TEXT/PLAIN"); err != nil {
		t.Errorf("MIME matching should be case-insensitive: %v", err)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	_, err := ExtractText([]byte{0xFF}, "image/png")
	if !utils.IsKind(err, utils.KindUnsupportedFormat) {
		t.Fatalf("expected unsupported-format error, got %v", err)
	}
	if !strings.Contains(err.Error(), "image/png") {
		t.Errorf("error should name the offending type: %v", err)
	}
}

func TestExtractDocx(t *testing.T) {
	docx := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Program goals</w:t></w:r><w:r><w:t> and outcomes</w:t></w:r></w:p>
    <w:p><w:r><w:t>Ethics module</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	got, err := ExtractText(docx, MimeDocx)
	if err != nil {
		t.Fatalf("docx extraction failed: %v", err)
	}
	if !strings.Contains(got, "Program goals and outcomes") {
		t.Errorf("runs within a paragraph should concatenate: %q", got)
	}
	if !strings.Contains(got, "Program goals and outcomes\n") || !strings.Contains(got, "Ethics module") {
		t.Errorf("paragraphs should be newline-separated: %q", got)
	}
}

func TestExtractDocxWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	if _, err := w.Create("word/styles.xml"); err != nil {
		t.Fatalf("failed to build zip: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to build zip: %v", err)
	}

	if _, err := ExtractText(buf.Bytes(), MimeDocx); !utils.IsKind(err, utils.KindExternalService) {
		t.Errorf("missing document.xml should fail, got %v", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	if _, err := ExtractText([]byte("not a pdf"), MimePDF); !utils.IsKind(err, utils.KindExternalService) {
		t.Errorf("corrupt PDF should fail with an external-service error, got %v", err)
	}
}
