package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestText_DocxStripsMarkup(t *testing.T) {
	doc := buildDocx(t, `<?xml version="1.0"?><w:document><w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Software Engineer</w:t></w:r></w:p></w:body></w:document>`)

	text, err := Text(doc, mimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") || !strings.Contains(text, "Software Engineer") {
		t.Fatalf("unexpected text: %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Fatalf("expected paragraph break in %q", text)
	}
}

func TestText_ZipMimeNormalizesToDocx(t *testing.T) {
	doc := buildDocx(t, `<w:document><w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></w:document>`)

	text, err := Text(doc, "application/zip", "resume.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if !strings.Contains(text, "hello") {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestText_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = Text(buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported mime error, got: %v", err)
	}
}

func TestText_PlainText(t *testing.T) {
	text, err := Text([]byte("  Jane Doe\nEngineer  \n"), "text/plain; charset=utf-8", "resume.txt")
	if err != nil {
		t.Fatalf("extract txt: %v", err)
	}
	if text != "Jane Doe\nEngineer" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestText_OctetStreamFallsBackToExtension(t *testing.T) {
	text, err := Text([]byte("plain resume"), "application/octet-stream", "resume.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "plain resume" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestSupported(t *testing.T) {
	cases := []struct {
		mime string
		name string
		want bool
	}{
		{"application/pdf", "cv.pdf", true},
		{"application/msword", "cv.doc", true},
		{"text/plain", "cv.txt", true},
		{"image/png", "cv.png", false},
		{"", "cv.docx", true},
	}
	for _, tc := range cases {
		if got := Supported(tc.mime, tc.name); got != tc.want {
			t.Errorf("Supported(%q, %q) = %v, want %v", tc.mime, tc.name, got, tc.want)
		}
	}
}
