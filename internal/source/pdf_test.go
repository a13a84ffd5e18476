package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writePDF writes a one-page PDF with a blank width x height point page.
func writePDF(t *testing.T, width, height int) string {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Contents 4 0 R >>", width, height),
		"<< /Length 0 >>\nstream\n\nendstream",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "chart.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFitzPDFSource(t *testing.T) {
	src, err := Open(writePDF(t, 100, 50))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	if _, ok := src.(*FitzPDFSource); !ok {
		t.Fatalf("Expected *FitzPDFSource, got %T", src)
	}
	if src.PageCount() != 1 {
		t.Errorf("Expected 1 page, got %d", src.PageCount())
	}

	w, h, err := src.GetPageDimensions(0)
	if err != nil || w != 100 || h != 50 {
		t.Errorf("Expected 100x50, got %vx%v (err %v)", w, h, err)
	}

	tests := []struct {
		dpi  int
		w, h int
	}{
		{72, 100, 50},
		{144, 200, 100},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d dpi", tt.dpi), func(t *testing.T) {
			img, err := src.RenderPage(0, tt.dpi)
			if err != nil {
				t.Fatalf("RenderPage failed: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.w || b.Dy() != tt.h {
				t.Errorf("Expected %dx%d, got %dx%d", tt.w, tt.h, b.Dx(), b.Dy())
			}
		})
	}

	for _, page := range []int{-1, 1} {
		if _, err := src.RenderPage(page, 72); err == nil {
			t.Errorf("Expected error for page %d", page)
		}
	}
}

func TestFitzPDFSourceMissingFile(t *testing.T) {
	if _, err := NewFitzPDFSource(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Expected error for missing PDF")
	}
}
