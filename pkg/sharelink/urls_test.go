package sharelink

import (
	"strings"
	"testing"

	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
)

func TestEditURL(t *testing.T) {
	c := NewCodec("https://mermaid.live/")
	tok, _ := c.Encode(diagram.NewSpec("graph TD\nA-->B", diagram.ThemeDark, nil))

	url := c.EditURL(tok)
	if !strings.HasPrefix(url, "https://mermaid.live/edit#pako:") {
		t.Errorf("EditURL() = %q", url)
	}
}

func TestExportURLSharesTokenAcrossFormats(t *testing.T) {
	c := NewCodec("")
	tok, _ := c.Encode(diagram.NewSpec("graph TD\nA-->B", diagram.ThemeDark, nil))

	pngURL, err := c.ExportURL(tok, "png")
	if err != nil {
		t.Fatalf("ExportURL(png) error = %v", err)
	}
	svgURL, err := c.ExportURL(tok, "svg")
	if err != nil {
		t.Fatalf("ExportURL(svg) error = %v", err)
	}

	// Same encoded token, differing only in the format discriminator.
	pngBase := strings.TrimSuffix(pngURL, "format=png")
	svgBase := strings.TrimSuffix(svgURL, "format=svg")
	if pngBase != svgBase {
		t.Errorf("export URLs diverge beyond format:\npng: %q\nsvg: %q", pngURL, svgURL)
	}
	if !strings.Contains(pngURL, tok.Value) {
		t.Errorf("ExportURL missing token: %q", pngURL)
	}
}

func TestExportURLRejectsUnknownFormat(t *testing.T) {
	c := NewCodec("")
	tok, _ := c.Encode(diagram.NewSpec("graph TD\nA-->B", diagram.ThemeDark, nil))
	if _, err := c.ExportURL(tok, "bmp"); err == nil {
		t.Error("ExportURL(bmp) should fail")
	}
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{"svg", "architecture-diagram.svg", false},
		{"png", "architecture-diagram.png", false},
		{"pdf", "architecture-diagram.pdf", false},
		{"jpeg", "architecture-diagram.jpeg", false},
		{"exe", "", true},
	}
	for _, tt := range tests {
		got, err := ExportFilename(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ExportFilename(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ExportFilename(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}
