package sharelink

import (
	"fmt"

	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
)

// ExportFormats lists the supported export formats in display order.
var ExportFormats = []string{"svg", "png", "pdf", "jpeg"}

// EditURL returns the interactive live-editor link for a token.
// Pure string construction; no network I/O.
func (c *Codec) EditURL(tok Token) string {
	return fmt.Sprintf("%s/edit#%s", c.editorBase, tok.Value)
}

// ExportURL returns the download link for a token in the given format
// (svg, png, pdf or jpeg). Pure string construction; no network I/O.
func (c *Codec) ExportURL(tok Token, format string) (string, error) {
	if err := errors.ValidateFormat(format); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/img/%s?format=%s", c.editorBase, tok.Value, format), nil
}

// ExportFilename returns the download filename for an export format.
// The extension is fixed per format.
func ExportFilename(format string) (string, error) {
	if err := errors.ValidateFormat(format); err != nil {
		return "", err
	}
	return "architecture-diagram." + format, nil
}
