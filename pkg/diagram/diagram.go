// Package diagram implements the architecture-diagram grammar model and the
// tolerant text parser used across the application.
//
// A diagram is described in a small flowchart-style language: nodes declared
// as identifiers or `id[Label]` pairs, and directed edges written with arrow
// markers such as `-->`, `-.->` or `==>`. The parser is deliberately
// best-effort: any line it cannot interpret is skipped, never fatal, so
// partial or malformed model output still yields a usable component graph.
//
// The package has no rendering dependency. Rendering, share links, and
// export URLs are built on top of [Spec] by pkg/render and pkg/sharelink.
package diagram

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Theme selects the visual theme for rendering and share links.
type Theme string

// Supported themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Valid returns true for a known theme value.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Spec is an immutable description of one diagram to display: the raw
// diagram text plus theme configuration. Identity is content-derived via
// [Spec.Fingerprint]; two specs with equal fingerprints are interchangeable
// for caching and staleness checks.
type Spec struct {
	RawText        string            `json:"code"`
	Theme          Theme             `json:"theme"`
	ThemeVariables map[string]string `json:"themeVariables,omitempty"`
}

// NewSpec creates a Spec with the default dark theme when theme is empty
// or unknown.
func NewSpec(rawText string, theme Theme, vars map[string]string) Spec {
	if !theme.Valid() {
		theme = ThemeDark
	}
	return Spec{RawText: rawText, Theme: theme, ThemeVariables: vars}
}

// Fingerprint returns the content hash identifying this spec. It covers the
// raw text, the theme, and all theme variable overrides in sorted order, so
// the value is stable across map iteration order.
func (s Spec) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(s.RawText))
	h.Write([]byte{0})
	h.Write([]byte(s.Theme))

	keys := make([]string, 0, len(s.ThemeVariables))
	for k := range s.ThemeVariables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(s.ThemeVariables[k]))
	}

	return hex.EncodeToString(h.Sum(nil))
}
