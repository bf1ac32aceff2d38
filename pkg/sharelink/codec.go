// Package sharelink encodes diagram specs into compact URL-safe tokens for
// the external live editor, and builds the edit and export URLs derived
// from them.
//
// The primary encoding packs the full spec (raw text, theme, theme variable
// overrides) as JSON, deflates it, and base64-url encodes the result under a
// "pako:" prefix. When the primary encoding fails the codec falls back to a
// "base64:" token carrying only the raw text; the token is still decodable
// but styling is lost, and [Token.Degraded] tells callers to warn the user.
package sharelink

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
)

// Token prefixes identifying the encoding scheme. A decoder that does not
// recognize the prefix must reject the token rather than guess.
const (
	prefixPako   = "pako:"
	prefixBase64 = "base64:"
)

// DefaultEditorBase is the public live-editor endpoint.
const DefaultEditorBase = "https://mermaid.live"

// Token is an opaque, URL-safe encoding of a diagram spec. Degraded is true
// when the fallback encoding was used and theme fidelity was sacrificed.
type Token struct {
	Value    string
	Degraded bool
}

// Codec encodes and decodes share tokens. The zero value is not usable;
// construct with [NewCodec].
type Codec struct {
	editorBase string
	level      int
}

// NewCodec creates a codec targeting the given live-editor base URL.
// An empty base selects [DefaultEditorBase].
func NewCodec(editorBase string) *Codec {
	if editorBase == "" {
		editorBase = DefaultEditorBase
	}
	return &Codec{
		editorBase: strings.TrimRight(editorBase, "/"),
		level:      zlib.BestCompression,
	}
}

// state is the serialized form inside a pako token. The field names follow
// the live editor's URL state schema so tokens open directly in it.
type state struct {
	Code    string        `json:"code"`
	Mermaid mermaidConfig `json:"mermaid"`
}

type mermaidConfig struct {
	Theme          diagram.Theme     `json:"theme"`
	ThemeVariables map[string]string `json:"themeVariables,omitempty"`
}

// Encode produces a share token for spec. The returned error is nil even on
// primary-encoding failure: in that case the token is the degraded raw-text
// fallback and Degraded is set so the caller can surface the fidelity loss.
func (c *Codec) Encode(spec diagram.Spec) (Token, error) {
	value, err := c.encodeFull(spec)
	if err != nil {
		return Token{
			Value:    prefixBase64 + base64.RawURLEncoding.EncodeToString([]byte(spec.RawText)),
			Degraded: true,
		}, nil
	}
	return Token{Value: value}, nil
}

func (c *Codec) encodeFull(spec diagram.Spec) (string, error) {
	data, err := json.Marshal(state{
		Code: spec.RawText,
		Mermaid: mermaidConfig{
			Theme:          spec.Theme,
			ThemeVariables: spec.ThemeVariables,
		},
	})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return "", err
	}
	if _, err := zw.Write(data); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	return prefixPako + base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reverses [Codec.Encode]. Both the pako and the degraded base64
// schemes are accepted; unknown prefixes and corrupt payloads return an
// INVALID_TOKEN error.
func (c *Codec) Decode(value string) (diagram.Spec, error) {
	switch {
	case strings.HasPrefix(value, prefixPako):
		return decodePako(strings.TrimPrefix(value, prefixPako))
	case strings.HasPrefix(value, prefixBase64):
		raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(value, prefixBase64))
		if err != nil {
			return diagram.Spec{}, errors.Wrap(errors.ErrCodeInvalidToken, err, "invalid base64 token")
		}
		return diagram.NewSpec(string(raw), diagram.ThemeDark, nil), nil
	default:
		return diagram.Spec{}, errors.New(errors.ErrCodeInvalidToken, "unknown token scheme")
	}
}

func decodePako(payload string) (diagram.Spec, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return diagram.Spec{}, errors.Wrap(errors.ErrCodeInvalidToken, err, "invalid base64 token")
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return diagram.Spec{}, errors.Wrap(errors.ErrCodeInvalidToken, err, "invalid deflate stream")
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return diagram.Spec{}, errors.Wrap(errors.ErrCodeInvalidToken, err, "corrupt deflate stream")
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return diagram.Spec{}, errors.Wrap(errors.ErrCodeInvalidToken, err, "invalid token state")
	}

	return diagram.NewSpec(st.Code, st.Mermaid.Theme, st.Mermaid.ThemeVariables), nil
}
