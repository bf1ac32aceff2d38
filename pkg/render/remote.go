package render

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
	"github.com/MalanSathya/terraformcoder-ai/pkg/httputil"
)

// TokenSource supplies the bearer credential authorizing render-proxy
// calls. It is the seam to the session collaborator: the engine never
// manages credentials itself.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed credential.
type StaticToken string

// Token returns the fixed credential.
func (s StaticToken) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

// RemoteEngine renders diagrams through the render-proxy HTTP endpoint.
// On success the response body is the raw vector markup; on failure the
// error body text becomes the failure reason.
type RemoteEngine struct {
	url    string
	client *http.Client
	tokens TokenSource
}

// NewRemoteEngine creates an engine calling the proxy at url. A nil client
// uses a default with a 30 second timeout.
func NewRemoteEngine(url string, tokens TokenSource, client *http.Client) *RemoteEngine {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteEngine{url: url, client: client, tokens: tokens}
}

// Render submits spec to the proxy and returns the vector markup.
// Transient failures (network errors, 5xx) are retried with backoff;
// rejections (4xx) fail immediately with the proxy's error text.
func (e *RemoteEngine) Render(ctx context.Context, spec diagram.Spec) ([]byte, error) {
	body, err := json.Marshal(map[string]any{
		"code":   spec.RawText,
		"format": "svg",
		"theme":  spec.Theme,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding render request")
	}

	token, err := e.tokens.Token(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnauthorized, err, "obtaining render credential")
	}

	var artifact []byte
	err = httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := e.client.Do(req)
		if err != nil {
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "render proxy unreachable"))
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "reading render response"))
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			artifact = data
			return nil
		case resp.StatusCode >= 500:
			return httputil.Retryable(errors.New(errors.ErrCodeRenderFailed, "render proxy error (%d): %s", resp.StatusCode, errorText(data)))
		default:
			return errors.New(errors.ErrCodeRenderFailed, "%s", errorText(data))
		}
	})
	if err != nil {
		return nil, err
	}
	return artifact, nil
}

// errorText extracts a readable reason from an error body. It tries the
// structured {"error": {"message": ...}} envelope, then a flat
// {"error": ...} string, then falls back to the raw text.
func errorText(data []byte) string {
	var structured struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(data, &structured) == nil && structured.Error.Message != "" {
		return structured.Error.Message
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
		return envelope.Error
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "render rejected"
	}
	const maxReason = 500
	if len(text) > maxReason {
		text = text[:maxReason]
	}
	return text
}

var _ Engine = (*RemoteEngine)(nil)
