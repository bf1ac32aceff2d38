package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
	"github.com/MalanSathya/terraformcoder-ai/pkg/httputil"
)

const (
	// DefaultMistralURL is the chat-completions endpoint.
	DefaultMistralURL = "https://api.mistral.ai/v1/chat/completions"

	// DefaultModel is the code-specialized model used for Terraform output.
	DefaultModel = "codestral-latest"

	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
)

const systemPrompt = `You are an expert Terraform engineer. Given a plain-English
infrastructure description, produce production-ready Terraform.

Rules:
- Emit each file in its own fenced block tagged with the filename, e.g.
  ` + "```" + `terraform:main.tf
- After the code blocks, emit exactly one ` + "```" + `json block with the keys
  "explanation", "resources", "estimated_cost" and "file_hierarchy".
- "resources" is the list of infrastructure components by human-readable
  name (e.g. "EC2 Instance", "RDS Database").
- Target the cloud provider named in the request. Do not add commentary
  outside the fenced blocks.`

// Completer produces a raw model completion for a prompt pair. It is the
// seam tests use to substitute canned responses.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// MistralClient calls the Mistral chat-completions API.
type MistralClient struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

// NewMistralClient creates a client for the given API key. An empty url or
// model selects the defaults.
func NewMistralClient(apiKey, url, model string) *MistralClient {
	if url == "" {
		url = DefaultMistralURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &MistralClient{
		url:    url,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat completion and returns the assistant text.
// Transient failures (network errors, 5xx) are retried with backoff.
func (c *MistralClient) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encoding completion request")
	}

	var text string
	err = httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "building completion request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "mistral unreachable"))
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "reading completion response"))
		}

		switch {
		case resp.StatusCode >= 500:
			return httputil.Retryable(errors.New(errors.ErrCodeGenerationFailed,
				"mistral returned %d", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return errors.New(errors.ErrCodeGenerationFailed,
				"mistral returned %d: %s", resp.StatusCode, truncate(string(data), 300))
		}

		var parsed chatResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return errors.Wrap(errors.ErrCodeGenerationFailed, err, "decoding completion response")
		}
		if len(parsed.Choices) == 0 {
			return errors.New(errors.ErrCodeGenerationFailed, "completion has no choices")
		}
		text = parsed.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func userPrompt(description, provider string) string {
	return fmt.Sprintf("Cloud provider: %s\n\nInfrastructure description:\n%s", provider, description)
}
