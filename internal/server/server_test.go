package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/MalanSathya/terraformcoder-ai/internal/auth"
	"github.com/MalanSathya/terraformcoder-ai/internal/generate"
	"github.com/MalanSathya/terraformcoder-ai/internal/store"
	"github.com/MalanSathya/terraformcoder-ai/pkg/cache"
	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
	"github.com/MalanSathya/terraformcoder-ai/pkg/render"
)

type stubCompleter struct{ response string }

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return s.response, nil
}

const completion = "```terraform:main.tf\nresource \"aws_instance\" \"web\" {}\n```\n" +
	"```json\n{\"explanation\": \"One instance.\", \"resources\": [\"EC2 Instance\"], \"estimated_cost\": \"$10/month\"}\n```"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := store.NewMemoryStore()
	tokens := auth.NewManager("test-secret", 0)
	logger := log.New(io.Discard)
	svc := generate.NewService(&stubCompleter{response: completion}, cache.NewMemoryCache(), st, nil, logger)
	engine := render.EngineFunc(func(ctx context.Context, spec diagram.Spec) ([]byte, error) {
		return []byte("<svg>" + string(spec.Theme) + "</svg>"), nil
	})

	srv := httptest.NewServer(New(st, tokens, svc, engine, logger))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func getJSON(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func register(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/auth/register", "", map[string]string{
		"email": email, "name": "Dev", "password": "correct horse",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}
	return token
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "dev@example.com")

	// duplicate registration conflicts
	resp := postJSON(t, srv.URL+"/api/auth/register", "", map[string]string{
		"email": "dev@example.com", "name": "Dev", "password": "correct horse",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "dev@example.com", "password": "correct horse",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if token, _ := body["access_token"].(string); token == "" {
		t.Error("login returned no token")
	}

	resp = postJSON(t, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "dev@example.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGenerateRequiresAuth(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/generate", "", map[string]string{
		"description": "a simple web server on a vm", "provider": "aws",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	var env errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if env.Error.Code != "UNAUTHORIZED" {
		t.Errorf("code = %q", env.Error.Code)
	}
}

func TestGenerateAndHistory(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "dev@example.com")

	resp := postJSON(t, srv.URL+"/api/generate", token, map[string]string{
		"description": "a simple web server on a vm", "provider": "aws",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}
	gen := decode[generate.Response](t, resp)
	if !strings.Contains(gen.Code, "aws_instance") {
		t.Errorf("Code = %q", gen.Code)
	}
	if len(gen.Diagram.Components) != 1 {
		t.Errorf("Diagram.Components = %v", gen.Diagram.Components)
	}

	resp = getJSON(t, srv.URL+"/api/history", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history status = %d", resp.StatusCode)
	}
	hist := decode[struct {
		Generations []store.Generation `json:"generations"`
	}](t, resp)
	if len(hist.Generations) != 1 {
		t.Fatalf("history = %d entries, want 1", len(hist.Generations))
	}

	item := getJSON(t, srv.URL+"/api/history/"+hist.Generations[0].ID, token)
	if item.StatusCode != http.StatusOK {
		t.Errorf("history item status = %d", item.StatusCode)
	}
	item.Body.Close()

	// another user cannot read it
	other := register(t, srv, "other@example.com")
	stolen := getJSON(t, srv.URL+"/api/history/"+hist.Generations[0].ID, other)
	if stolen.StatusCode != http.StatusNotFound {
		t.Errorf("cross-user history status = %d, want 404", stolen.StatusCode)
	}
	stolen.Body.Close()
}

func TestGenerateRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "dev@example.com")

	resp := postJSON(t, srv.URL+"/api/generate", token, map[string]string{
		"description": "short", "provider": "aws",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var env errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if env.Error.Code != "INVALID_DESCRIPTION" {
		t.Errorf("code = %q", env.Error.Code)
	}
}

func TestRenderProxy(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "dev@example.com")

	resp := postJSON(t, srv.URL+"/api/render", token, map[string]string{
		"code": "graph TD\nA[Web Server] --> B[Database]", "theme": "light",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg>light</svg>" {
		t.Errorf("body = %q", data)
	}
}

func TestRenderProxyRejectsUnknownTheme(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "dev@example.com")

	resp := postJSON(t, srv.URL+"/api/render", token, map[string]string{
		"code": "graph TD\nA-->B", "theme": "solarized",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHistoryLimitValidation(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "dev@example.com")

	for _, limit := range []string{"0", "-1", "abc"} {
		resp := getJSON(t, srv.URL+"/api/history?limit="+limit, token)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("limit=%s status = %d, want 400", limit, resp.StatusCode)
		}
		resp.Body.Close()
	}
}
