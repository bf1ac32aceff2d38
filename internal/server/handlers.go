package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MalanSathya/terraformcoder-ai/internal/auth"
	"github.com/MalanSathya/terraformcoder-ai/internal/generate"
	"github.com/MalanSathya/terraformcoder-ai/internal/store"
	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
)

const defaultHistoryLimit = 50

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string     `json:"access_token"`
	User  store.User `json:"user"`
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "a valid email is required"))
		return
	}
	if len(req.Password) < 8 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "password must be at least 8 characters"))
		return
	}

	u := store.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: auth.HashPassword(req.Password),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(r.Context(), u); err != nil {
		writeError(w, err)
		return
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: u})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, err := s.store.UserByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(req.Password, u.PasswordHash) {
		// same answer for unknown email and wrong password
		writeError(w, errors.New(errors.ErrCodeUnauthorized, "invalid email or password"))
		return
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

type generateRequest struct {
	Description string `json:"description"`
	Provider    string `json:"provider"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := s.service.Generate(r.Context(), generate.Request{
		UserID:      userID(r.Context()),
		Description: req.Description,
		Provider:    req.Provider,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	history, err := s.store.GenerationsByUser(r.Context(), userID(r.Context()), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"generations": history})
}

func (s *Server) handleHistoryItem(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.GenerationByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if g.UserID != userID(r.Context()) {
		// do not reveal that the ID exists
		writeError(w, errors.New(errors.ErrCodeGenerationNotFound, "no such generation"))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type renderRequest struct {
	Code  string `json:"code"`
	Theme string `json:"theme"`
}

// handleRender is the render proxy: it accepts diagram text and returns
// the SVG artifact.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "rendering is not enabled on this server"))
		return
	}

	var req renderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	theme := diagram.Theme(req.Theme)
	if req.Theme == "" {
		theme = diagram.ThemeDark
	}
	if !theme.Valid() {
		writeError(w, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q", req.Theme))
		return
	}

	artifact, err := s.engine.Render(r.Context(), diagram.NewSpec(req.Code, theme, nil))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact)
}
