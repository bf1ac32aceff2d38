// Package generate turns infrastructure descriptions into Terraform code
// and the diagram payload the dashboard renders.
package generate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/MalanSathya/terraformcoder-ai/internal/store"
	"github.com/MalanSathya/terraformcoder-ai/pkg/cache"
	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
	"github.com/MalanSathya/terraformcoder-ai/pkg/sharelink"
)

// DefaultResponseTTL is how long identical requests are served from cache.
const DefaultResponseTTL = time.Hour

// Request is one generation request.
type Request struct {
	UserID      string
	Description string
	Provider    string
}

// Response is the full generation result, including the diagram payload.
type Response struct {
	ID            string            `json:"id"`
	Code          string            `json:"terraform_code"`
	Files         map[string]string `json:"files,omitempty"`
	Explanation   string            `json:"explanation"`
	Resources     []string          `json:"resources"`
	EstimatedCost string            `json:"estimated_cost"`
	FileHierarchy string            `json:"file_hierarchy,omitempty"`
	Diagram       diagram.Payload   `json:"diagram"`
	Cached        bool              `json:"cached"`
}

// Service orchestrates completion, extraction, diagram synthesis, response
// caching and history persistence.
type Service struct {
	completer Completer
	cache     cache.Cache
	store     store.Store
	codec     *sharelink.Codec
	logger    *log.Logger
	ttl       time.Duration
}

// NewService wires the generation pipeline. A nil cache disables response
// caching; a nil store disables history.
func NewService(completer Completer, c cache.Cache, s store.Store, codec *sharelink.Codec, logger *log.Logger) *Service {
	if c == nil {
		c = cache.NewNullCache()
	}
	if codec == nil {
		codec = sharelink.NewCodec("")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		completer: completer,
		cache:     c,
		store:     s,
		codec:     codec,
		logger:    logger,
		ttl:       DefaultResponseTTL,
	}
}

// Generate runs one request end to end. Identical description/provider
// pairs are answered from cache without calling the model.
func (s *Service) Generate(ctx context.Context, req Request) (Response, error) {
	if err := errors.ValidateDescription(req.Description); err != nil {
		return Response{}, err
	}
	if err := errors.ValidateProvider(req.Provider); err != nil {
		return Response{}, err
	}

	key := cache.GenerationKey(req.Description, req.Provider)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var resp Response
		if err := json.Unmarshal(data, &resp); err == nil {
			resp.Cached = true
			s.logger.Debug("generation served from cache", "key", key[:24])
			s.record(ctx, req, resp)
			return resp, nil
		}
	}

	raw, err := s.completer.Complete(ctx, systemPrompt, userPrompt(req.Description, req.Provider))
	if err != nil {
		return Response{}, err
	}

	out := Extract(raw)
	if out.Code == "" {
		return Response{}, errors.New(errors.ErrCodeGenerationFailed, "model returned no code")
	}

	resp := Response{
		ID:            uuid.NewString(),
		Code:          out.Code,
		Files:         out.Files,
		Explanation:   out.Explanation,
		Resources:     out.Resources,
		EstimatedCost: out.EstimatedCost,
		FileHierarchy: out.FileHierarchy,
		Diagram:       s.diagramPayload(req.Description, out.Resources),
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("failed to cache generation", "err", err)
		}
	}

	s.record(ctx, req, resp)
	return resp, nil
}

// record appends the result to the user's history. History failures are
// logged, not surfaced; the generation itself already succeeded.
func (s *Service) record(ctx context.Context, req Request, resp Response) {
	if s.store == nil || req.UserID == "" {
		return
	}
	g := store.Generation{
		ID:            resp.ID,
		UserID:        req.UserID,
		Description:   req.Description,
		Provider:      req.Provider,
		Code:          resp.Code,
		Explanation:   resp.Explanation,
		Resources:     resp.Resources,
		EstimatedCost: resp.EstimatedCost,
		FileHierarchy: resp.FileHierarchy,
		Diagram:       resp.Diagram,
		CreatedAt:     time.Now().UTC(),
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if err := s.store.SaveGeneration(ctx, g); err != nil {
		s.logger.Warn("failed to save generation history", "err", err)
	}
}

// diagramPayload synthesizes the panel payload from the extracted resource
// list: a layered chain of components plus the derived diagram text and a
// live-editor link.
func (s *Service) diagramPayload(description string, resources []string) diagram.Payload {
	g := diagram.Graph{
		Components:  make([]diagram.Component, 0, len(resources)),
		Connections: make([]diagram.Connection, 0),
	}
	seen := make(map[string]bool)
	for _, label := range resources {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		g.Components = append(g.Components, diagram.Component{
			Label:    label,
			Category: diagram.InferCategory(label),
		})
	}
	for i := 1; i < len(g.Components); i++ {
		from, to := g.Components[i-1].Label, g.Components[i].Label
		g.Connections = append(g.Connections, diagram.Connection{
			From: from,
			To:   to,
			Kind: diagram.InferKind(from + " " + to),
		})
	}

	payload := diagram.Payload{
		MermaidSyntax: diagram.Generate(g),
		Description:   description,
		Components:    resources,
	}
	for _, c := range g.Connections {
		payload.Connections = append(payload.Connections, diagram.PayloadConnection{
			From: c.From, To: c.To, Type: string(c.Kind),
		})
	}

	tok, _ := s.codec.Encode(diagram.NewSpec(payload.MermaidSyntax, diagram.ThemeDark, nil))
	payload.ChartURL = s.codec.EditURL(tok)
	return payload
}
