// Package panel binds a render controller to one diagram payload from the
// generation backend. It is compositional glue: parsing and rendering run
// as independent pipelines over the same spec, so the component graph stays
// available even when visual rendering fails.
package panel

import (
	"context"
	"sync"

	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
	"github.com/MalanSathya/terraformcoder-ai/pkg/render"
	"github.com/MalanSathya/terraformcoder-ai/pkg/sharelink"
)

// Links are the codec-derived actions for the current diagram. They are
// always constructible, independent of render outcome.
type Links struct {
	EditURL    string
	ExportURLs map[string]string
	Degraded   bool // styling was dropped from the share token
}

// Panel owns the display state for one diagram at a time. A new payload
// supersedes the previous one entirely.
type Panel struct {
	controller *render.Controller
	codec      *sharelink.Codec

	mu      sync.Mutex
	payload diagram.Payload
	spec    diagram.Spec
	graph   diagram.Graph
}

// New creates a panel over the given controller and codec.
func New(controller *render.Controller, codec *sharelink.Codec) *Panel {
	return &Panel{controller: controller, codec: codec}
}

// SetPayload adopts a new diagram payload: the graph is recomputed
// immediately (parse never blocks on rendering) and a render is submitted
// for the derived spec. When the backend supplied no raw syntax, the text
// is synthesized from its structured component list.
func (p *Panel) SetPayload(ctx context.Context, payload diagram.Payload, theme diagram.Theme) {
	graph := payload.Graph()
	rawText := payload.MermaidSyntax
	if rawText == "" {
		rawText = diagram.Generate(graph)
	}
	spec := diagram.NewSpec(rawText, theme, nil)

	p.mu.Lock()
	p.payload = payload
	p.spec = spec
	p.graph = graph
	p.mu.Unlock()

	p.controller.Submit(ctx, spec)
}

// Graph returns the parsed component graph for the current payload.
func (p *Panel) Graph() diagram.Graph {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.graph
}

// RawText returns the diagram text of the current spec, for the copy
// action. Available regardless of render state.
func (p *Panel) RawText() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.spec.RawText
}

// RenderResult returns the controller's current state.
func (p *Panel) RenderResult() render.Result {
	return p.controller.Snapshot()
}

// Retry re-issues the render for the current spec.
func (p *Panel) Retry(ctx context.Context) {
	p.controller.Retry(ctx)
}

// Cancel aborts any in-flight render.
func (p *Panel) Cancel() {
	p.controller.Cancel()
}

// ShareLinks builds the edit and export URLs for the current spec. It is
// pure and always succeeds for the supported formats; Degraded reports
// whether theme fidelity was lost in encoding.
func (p *Panel) ShareLinks() Links {
	p.mu.Lock()
	spec := p.spec
	p.mu.Unlock()

	tok, _ := p.codec.Encode(spec)
	links := Links{
		EditURL:    p.codec.EditURL(tok),
		ExportURLs: make(map[string]string, len(sharelink.ExportFormats)),
		Degraded:   tok.Degraded,
	}
	for _, format := range sharelink.ExportFormats {
		if url, err := p.codec.ExportURL(tok, format); err == nil {
			links.ExportURLs[format] = url
		}
	}
	return links
}
