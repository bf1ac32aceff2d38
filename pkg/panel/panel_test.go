package panel

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
	"github.com/MalanSathya/terraformcoder-ai/pkg/render"
	"github.com/MalanSathya/terraformcoder-ai/pkg/sharelink"
)

func waitForState(t *testing.T, p *Panel, state render.State) render.Result {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r := p.RenderResult(); r.State == state {
			return r
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %q, got %+v", state, p.RenderResult())
	return render.Result{}
}

func TestGraphSurvivesRenderFailure(t *testing.T) {
	engine := render.EngineFunc(func(ctx context.Context, spec diagram.Spec) ([]byte, error) {
		return nil, errors.New(errors.ErrCodeRenderFailed, "renderer down")
	})
	p := New(render.NewController(engine, nil, nil), sharelink.NewCodec(""))

	p.SetPayload(context.Background(), diagram.Payload{
		MermaidSyntax: "graph TD\nweb[Web Server] --> db[Database]",
	}, diagram.ThemeDark)

	waitForState(t, p, render.StateFailed)

	g := p.Graph()
	if len(g.Components) != 2 {
		t.Fatalf("Components = %d, want 2 despite render failure", len(g.Components))
	}
	links := p.ShareLinks()
	if !strings.Contains(links.EditURL, "#pako:") {
		t.Errorf("EditURL = %q, want pako token", links.EditURL)
	}
	if len(links.ExportURLs) != len(sharelink.ExportFormats) {
		t.Errorf("ExportURLs = %d formats, want %d", len(links.ExportURLs), len(sharelink.ExportFormats))
	}
}

func TestSetPayloadSynthesizesTextFromComponents(t *testing.T) {
	var rendered string
	engine := render.EngineFunc(func(ctx context.Context, spec diagram.Spec) ([]byte, error) {
		rendered = spec.RawText
		return []byte("<svg/>"), nil
	})
	p := New(render.NewController(engine, nil, nil), sharelink.NewCodec(""))

	p.SetPayload(context.Background(), diagram.Payload{
		Components: []string{"EC2 Instance", "RDS Database"},
	}, diagram.ThemeLight)

	waitForState(t, p, render.StateRendered)

	if !strings.HasPrefix(rendered, "graph TD") {
		t.Errorf("synthesized text = %q, want graph TD header", rendered)
	}
	if !strings.Contains(rendered, "EC2 Instance") || !strings.Contains(rendered, "RDS Database") {
		t.Errorf("synthesized text missing components: %q", rendered)
	}
	if p.RawText() != rendered {
		t.Errorf("RawText = %q, want %q", p.RawText(), rendered)
	}
}

func TestNewPayloadSupersedesPrevious(t *testing.T) {
	engine := render.EngineFunc(func(ctx context.Context, spec diagram.Spec) ([]byte, error) {
		return []byte("<svg>" + spec.RawText + "</svg>"), nil
	})
	p := New(render.NewController(engine, nil, nil), sharelink.NewCodec(""))

	p.SetPayload(context.Background(), diagram.Payload{MermaidSyntax: "graph TD\nA[First]"}, diagram.ThemeDark)
	waitForState(t, p, render.StateRendered)

	second := diagram.NewSpec("graph TD\nB[Second]", diagram.ThemeDark, nil)
	p.SetPayload(context.Background(), diagram.Payload{MermaidSyntax: second.RawText}, diagram.ThemeDark)

	var r render.Result
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r = p.RenderResult(); r.State == render.StateRendered && r.Fingerprint == second.Fingerprint() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if !strings.Contains(string(r.Artifact), "Second") {
		t.Errorf("Artifact = %q, want result for superseding payload", r.Artifact)
	}
	if g := p.Graph(); len(g.Components) != 1 || g.Components[0].Label != "Second" {
		t.Errorf("Graph = %+v, want only Second", g.Components)
	}
}
