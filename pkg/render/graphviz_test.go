package render

import (
	"context"
	"strings"
	"testing"

	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
)

func TestToDOT(t *testing.T) {
	g := diagram.Parse("graph TD\nweb[Web Server] --> db[Database]\ncache[Redis]")
	dot := ToDOT(g, diagram.ThemeLight)

	for _, want := range []string{
		"digraph G {",
		`"Web Server"`,
		`"Database"`,
		`"Redis"`,
		`"Web Server" -> "Database";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDanglingEndpointsEmitted(t *testing.T) {
	g := diagram.Parse("x --> y")
	dot := ToDOT(g, diagram.ThemeDark)
	if !strings.Contains(dot, `"x" -> "y";`) {
		t.Errorf("DOT missing dangling edge:\n%s", dot)
	}
	// Undeclared endpoints become plain nodes rather than disappearing.
	if !strings.Contains(dot, `"x" [`) || !strings.Contains(dot, `"y" [`) {
		t.Errorf("DOT missing dangling endpoint nodes:\n%s", dot)
	}
}

func TestToDOTEdgeKindLabels(t *testing.T) {
	g := diagram.Parse("a -->|http traffic| b")
	dot := ToDOT(g, diagram.ThemeLight)
	if !strings.Contains(dot, `label="traffic"`) {
		t.Errorf("DOT missing kind label:\n%s", dot)
	}
}

func TestToDOTThemeBackground(t *testing.T) {
	g := diagram.Parse("a --> b")
	dark := ToDOT(g, diagram.ThemeDark)
	light := ToDOT(g, diagram.ThemeLight)
	if dark == light {
		t.Error("theme must affect DOT output")
	}
	if !strings.Contains(light, `bgcolor="transparent"`) {
		t.Errorf("light DOT missing transparent background:\n%s", light)
	}
}

func TestGraphvizEngineRejectsEmptyDiagram(t *testing.T) {
	engine := NewGraphvizEngine()
	_, err := engine.Render(context.Background(), diagram.NewSpec("", diagram.ThemeDark, nil))
	if err == nil {
		t.Fatal("Render(empty) should fail")
	}
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("error code = %v, want RENDER_FAILED", errors.GetCode(err))
	}
}
