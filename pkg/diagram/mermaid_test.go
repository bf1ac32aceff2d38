package diagram

import (
	"strings"
	"testing"
)

func TestGenerateRoundTripsThroughParse(t *testing.T) {
	g := Graph{
		Components: []Component{
			{Label: "Web Server", Category: CategoryCompute},
			{Label: "Database", Category: CategoryDatabase},
		},
		Connections: []Connection{
			{From: "Web Server", To: "Database", Kind: KindOther},
		},
	}

	text := Generate(g)
	parsed := Parse(text)

	if !parsed.HasComponent("Web Server") || !parsed.HasComponent("Database") {
		t.Errorf("round-trip lost components: %v", parsed.Components)
	}
	if len(parsed.Connections) != 1 {
		t.Errorf("round-trip connections = %v, want 1", parsed.Connections)
	}
}

func TestGenerateKindLabels(t *testing.T) {
	g := Graph{
		Components: []Component{{Label: "A"}, {Label: "B"}},
		Connections: []Connection{
			{From: "A", To: "B", Kind: KindTraffic},
		},
	}
	text := Generate(g)
	if !strings.Contains(text, "|traffic|") {
		t.Errorf("Generate() = %q, want traffic label on edge", text)
	}
}

func TestGenerateSanitizesBrackets(t *testing.T) {
	g := Graph{Components: []Component{{Label: "Queue [primary]"}}}
	text := Generate(g)
	if strings.Contains(text, "[primary]") {
		t.Errorf("Generate() = %q, brackets in labels must be sanitized", text)
	}
	// The output must still parse without losing the component.
	parsed := Parse(text)
	if len(parsed.Components) != 1 {
		t.Errorf("sanitized output parsed to %v", parsed.Components)
	}
}
