package diagram

import (
	"reflect"
	"testing"
)

func TestPayloadGraphPrefersExplicitFields(t *testing.T) {
	p := Payload{
		MermaidSyntax: "graph TD\nignored[Ignored] --> also[Also Ignored]",
		Components:    []string{"Web Server", "Database"},
		Connections: []PayloadConnection{
			{From: "Web Server", To: "Database", Type: "data"},
		},
	}

	g := p.Graph()
	labels := make([]string, len(g.Components))
	for i, c := range g.Components {
		labels[i] = c.Label
	}
	if !reflect.DeepEqual(labels, []string{"Web Server", "Database"}) {
		t.Errorf("labels = %v, explicit components must win over parsed syntax", labels)
	}
	want := Connection{From: "Web Server", To: "Database", Kind: KindData}
	if len(g.Connections) != 1 || g.Connections[0] != want {
		t.Errorf("Connections = %v, want [%+v]", g.Connections, want)
	}
}

func TestPayloadGraphFallsBackToParser(t *testing.T) {
	p := Payload{MermaidSyntax: "graph TD\nweb[Web Server] --> db[Database]"}
	g := p.Graph()
	if !g.HasComponent("Web Server") || !g.HasComponent("Database") {
		t.Errorf("Components = %v, want parsed components", g.Components)
	}
	if len(g.Connections) != 1 {
		t.Errorf("Connections = %v, want 1", g.Connections)
	}
}

func TestPayloadGraphNormalizesUnknownKinds(t *testing.T) {
	p := Payload{
		Components: []string{"A", "B"},
		Connections: []PayloadConnection{
			{From: "A", To: "B", Type: "quantum"},
		},
	}
	g := p.Graph()
	if g.Connections[0].Kind != KindOther {
		t.Errorf("Kind = %v, want other for unknown type", g.Connections[0].Kind)
	}
}

func TestPayloadGraphInfersCategories(t *testing.T) {
	p := Payload{Components: []string{"Load Balancer"}}
	g := p.Graph()
	if g.Components[0].Category != CategoryLoadBalancer {
		t.Errorf("Category = %v, want loadbalancer", g.Components[0].Category)
	}
}
