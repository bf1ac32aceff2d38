package diagram

// Payload is the diagram portion of a generation response, consumed as-is
// from the generation backend. All fields are optional; the backend may
// supply only the raw syntax, only the structured graph, or both.
type Payload struct {
	MermaidSyntax string              `json:"diagram_mermaid_syntax,omitempty" bson:"diagram_mermaid_syntax,omitempty"`
	Description   string              `json:"diagram_description,omitempty" bson:"diagram_description,omitempty"`
	Components    []string            `json:"components,omitempty" bson:"components,omitempty"`
	Connections   []PayloadConnection `json:"connections,omitempty" bson:"connections,omitempty"`
	ChartURL      string              `json:"mermaid_chart_url,omitempty" bson:"mermaid_chart_url,omitempty"`
}

// PayloadConnection is the backend's wire shape for a connection.
type PayloadConnection struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
	Type string `json:"type" bson:"type"`
}

// Graph returns the component graph for display. Explicit components and
// connections supplied by the backend take precedence; the local parser is
// the fallback when only raw syntax is available.
func (p Payload) Graph() Graph {
	if len(p.Components) == 0 && len(p.Connections) == 0 {
		return Parse(p.MermaidSyntax)
	}

	g := Graph{
		Components:  make([]Component, 0, len(p.Components)),
		Connections: make([]Connection, 0, len(p.Connections)),
	}
	seen := make(map[string]bool)
	for _, label := range p.Components {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		g.Components = append(g.Components, Component{
			Label:    label,
			Category: InferCategory(label),
		})
	}
	for _, c := range p.Connections {
		kind := Kind(c.Type)
		switch kind {
		case KindNetwork, KindData, KindTraffic:
		default:
			kind = KindOther
		}
		g.Connections = append(g.Connections, Connection{From: c.From, To: c.To, Kind: kind})
	}
	return g
}
