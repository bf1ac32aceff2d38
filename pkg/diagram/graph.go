package diagram

import "strings"

// Category classifies a component by the infrastructure role suggested by
// its label. The classification is advisory and display-only; it never
// influences parsing or rendering.
type Category string

// Component categories.
const (
	CategoryCompute      Category = "compute"
	CategoryNetwork      Category = "network"
	CategoryDatabase     Category = "database"
	CategoryLoadBalancer Category = "loadbalancer"
	CategoryStorage      Category = "storage"
	CategorySecurity     Category = "security"
	CategoryOther        Category = "other"
)

// Kind classifies a connection between two components.
type Kind string

// Connection kinds.
const (
	KindNetwork Kind = "network"
	KindData    Kind = "data"
	KindTraffic Kind = "traffic"
	KindOther   Kind = "other"
)

// Component is a node of the parsed diagram graph.
type Component struct {
	Label    string   `json:"label"`
	Category Category `json:"category"`
}

// Connection is a typed directed edge between two components. From and To
// carry the identifiers as written in the diagram text; they are not
// required to resolve to declared components (forward and partial
// declarations are legal in the grammar).
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind Kind   `json:"kind"`
}

// Graph is the structured result of parsing diagram text. Components form a
// set (deduplicated by label, first occurrence wins); connection order is
// the order of appearance in the text, which consumers use for display.
type Graph struct {
	Components  []Component  `json:"components"`
	Connections []Connection `json:"connections"`

	// Aliases maps declaration identifiers to display labels (the "web" in
	// `web[Web Server]`). Connections reference identifiers as written;
	// consumers use this to resolve them to component labels. Not part of
	// the wire model.
	Aliases map[string]string `json:"-"`
}

// Resolve maps a connection endpoint to its component label when the
// endpoint is a declaration identifier, otherwise returns it unchanged.
func (g Graph) Resolve(endpoint string) string {
	if label, ok := g.Aliases[endpoint]; ok {
		return label
	}
	return endpoint
}

// HasComponent reports whether a component with the given label exists.
func (g Graph) HasComponent(label string) bool {
	for _, c := range g.Components {
		if c.Label == label {
			return true
		}
	}
	return false
}

// categoryKeywords maps label words to categories. Checked in a fixed order
// so multi-role labels resolve deterministically (load balancer beats
// compute, security beats network).
var categoryChecks = []struct {
	category Category
	words    []string
}{
	{CategoryLoadBalancer, []string{"balancer", "lb", "alb", "elb", "nlb"}},
	{CategorySecurity, []string{"security", "firewall", "waf", "iam", "kms", "auth", "secret", "secrets"}},
	{CategoryDatabase, []string{"database", "db", "rds", "dynamodb", "postgres", "postgresql", "mysql", "mongodb", "redis", "aurora", "sql"}},
	{CategoryStorage, []string{"storage", "s3", "bucket", "volume", "disk", "efs", "blob", "archive"}},
	{CategoryNetwork, []string{"network", "vpc", "subnet", "gateway", "router", "dns", "cdn", "cloudfront", "route53"}},
	{CategoryCompute, []string{"server", "ec2", "instance", "vm", "compute", "lambda", "function", "container", "ecs", "eks", "kubernetes", "node", "worker", "app", "service", "api"}},
}

// InferCategory guesses a component category from its label. Matching is
// word-based on the lowercased label so "Database" never matches "data".
func InferCategory(label string) Category {
	words := splitWords(label)
	for _, check := range categoryChecks {
		for _, w := range check.words {
			if words[w] {
				return check.category
			}
		}
	}
	return CategoryOther
}

// kindChecks maps edge-line words to connection kinds. Word-based for the
// same reason as categories: the label "Database" must not classify an edge
// as a data connection.
var kindChecks = []struct {
	kind  Kind
	words []string
}{
	{KindNetwork, []string{"network", "vpn", "peering", "dns", "tcp", "udp"}},
	{KindData, []string{"data", "query", "queries", "sync", "replication", "etl", "stream"}},
	{KindTraffic, []string{"traffic", "http", "https", "request", "requests", "routes"}},
}

// InferKind guesses a connection kind from the full edge line.
func InferKind(line string) Kind {
	words := splitWords(line)
	for _, check := range kindChecks {
		for _, w := range check.words {
			if words[w] {
				return check.kind
			}
		}
	}
	return KindOther
}

// splitWords lowercases s and splits it into a word set on any
// non-alphanumeric boundary.
func splitWords(s string) map[string]bool {
	words := make(map[string]bool)
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			words[b.String()] = true
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}
