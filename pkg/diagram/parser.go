package diagram

import (
	"regexp"
	"strings"
)

var (
	// edgeMarker matches a directed-edge arrow: a run of -, . or =
	// immediately followed by >. Covers -->, -.->, ==> and longer runs.
	edgeMarker = regexp.MustCompile(`[-.=]+>`)

	// nodeLabel matches an id[Label] declaration.
	nodeLabel = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_-]*)\[([^\]]*)\]`)

	// edgeText matches the punctuation run that starts an inline edge label
	// (the "--" in `A -- label --> B`).
	edgeText = regexp.MustCompile(`[-.=]{2,}`)

	bareIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)
)

// directiveHeads are line-leading keywords that declare diagram structure or
// styling rather than components. Lines starting with one of these are
// skipped entirely.
var directiveHeads = map[string]bool{
	"graph":     true,
	"flowchart": true,
	"subgraph":  true,
	"end":       true,
	"classdef":  true,
	"class":     true,
	"style":     true,
	"linkstyle": true,
	"click":     true,
	"direction": true,
}

// directionTokens are layout-direction keywords that must not be mistaken
// for component declarations.
var directionTokens = map[string]bool{
	"td": true,
	"tb": true,
	"lr": true,
	"rl": true,
	"bt": true,
}

// Parse converts raw diagram text into a [Graph]. It is total: any input,
// including the empty string, binary garbage, and text with unbalanced
// brackets, produces a best-effort result and never an error. Parsing is
// pure; the same input always yields the same graph.
func Parse(rawText string) Graph {
	g := Graph{
		Components:  []Component{},
		Connections: []Connection{},
		Aliases:     map[string]string{},
	}
	seen := make(map[string]bool)

	addComponent := func(id, label string) {
		label = strings.TrimSpace(label)
		if label == "" {
			return
		}
		if id != "" {
			g.Aliases[id] = label
		}
		if seen[label] {
			return
		}
		seen[label] = true
		g.Components = append(g.Components, Component{
			Label:    label,
			Category: InferCategory(label),
		})
	}

	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ";"))
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}

		head := strings.ToLower(firstField(line))
		if directiveHeads[head] {
			continue
		}

		// Bracketed declarations register components regardless of whether
		// the line is also an edge.
		for _, m := range nodeLabel.FindAllStringSubmatch(line, -1) {
			addComponent(m[1], strings.Trim(m[2], `"' `))
		}

		if loc := edgeMarker.FindStringIndex(line); loc != nil {
			from, to := edgeEndpoints(line, loc)
			if from != "" && to != "" {
				g.Connections = append(g.Connections, Connection{
					From: from,
					To:   to,
					Kind: InferKind(line),
				})
			}
			continue
		}

		if bareIdent.MatchString(line) && !directionTokens[strings.ToLower(line)] {
			addComponent(line, line)
		}
	}

	return g
}

// edgeEndpoints extracts the from/to identifiers around the edge marker at
// loc. Either side may be empty when the line is malformed; callers drop
// such edges rather than failing.
func edgeEndpoints(line string, loc []int) (from, to string) {
	left := line[:loc[0]]
	right := line[loc[1]:]

	// Cut an inline edge label (`A -- label -->`) so the label text is not
	// mistaken for the source identifier.
	if cut := edgeText.FindStringIndex(left); cut != nil {
		left = left[:cut[0]]
	}

	if m := nodeLabel.FindAllStringSubmatch(left, -1); m != nil {
		from = m[len(m)-1][1]
	} else {
		from = lastIdent(left)
	}

	right = strings.TrimSpace(right)
	// Skip a |label| pipe section after the arrow.
	if strings.HasPrefix(right, "|") {
		if end := strings.Index(right[1:], "|"); end >= 0 {
			right = right[end+2:]
		}
	}
	if m := nodeLabel.FindStringSubmatch(right); m != nil && strings.HasPrefix(strings.TrimSpace(right), m[1]) {
		to = m[1]
	} else {
		to = firstIdent(right)
	}

	return from, to
}

func isIdentRune(r byte) bool {
	return r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// lastIdent returns the trailing identifier token of s, if any.
func lastIdent(s string) string {
	end := len(s)
	for end > 0 && !isIdentRune(s[end-1]) {
		end--
	}
	start := end
	for start > 0 && isIdentRune(s[start-1]) {
		start--
	}
	return s[start:end]
}

// firstIdent returns the leading identifier token of s, if any.
func firstIdent(s string) string {
	start := 0
	for start < len(s) && !isIdentRune(s[start]) {
		start++
	}
	end := start
	for end < len(s) && isIdentRune(s[end]) {
		end++
	}
	return s[start:end]
}

func firstField(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return s
}
