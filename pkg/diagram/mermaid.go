package diagram

import (
	"bytes"
	"fmt"
	"strings"
)

// Generate renders a graph back into flowchart-style diagram text. It is
// the inverse direction of [Parse], used when the backend supplies only a
// structured component list and no raw syntax. Components are assigned
// stable sequential identifiers; connections reference components by label
// when one matches, otherwise the reference is emitted as written.
func Generate(g Graph) string {
	var b bytes.Buffer
	b.WriteString("graph TD\n")

	ids := make(map[string]string, len(g.Components))
	for i, c := range g.Components {
		id := fmt.Sprintf("n%d", i)
		ids[c.Label] = id
		b.WriteString(fmt.Sprintf("    %s[%s]\n", id, sanitizeLabel(c.Label)))
	}

	for _, conn := range g.Connections {
		from := conn.From
		if id, ok := ids[from]; ok {
			from = id
		}
		to := conn.To
		if id, ok := ids[to]; ok {
			to = id
		}
		if conn.Kind != "" && conn.Kind != KindOther {
			b.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", from, conn.Kind, to))
		} else {
			b.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
		}
	}

	return b.String()
}

// sanitizeLabel strips characters that would break the bracket syntax.
func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "[", "(")
	label = strings.ReplaceAll(label, "]", ")")
	return label
}
