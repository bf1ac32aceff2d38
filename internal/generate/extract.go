package generate

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// Output is the structured result extracted from a model completion.
type Output struct {
	Files         map[string]string
	Code          string // files joined in filename order, for single-blob consumers
	Explanation   string
	Resources     []string
	EstimatedCost string
	FileHierarchy string
}

// Defaults used when the model omits metadata.
const (
	defaultExplanation = "No explanation provided."
	defaultCost        = "Unknown"
)

var fencedBlock = regexp.MustCompile("(?s)```([a-zA-Z]*)(?::([^\n`]+))?\n(.*?)```")

type metadata struct {
	Explanation   string   `json:"explanation"`
	Resources     []string `json:"resources"`
	EstimatedCost string   `json:"estimated_cost"`
	FileHierarchy string   `json:"file_hierarchy"`
}

// Extract parses a raw completion into files and metadata. It is tolerant:
// missing metadata falls back to defaults, and a completion with no tagged
// file blocks is treated as a single main.tf.
func Extract(raw string) Output {
	out := Output{
		Files:         make(map[string]string),
		Explanation:   defaultExplanation,
		EstimatedCost: defaultCost,
	}

	var untagged []string
	for _, m := range fencedBlock.FindAllStringSubmatch(raw, -1) {
		lang, filename, body := strings.ToLower(m[1]), strings.TrimSpace(m[2]), m[3]
		switch {
		case lang == "json":
			var meta metadata
			if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &meta); err == nil {
				applyMetadata(&out, meta)
			}
		case filename != "":
			out.Files[filename] = strings.TrimSpace(body)
		case lang == "terraform" || lang == "hcl" || lang == "":
			untagged = append(untagged, strings.TrimSpace(body))
		}
	}

	// Single-block fallback: a bare terraform block becomes main.tf.
	if len(out.Files) == 0 {
		switch {
		case len(untagged) > 0:
			out.Files["main.tf"] = strings.Join(untagged, "\n\n")
		case strings.TrimSpace(raw) != "":
			out.Files["main.tf"] = strings.TrimSpace(raw)
		}
	}

	names := make([]string, 0, len(out.Files))
	for name := range out.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	var blob strings.Builder
	for i, name := range names {
		if i > 0 {
			blob.WriteString("\n\n")
		}
		if len(names) > 1 {
			blob.WriteString("# " + name + "\n")
		}
		blob.WriteString(out.Files[name])
	}
	out.Code = blob.String()

	if out.FileHierarchy == "" && len(names) > 0 {
		out.FileHierarchy = renderHierarchy(names)
	}
	return out
}

func applyMetadata(out *Output, meta metadata) {
	if s := strings.TrimSpace(meta.Explanation); s != "" {
		out.Explanation = s
	}
	if len(meta.Resources) > 0 {
		out.Resources = meta.Resources
	}
	if s := strings.TrimSpace(meta.EstimatedCost); s != "" {
		out.EstimatedCost = s
	}
	if s := strings.TrimSpace(meta.FileHierarchy); s != "" {
		out.FileHierarchy = s
	}
}

// renderHierarchy draws the project tree shown in the dashboard sidebar.
func renderHierarchy(names []string) string {
	var b strings.Builder
	b.WriteString("terraform/\n")
	for i, name := range names {
		branch := "├── "
		if i == len(names)-1 {
			branch = "└── "
		}
		b.WriteString(branch + name + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
