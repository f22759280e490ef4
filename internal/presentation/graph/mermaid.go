package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mulesoft-labs/twiml/internal/flow"
)

// edge is one callback reference from a flow to the target it names.
type edge struct {
	from, to string
	label    string
}

// GenerateMermaid produces a Mermaid flowchart of a flow set's call graph.
// It applies semantic styling:
// - Flows that gather digits: [/Parallelogram/]
// - Flows that record audio: [[Subroutine]]
// - Everything else: [Rectangle]
// Callback targets missing from the set get a placeholder node and a dashed
// edge, so a dangling action stands out on the diagram.
func GenerateMermaid(set *flow.Set) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	names := set.Names()
	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}

	var edges []edge
	var missing []string
	seenMissing := make(map[string]bool)
	for _, name := range names {
		doc, _ := set.Lookup(name)

		// Node shape based on what the flow does
		opener, closer := "[", "]"
		switch {
		case usesVerb(doc.Steps, "gather"):
			opener, closer = "[/", "/]"
		case usesVerb(doc.Steps, "record"):
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(name), opener, name, closer))

		for _, e := range collectEdges(name, doc.Steps) {
			edges = append(edges, e)
			if !known[e.to] && !seenMissing[e.to] {
				seenMissing[e.to] = true
				missing = append(missing, e.to)
			}
		}
	}

	sort.Strings(missing)
	for _, name := range missing {
		sb.WriteString(fmt.Sprintf("    %s[\"%s?\"]\n", sanitizeMermaidID(name), name))
	}

	for _, e := range edges {
		arrow := fmt.Sprintf("-- \"%s\" -->", e.label)
		if !known[e.to] {
			arrow = fmt.Sprintf("-. \"%s\" .->", e.label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.from), arrow, sanitizeMermaidID(e.to)))
	}

	if len(missing) > 0 {
		sb.WriteString("\n    %% Unresolved targets\n")
		// Force black text (color:#000) for high contrast regardless of theme
		sb.WriteString("    classDef missing fill:#fee2e2,stroke:#b91c1c,stroke-width:2px,color:#000;\n")
		for _, name := range missing {
			sb.WriteString(fmt.Sprintf("    class %s missing;\n", sanitizeMermaidID(name)))
		}
	}

	return sb.String()
}

// usesVerb reports whether any step in the tree invokes the verb.
func usesVerb(steps []flow.Step, verb string) bool {
	for _, s := range steps {
		if strings.EqualFold(s.Verb, verb) {
			return true
		}
		if usesVerb(s.Steps, verb) {
			return true
		}
	}
	return false
}

// collectEdges walks the step tree and extracts every callback reference.
func collectEdges(from string, steps []flow.Step) []edge {
	var out []edge
	for _, s := range steps {
		verb := strings.ToLower(s.Verb)
		if target, ok := stringParam(s, "action"); ok {
			out = append(out, edge{from: from, to: target, label: verb})
		}
		if target, ok := stringParam(s, "transcribe_callback"); ok {
			out = append(out, edge{from: from, to: target, label: "transcribe"})
		}
		if verb == "sms" {
			if target, ok := stringParam(s, "status"); ok {
				out = append(out, edge{from: from, to: target, label: "status"})
			}
		}
		out = append(out, collectEdges(from, s.Steps)...)
	}
	return out
}

func stringParam(s flow.Step, key string) (string, bool) {
	v, ok := s.Params[key].(string)
	return v, ok && v != ""
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
