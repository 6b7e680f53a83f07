// Package format turns the semi-structured text returned by the backend
// (markdown-ish analyses, study guides, role-prefixed dialogues) into a
// display tree the shell can render. Everything here is pure and idempotent.
package format

import "strings"

// NodeKind classifies one display line.
type NodeKind int

const (
	NodeHeader NodeKind = iota
	NodeSubheader
	NodeBullet
	NodeRule
	NodeParagraph
	NodeSpacer
)

// Span is a run of text inside a bullet, bold or plain.
type Span struct {
	Text string
	Bold bool
}

// Node is one classified line of formatted output.
type Node struct {
	Kind  NodeKind
	Text  string
	Spans []Span
}

const (
	boldMarker = "**"
	ruleMarker = "---"
)

var bulletMarkers = []string{"- ", "* ", "• "}

// Parse splits text into lines and classifies each one. Precedence: bold
// header, numbered subheader, bullet, rule, paragraph, spacer.
func Parse(text string) []Node {
	var nodes []Node
	for _, line := range strings.Split(text, "\n") {
		nodes = append(nodes, classify(line))
	}
	return nodes
}

func classify(line string) Node {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return Node{Kind: NodeSpacer}
	case isBoldWrapped(trimmed):
		return Node{Kind: NodeHeader, Text: strings.TrimSuffix(strings.TrimPrefix(trimmed, boldMarker), boldMarker)}
	case isNumberedHeader(trimmed):
		return Node{Kind: NodeSubheader, Text: stripBold(trimmed)}
	case hasBulletMarker(trimmed):
		body := trimBulletMarker(trimmed)
		return Node{Kind: NodeBullet, Text: stripBold(body), Spans: splitBoldSpans(body)}
	case trimmed == ruleMarker:
		return Node{Kind: NodeRule}
	default:
		return Node{Kind: NodeParagraph, Text: stripBold(trimmed)}
	}
}

func isBoldWrapped(line string) bool {
	return strings.HasPrefix(line, boldMarker) &&
		strings.HasSuffix(line, boldMarker) &&
		len(line) > 2*len(boldMarker)
}

// isNumberedHeader matches lines like "1. **Key Concepts**".
func isNumberedHeader(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != '.' {
		return false
	}
	rest := strings.TrimLeft(line[i+1:], " \t")
	return strings.HasPrefix(rest, boldMarker)
}

func hasBulletMarker(line string) bool {
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

func trimBulletMarker(line string) string {
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):])
		}
	}
	return line
}

// splitBoldSpans breaks "term: **bold** rest" into styled runs. Unbalanced
// markers are treated as literal text.
func splitBoldSpans(text string) []Span {
	var spans []Span
	for text != "" {
		start := strings.Index(text, boldMarker)
		if start < 0 {
			spans = append(spans, Span{Text: text})
			break
		}
		end := strings.Index(text[start+len(boldMarker):], boldMarker)
		if end < 0 {
			spans = append(spans, Span{Text: text})
			break
		}
		if start > 0 {
			spans = append(spans, Span{Text: text[:start]})
		}
		bold := text[start+len(boldMarker) : start+len(boldMarker)+end]
		if bold != "" {
			spans = append(spans, Span{Text: bold, Bold: true})
		}
		text = text[start+2*len(boldMarker)+end:]
	}
	return spans
}

func stripBold(text string) string {
	return strings.ReplaceAll(text, boldMarker, "")
}
