// Package highlight wraps literal, case-insensitive query matches found in the
// text of an HTML tree in <mark class="highlight"> markers, and removes them again.
package highlight

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/coursesearch/internal/document"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// MarkerClass is the class carried by every marker this package creates.
	MarkerClass = "highlight"

	// NoHighlightAttr opts an element and its subtree out of highlighting.
	NoHighlightAttr = "data-no-highlight"
)

// Segment is one span of a split text leaf.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// QuoteLiteral escapes every regexp metacharacter in query
// (. * + ? ^ $ { } ( ) | [ ] \) so it matches itself.
func QuoteLiteral(query string) string {
	return regexp.QuoteMeta(query)
}

// Pattern compiles query as a literal, case-insensitive pattern.
// It returns nil for an empty or whitespace-only query.
func Pattern(query string) *regexp.Regexp {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	// regexp rejects invalid UTF-8 in patterns; the matcher reads invalid
	// bytes in subject text as U+FFFD, so map them the same way here.
	query = strings.ToValidUTF8(query, string(utf8.RuneError))
	re, err := regexp.Compile("(?i)" + QuoteLiteral(query))
	if err != nil {
		return nil
	}
	return re
}

// Split cuts text into alternating plain and matched segments. The segment
// texts concatenate back to text exactly; empty plain segments are omitted.
func Split(text, query string) []Segment {
	return split(text, Pattern(query))
}

func split(text string, re *regexp.Regexp) []Segment {
	if text == "" {
		return nil
	}
	if re == nil {
		return []Segment{{Text: text}}
	}

	var segs []Segment
	last := 0
	for pos := 0; pos <= len(text); {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end == start {
			// Empty match: step forward one byte and keep scanning.
			pos = end + 1
			continue
		}
		if start > last {
			segs = append(segs, Segment{Text: text[last:start]})
		}
		segs = append(segs, Segment{Text: text[start:end], Match: true})
		last = end
		pos = end
	}
	if last < len(text) {
		segs = append(segs, Segment{Text: text[last:]})
	}
	return segs
}

// Fragment renders text as detached nodes: plain text nodes interleaved with
// markers around every match of query.
func Fragment(text, query string) []*html.Node {
	return fragment(split(text, Pattern(query)))
}

func fragment(segs []Segment) []*html.Node {
	nodes := make([]*html.Node, 0, len(segs))
	for _, s := range segs {
		if s.Match {
			nodes = append(nodes, newMarker(s.Text))
		} else {
			nodes = append(nodes, document.Text(s.Text))
		}
	}
	return nodes
}

func newMarker(text string) *html.Node {
	return document.ElementWithText(atom.Mark, text, "class", MarkerClass)
}

// IsMarker reports whether n is a highlight marker.
func IsMarker(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == atom.Mark && document.HasClass(n, MarkerClass)
}

// Count returns the number of markers currently under root.
func Count(root *html.Node) int {
	return len(document.FindAll(root, IsMarker))
}

// Clear replaces every marker under root with a text node holding the
// marker's text, merging it with neighbouring text so the original leaf is
// restored. It returns the number of markers removed.
func Clear(root *html.Node) int {
	if root == nil {
		return 0
	}
	markers := document.FindAll(root, IsMarker)
	if len(markers) == 0 {
		return 0
	}

	parents := make([]*html.Node, 0, len(markers))
	seen := make(map[*html.Node]bool, len(markers))
	for _, m := range markers {
		parent := m.Parent
		if parent == nil {
			continue
		}
		parent.InsertBefore(document.Text(document.TextContent(m)), m)
		parent.RemoveChild(m)
		if !seen[parent] {
			seen[parent] = true
			parents = append(parents, parent)
		}
	}
	for _, p := range parents {
		mergeText(p)
	}
	return len(markers)
}

// mergeText joins runs of adjacent text children into one node.
func mergeText(parent *html.Node) {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			continue
		}
		for next := c.NextSibling; next != nil && next.Type == html.TextNode; next = c.NextSibling {
			c.Data += next.Data
			parent.RemoveChild(next)
		}
	}
}

// Apply clears any previous markers, then wraps every literal,
// case-insensitive occurrence of query in the text leaves under root.
// Leaves inside skip zones are never touched. It returns the number of
// markers created.
func Apply(root *html.Node, query string) int {
	Clear(root)
	re := Pattern(query)
	if root == nil || re == nil || insideSkipZone(root) {
		return 0
	}

	created := 0
	for _, leaf := range leaves(root) {
		if !re.MatchString(leaf.Data) {
			continue
		}
		segs := split(leaf.Data, re)
		parent := leaf.Parent
		for _, n := range fragment(segs) {
			parent.InsertBefore(n, leaf)
		}
		parent.RemoveChild(leaf)
		for _, s := range segs {
			if s.Match {
				created++
			}
		}
	}
	return created
}

// leaves collects, in document order, the non-blank text nodes under root
// that are outside every skip zone. Collection happens before any mutation.
func leaves(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if n.Parent != nil && strings.TrimSpace(n.Data) != "" {
				out = append(out, n)
			}
			return
		case html.ElementNode:
			if skipped(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// skipped reports whether n starts a skip zone.
func skipped(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Textarea, atom.Input, atom.Noscript, atom.Mark:
		return true
	}
	_, ok := document.Attr(n, NoHighlightAttr)
	return ok
}

func insideSkipZone(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && skipped(p) {
			return true
		}
	}
	return false
}
