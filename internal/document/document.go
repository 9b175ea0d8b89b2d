package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page that search sessions operate on.
type Document struct {
	Title string     // Page title (from <title> or filename)
	Root  *html.Node // Document node returned by html.Parse
}

// New returns an empty document with the given title.
func New(title string) *Document {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := Element(atom.Html)
	head := Element(atom.Head)
	titleEl := Element(atom.Title)
	if title != "" {
		titleEl.AppendChild(Text(title))
	}
	head.AppendChild(titleEl)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(Element(atom.Body))
	root.AppendChild(htmlEl)

	return &Document{Title: title, Root: root}
}

// Parse reads an HTML document. The title falls back to the given value when
// the markup has no <title>.
func Parse(r io.Reader, fallbackTitle string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	d := &Document{Title: fallbackTitle, Root: root}
	if t := Find(root, func(n *html.Node) bool { return n.DataAtom == atom.Title }); t != nil {
		if title := strings.TrimSpace(TextContent(t)); title != "" {
			d.Title = title
		}
	}
	return d, nil
}

// Body returns the <body> element, or nil if the tree has none.
func (d *Document) Body() *html.Node {
	if d == nil || d.Root == nil {
		return nil
	}
	return Find(d.Root, func(n *html.Node) bool { return n.DataAtom == atom.Body })
}

// Render writes the serialized document.
func (d *Document) Render(w io.Writer) error {
	if d == nil || d.Root == nil {
		return nil
	}
	return html.Render(w, d.Root)
}

// String renders the document into a string. Render errors yield "".
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Find returns the first node in document order for which match is true.
func Find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := Find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in document order for which match is true.
func FindAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

// TextContent concatenates all descendant text nodes without trimming.
func TextContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	if n != nil {
		extract(n)
	}
	return buf.String()
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr drops an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// HasClass reports whether an element's class list contains class.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Element creates a detached element. Attributes are given as key/value pairs.
func Element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// Text creates a detached text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// ElementWithText creates an element holding a single text child.
func ElementWithText(a atom.Atom, text string, attrs ...string) *html.Node {
	n := Element(a, attrs...)
	n.AppendChild(Text(text))
	return n
}
