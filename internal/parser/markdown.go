package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgallion1/coursesearch/internal/document"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	nodes, err := RenderMarkdown(src)
	if err != nil {
		return nil, err
	}

	doc := document.New(titleFromFilename(filename))
	body := doc.Body()
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return doc, nil
}

// RenderMarkdown converts markdown into detached HTML nodes suitable for
// appending under a <body>-context element.
func RenderMarkdown(src []byte) ([]*html.Node, error) {
	var rendered bytes.Buffer
	if err := goldmark.Convert(src, &rendered); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return parseFragment(rendered.Bytes())
}

func parseFragment(b []byte) ([]*html.Node, error) {
	bodyCtx := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(bytes.NewReader(b), bodyCtx)
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}
	return nodes, nil
}
