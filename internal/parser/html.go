package parser

import (
	"io"

	"github.com/dgallion1/coursesearch/internal/document"
)

// HTMLParser handles HTML files. The tree is kept as-is so highlighting
// operates on the page exactly as authored.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	return document.Parse(r, titleFromFilename(filename))
}
