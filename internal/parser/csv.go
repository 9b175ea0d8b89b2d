package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/coursesearch/internal/document"
	"golang.org/x/net/html/atom"
)

// CSVParser handles CSV files. The first row becomes the table header.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := document.New(titleFromFilename(filename))
	if len(records) == 0 {
		return doc, nil
	}

	table := document.Element(atom.Table)
	thead := document.Element(atom.Thead)
	headRow := document.Element(atom.Tr)
	for _, h := range records[0] {
		headRow.AppendChild(document.ElementWithText(atom.Th, h))
	}
	thead.AppendChild(headRow)
	table.AppendChild(thead)

	tbody := document.Element(atom.Tbody)
	for _, row := range records[1:] {
		tr := document.Element(atom.Tr)
		for _, cell := range row {
			tr.AppendChild(document.ElementWithText(atom.Td, cell))
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)

	doc.Body().AppendChild(table)
	return doc, nil
}
