package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_TitleFromTag(t *testing.T) {
	src := "<html><head><title> Course Page </title></head><body><p>hi</p></body></html>"
	doc, err := (&HTMLParser{}).Parse(strings.NewReader(src), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Course Page" {
		t.Errorf("expected title %q, got %q", "Course Page", doc.Title)
	}
}

func TestHTMLParser_TitleFromFilename(t *testing.T) {
	doc, err := (&HTMLParser{}).Parse(strings.NewReader("<p>hi</p>"), "syllabus.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "syllabus" {
		t.Errorf("expected title %q, got %q", "syllabus", doc.Title)
	}
	if doc.Body() == nil {
		t.Error("expected parser to synthesize a body")
	}
}

func TestCSVParser_Table(t *testing.T) {
	input := "name,category\nIntro to Python,Data\nWEB Technologies,Web\n"
	doc, err := (&CSVParser{}).Parse(strings.NewReader(input), "courses.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := doc.String()
	if !strings.Contains(out, "<th>name</th><th>category</th>") {
		t.Errorf("expected header row, got %s", out)
	}
	if !strings.Contains(out, "<td>Intro to Python</td><td>Data</td>") {
		t.Errorf("expected data row, got %s", out)
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"a.txt", false},
		{"a.MD", false},
		{"a.csv", false},
		{"a.html", false},
		{"a.pdf", false},
		{"a.docx", false},
		{"a.exe", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename, Options{})
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q): err=%v, wantErr=%v", tt.filename, err, tt.wantErr)
		}
		if !tt.wantErr && !IsSupportedExtension(tt.filename) {
			t.Errorf("IsSupportedExtension(%q) = false", tt.filename)
		}
	}
}

func TestDocxHeadingAtom(t *testing.T) {
	if headingAtom(0).String() != "p" || headingAtom(2).String() != "h2" || headingAtom(9).String() != "p" {
		t.Error("unexpected heading mapping")
	}
}
