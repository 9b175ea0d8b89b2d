package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Course is one known item: a card on the catalog page and a suggestion candidate.
type Course struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Slug     string `yaml:"slug,omitempty" json:"slug,omitempty"`
	Summary  string `yaml:"summary,omitempty" json:"summary,omitempty"` // Markdown
}

// Catalog is the read-only list of known courses, in display order.
type Catalog struct {
	Courses []Course `yaml:"courses"`
}

// Default returns the built-in course list used when no catalog file exists.
func Default() *Catalog {
	return &Catalog{Courses: []Course{
		{Name: "WEB Technologies", Category: "Web", Slug: "web-technologies",
			Summary: "Build pages with **HTML**, CSS and JavaScript."},
		{Name: "Intro to Python", Category: "Data", Slug: "intro-to-python",
			Summary: "Variables, loops and your first *data* scripts."},
		{Name: "English for Tech", Category: "Languages", Slug: "english-for-tech",
			Summary: "Vocabulary and writing for technical teams."},
		{Name: "Discrete Math Basics", Category: "Math", Slug: "discrete-math-basics",
			Summary: "Sets, logic, graphs and counting."},
		{Name: "New subject", Category: "spoiler", Slug: "new-subject",
			Summary: "Coming soon."},
	}}
}

// Load reads a YAML catalog file. A missing file yields Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for i := range c.Courses {
		if c.Courses[i].Slug == "" {
			c.Courses[i].Slug = Slugify(c.Courses[i].Name)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return &c, nil
}

// Validate checks that every course has a unique, non-empty name.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Courses))
	for i, course := range c.Courses {
		name := strings.TrimSpace(course.Name)
		if name == "" {
			return fmt.Errorf("course %d: name is required", i)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("course %d: duplicate name %q", i, course.Name)
		}
		seen[key] = true
	}
	return nil
}

// Slugify lowercases name and joins its words with hyphens.
func Slugify(name string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if b.Len() > 0 {
			b.WriteByte('-')
		}
		b.WriteString(word)
	}
	return b.String()
}
