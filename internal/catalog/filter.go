package catalog

import (
	"strings"

	"github.com/dgallion1/coursesearch/internal/document"
	"github.com/dgallion1/coursesearch/internal/highlight"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CardClass marks an element as a course card.
const CardClass = "card"

// Card is a course with its current visibility.
type Card struct {
	Course
	Visible bool `json:"visible"`
}

// Matches reports whether name contains the trimmed query, ignoring case.
// A blank query matches every name.
func Matches(name, query string) bool {
	return matcher(query)(name)
}

// matcher compiles the trimmed query once, with the same literal pattern and
// case folding the highlighter uses, so a shown card always has a match to mark.
func matcher(query string) func(string) bool {
	re := highlight.Pattern(strings.TrimSpace(query))
	if re == nil {
		return func(string) bool { return true }
	}
	return re.MatchString
}

// FilterCards returns one card per course, in order, visible when its name matches query.
func FilterCards(courses []Course, query string) []Card {
	match := matcher(query)
	cards := make([]Card, len(courses))
	for i, c := range courses {
		cards[i] = Card{Course: c, Visible: match(c.Name)}
	}
	return cards
}

// FilterCardNodes shows or hides every .card element under root by the text
// of its first <h3>. Hidden cards get style="display:none"; shown cards lose
// their style attribute.
func FilterCardNodes(root *html.Node, query string) (shown, hidden int) {
	match := matcher(query)
	for _, card := range document.FindAll(root, isCard) {
		if match(CardName(card)) {
			document.RemoveAttr(card, "style")
			shown++
		} else {
			document.SetAttr(card, "style", "display:none")
			hidden++
		}
	}
	return shown, hidden
}

// CardName returns the text of the card's first <h3>, or "" without one.
func CardName(card *html.Node) string {
	h3 := document.Find(card, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.H3
	})
	if h3 == nil {
		return ""
	}
	return document.TextContent(h3)
}

func isCard(n *html.Node) bool {
	return document.HasClass(n, CardClass)
}

// VisibleCards lists the names of cards under root that are not hidden.
func VisibleCards(root *html.Node) []string {
	var names []string
	for _, card := range document.FindAll(root, isCard) {
		if style, ok := document.Attr(card, "style"); ok && strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none") {
			continue
		}
		names = append(names, strings.TrimSpace(CardName(card)))
	}
	return names
}
