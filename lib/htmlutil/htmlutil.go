package htmlutil

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under node.
func GetText(node *html.Node) string {
	var out strings.Builder
	getText(node, &out)
	return out.String()
}

func getText(node *html.Node, out *strings.Builder) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		out.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getText(child, out)
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// NormalizeText drops non-printable characters and collapses whitespace.
func NormalizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

type Anchor struct {
	Url  *url.URL
	Name string
}

// GetAnchors returns every anchor in sel with an href, relative hrefs are resolved against base.
// Anchors whose href cannot be parsed are left out.
func GetAnchors(base *url.URL, sel *goquery.Selection) []Anchor {
	var anchors []Anchor
	sel.Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		link, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if base != nil {
			link = base.ResolveReference(link)
		}

		var name string
		if len(s.Nodes) > 0 {
			name = NormalizeText(GetText(s.Nodes[0]))
		}
		anchors = append(anchors, Anchor{Url: link, Name: name})
	})
	return anchors
}
