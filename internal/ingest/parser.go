package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/tda234574534243/law-advisor/internal/model"
)

// Document is one parsed statute page.
type Document struct {
	Title     string
	SourceURL string
	Passages  []model.Passage
}

// articleHeading matches the opening line of a statute article,
// e.g. "Điều 45. Điều kiện thực hiện các quyền ...".
var (
	articleHeading = regexp.MustCompile(`^Điều\s+(\d+)\.\s*(.*)`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// ParseLaw splits a statute page into per-article passages. Paragraphs
// before the first article heading are discarded; a short paragraph
// right after a heading is treated as the rest of a wrapped title.
func ParseLaw(htmlSrc, sourceURL string) (Document, error) {
	root, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		return Document{}, fmt.Errorf("parse html: %w", err)
	}

	doc := Document{
		Title:     pageTitle(root),
		SourceURL: sourceURL,
	}

	content := findContentBlock(root)
	if content == nil {
		return Document{}, fmt.Errorf("no content block in %s", sourceURL)
	}

	type article struct {
		num     string
		heading string
		body    strings.Builder
	}

	var current *article
	var titleBuffer []string

	flushTitle := func() {
		if len(titleBuffer) > 0 && current != nil {
			current.heading = strings.TrimSpace(current.heading + " " + strings.Join(titleBuffer, " "))
		}
		titleBuffer = nil
	}
	flushArticle := func() {
		flushTitle()
		if current == nil {
			return
		}
		body := whitespaceRun.ReplaceAllString(strings.TrimSpace(current.body.String()), " ")
		if body != "" {
			section := "Điều " + current.num
			if current.heading != "" {
				section += ". " + current.heading
			}
			doc.Passages = append(doc.Passages, model.Passage{
				DocID:   "dieu-" + current.num,
				Title:   doc.Title,
				Section: section,
				Text:    body,
				URL:     sourceURL,
			})
		}
		current = nil
	}

	for _, text := range paragraphTexts(content) {
		if len([]rune(text)) < 2 {
			continue
		}

		if m := articleHeading.FindStringSubmatch(text); m != nil {
			flushArticle()
			current = &article{num: m[1], heading: strings.TrimSpace(m[2])}
			continue
		}
		if current == nil || strings.HasPrefix(text, "http") {
			continue
		}

		// A short non-enumerated paragraph before any body text is a
		// continuation of a wrapped article title.
		if current.body.Len() == 0 && len([]rune(text)) < 100 && !looksLikeBody(text) {
			titleBuffer = append(titleBuffer, text)
			continue
		}

		flushTitle()
		if current.body.Len() > 0 {
			current.body.WriteString(" ")
		}
		current.body.WriteString(text)
	}
	flushArticle()

	return doc, nil
}

// looksLikeBody reports whether a paragraph starts like enumerated
// article content rather than a title fragment.
func looksLikeBody(text string) bool {
	r := []rune(text)[0]
	return unicode.IsDigit(r) || strings.ContainsRune(".)-", r)
}

// pageTitle returns the text of the first <title> element.
func pageTitle(root *html.Node) string {
	n := findFirst(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title"
	})
	if n == nil {
		return ""
	}
	return strings.TrimSpace(nodeText(n))
}

// findContentBlock locates the main statute text container. The known
// source wraps it in <div class="content1">; anything else falls back
// to <body>.
func findContentBlock(root *html.Node) *html.Node {
	if n := findFirst(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" &&
			strings.Contains(attr(n, "class"), "content1")
	}); n != nil {
		return n
	}
	return findFirst(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	})
}

// paragraphTexts returns the trimmed text of every <p> under n, in
// document order.
func paragraphTexts(n *html.Node) []string {
	var out []string
	for _, p := range findAll(n, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "p"
	}) {
		if text := strings.TrimSpace(nodeText(p)); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	if match(n) {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findAll(c, match)...)
	}
	return out
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
