package locator

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/hoverlate"
	"golang.org/x/net/html"
)

// IgnoredTags contains HTML tags whose content is never translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// HTMLLocator locates text nodes and comments in HTML buffers.
type HTMLLocator struct {
	content     ContentFunc
	ignoredTags map[string]bool
}

// NewHTMLLocator creates an HTML locator reading buffers via content.
func NewHTMLLocator(content ContentFunc) *HTMLLocator {
	return &HTMLLocator{
		content:     content,
		ignoredTags: IgnoredTags,
	}
}

// NewHTMLLocatorWithIgnoredTags creates an HTML locator with custom
// ignored tags.
func NewHTMLLocatorWithIgnoredTags(content ContentFunc, tags []string) *HTMLLocator {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLLocator{
		content:     content,
		ignoredTags: ignored,
	}
}

// Locate returns the span at pos, if any.
func (l *HTMLLocator) Locate(buf hoverlate.BufferID, pos hoverlate.Position) (Span, bool) {
	spans, err := l.LocateAll(buf)
	if err != nil {
		return Span{}, false
	}
	for _, s := range spans {
		if s.Line == pos.Line {
			return s, true
		}
	}
	return Span{}, false
}

// LocateAll returns every text span in the buffer, ordered by line.
func (l *HTMLLocator) LocateAll(buf hoverlate.BufferID) ([]Span, error) {
	content, ok := l.content(buf)
	if !ok {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &hoverlate.LocatorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	lines := newLineFinder(content)
	var spans []Span

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			// Skip ignored tags
			if l.ignoredTags[strings.ToLower(n.Data)] {
				return
			}

			// Skip elements with data-no-translate attribute
			for _, attr := range n.Attr {
				if attr.Key == "data-no-translate" {
					return
				}
			}
		}

		if n.Type == html.TextNode || n.Type == html.CommentNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				kind := hoverlate.KindText
				if n.Type == html.CommentNode {
					kind = hoverlate.KindComment
				}
				spans = append(spans, Span{
					Text: trimmed,
					Kind: kind,
					Line: lines.find(trimmed),
				})
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	doc.Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			walk(n)
		}
	})

	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Line < spans[j].Line
	})
	return spans, nil
}

// lineFinder attributes parsed text back to source lines. The parser
// does not track positions, so spans are matched against the raw
// content in document order, advancing a cursor so repeated texts map
// to successive occurrences.
type lineFinder struct {
	content string
	offset  int
	line    int
}

func newLineFinder(content string) *lineFinder {
	return &lineFinder{content: content, line: 1}
}

// find returns the 1-based line of the next occurrence of text at or
// after the cursor, or the cursor's current line when not found.
func (f *lineFinder) find(text string) int {
	idx := strings.Index(f.content[f.offset:], text)
	if idx < 0 {
		return f.line
	}
	start := f.offset + idx
	line := f.line + strings.Count(f.content[f.offset:start], "\n")
	f.line = line + strings.Count(text, "\n")
	f.offset = start + len(text)
	return line
}

// Verify HTMLLocator implements Locator
var _ Locator = (*HTMLLocator)(nil)
