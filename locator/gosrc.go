package locator

import (
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strings"

	"github.com/ZaguanLabs/hoverlate"
)

// GoLocator locates comments and string literals in Go source buffers.
// Consecutive line comments form a single span (go/ast groups them),
// so hovering anywhere in a comment block translates the whole block.
type GoLocator struct {
	content        ContentFunc
	locateComments bool
	locateStrings  bool
}

// GoLocatorOption configures the Go locator.
type GoLocatorOption func(*GoLocator)

// WithComments enables/disables comment spans.
func WithComments(enabled bool) GoLocatorOption {
	return func(l *GoLocator) {
		l.locateComments = enabled
	}
}

// WithStrings enables/disables string literal spans.
func WithStrings(enabled bool) GoLocatorOption {
	return func(l *GoLocator) {
		l.locateStrings = enabled
	}
}

// NewGoLocator creates a Go source locator reading buffers via content.
func NewGoLocator(content ContentFunc, opts ...GoLocatorOption) *GoLocator {
	l := &GoLocator{
		content:        content,
		locateComments: true,
		locateStrings:  true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// goSpan is a located span with its full line range, kept internal so
// Locate can match any line of a multi-line comment block.
type goSpan struct {
	span    Span
	endLine int
}

// Locate returns the span at pos, if any.
func (l *GoLocator) Locate(buf hoverlate.BufferID, pos hoverlate.Position) (Span, bool) {
	spans, err := l.extract(buf)
	if err != nil {
		return Span{}, false
	}
	for _, gs := range spans {
		if pos.Line >= gs.span.Line && pos.Line <= gs.endLine {
			return gs.span, true
		}
	}
	return Span{}, false
}

// LocateAll returns every span in the buffer, ordered by line.
func (l *GoLocator) LocateAll(buf hoverlate.BufferID) ([]Span, error) {
	spans, err := l.extract(buf)
	if err != nil {
		return nil, err
	}
	result := make([]Span, 0, len(spans))
	for _, gs := range spans {
		result = append(result, gs.span)
	}
	return result, nil
}

func (l *GoLocator) extract(buf hoverlate.BufferID) ([]goSpan, error) {
	content, ok := l.content(buf)
	if !ok {
		return nil, nil
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "buffer.go", content, parser.ParseComments)
	if err != nil {
		return nil, &hoverlate.LocatorError{
			Message:     "failed to parse Go source",
			Cause:       err,
			ContentType: "go",
		}
	}

	var spans []goSpan

	if l.locateComments {
		for _, cg := range file.Comments {
			text := commentGroupText(cg)
			if text == "" {
				continue
			}
			spans = append(spans, goSpan{
				span: Span{
					Text: text,
					Kind: hoverlate.KindComment,
					Line: fset.Position(cg.Pos()).Line,
				},
				endLine: fset.Position(cg.End()).Line,
			})
		}
	}

	if l.locateStrings {
		ast.Inspect(file, func(n ast.Node) bool {
			lit, ok := n.(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				return true
			}

			text := strings.Trim(lit.Value, "`\"")
			if text == "" || !isTranslatableString(text) {
				return true
			}

			line := fset.Position(lit.Pos()).Line
			spans = append(spans, goSpan{
				span: Span{
					Text: text,
					Kind: hoverlate.KindString,
					Line: line,
				},
				endLine: fset.Position(lit.End()).Line,
			})
			return true
		})
	}

	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].span.Line < spans[j].span.Line
	})
	return spans, nil
}

// commentGroupText joins a comment group into one translatable text.
// go/ast already merges consecutive line comments into a group.
func commentGroupText(cg *ast.CommentGroup) string {
	var parts []string
	for _, c := range cg.List {
		text := extractCommentText(c.Text)
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// extractCommentText strips comment markers from a single comment.
func extractCommentText(comment string) string {
	if strings.HasPrefix(comment, "//") {
		return strings.TrimSpace(comment[2:])
	}
	if strings.HasPrefix(comment, "/*") && strings.HasSuffix(comment, "*/") {
		return strings.TrimSpace(comment[2 : len(comment)-2])
	}
	return ""
}

// isTranslatableString checks if a string literal is worth translating.
func isTranslatableString(s string) bool {
	// Skip empty or very short strings
	if len(s) < 2 {
		return false
	}

	// Skip strings that look like paths
	if strings.Contains(s, "/") && !strings.Contains(s, " ") {
		return false
	}

	// Skip strings that look like format specifiers
	if strings.HasPrefix(s, "%") && len(s) < 5 {
		return false
	}

	// Skip strings that are all uppercase (likely constants)
	if s == strings.ToUpper(s) && !strings.Contains(s, " ") {
		return false
	}

	// Must contain at least one letter
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// Verify GoLocator implements Locator
var _ Locator = (*GoLocator)(nil)
