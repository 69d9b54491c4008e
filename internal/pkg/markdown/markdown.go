package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Raw HTML in training responses is escaped, WithUnsafe is never set.
var md = goldmark.New(
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// Render converts a markdown training response to safe HTML
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainText strips markdown formatting, joining blocks with a single newline.
// The assistant consumes this form when it cannot display rich text.
func PlainText(source string) string {
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []string
	var cur strings.Builder

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				cur.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					cur.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				cur.Write(node.Value)
			}
		case *ast.CodeSpan:
			// children carry the text
		default:
			if !entering && n.Type() == ast.TypeBlock && n.FirstChild() != nil && n.FirstChild().Type() == ast.TypeInline {
				if s := strings.TrimSpace(cur.String()); s != "" {
					blocks = append(blocks, s)
				}
				cur.Reset()
			}
		}
		return ast.WalkContinue, nil
	})

	if s := strings.TrimSpace(cur.String()); s != "" {
		blocks = append(blocks, s)
	}
	return strings.Join(blocks, "\n")
}
