package corpus

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

var md = goldmark.New()

// MarkdownToText reduces a markdown document to plain text by walking its
// AST and collecting text content, with blank lines between blocks. Heading
// markers, emphasis, and link targets are dropped; code block content is
// kept verbatim.
func MarkdownToText(source []byte) string {
	doc := md.Parser().Parse(gtext.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch n.(type) {
			case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.Blockquote:
				b.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(source))
			}
			b.WriteString("\n")
		case *ast.AutoLink:
			b.Write(node.URL(source))
		}
		return ast.WalkContinue, nil
	})

	// Collapse runs of blank lines left behind by dropped markup.
	out := b.String()
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}
