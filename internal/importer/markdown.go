package importer

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dshills/blockedit/internal/engine/block"
)

// ParseMarkdown converts a Markdown document into blocks: headings,
// fenced and indented code, blockquotes, and paragraphs. Structure the
// engine has no block type for (lists, tables) degrades to paragraph
// text.
func ParseMarkdown(reg *block.Registry, input string) []*block.Block {
	src := []byte(input)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []*block.Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			blocks = append(blocks, newTextBlock(reg, block.TypeHeading, string(node.Text(src))))

		case *ast.FencedCodeBlock:
			blocks = append(blocks, newTextBlock(reg, block.TypeCode, codeLines(node, src)))

		case *ast.CodeBlock:
			blocks = append(blocks, newTextBlock(reg, block.TypeCode, codeLines(node, src)))

		case *ast.Blockquote:
			if t := markdownText(n, src); t != "" {
				blocks = append(blocks, newTextBlock(reg, block.TypeQuote, t))
			}

		default:
			if t := markdownText(n, src); t != "" {
				blocks = append(blocks, newTextBlock(reg, block.TypeParagraph, t))
			}
		}
	}
	return blocks
}

// codeLines reads a code block's raw lines, keeping internal newlines
// but dropping the trailing one.
func codeLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// markdownText gets the text content of a goldmark AST node, including
// nested inlines.
func markdownText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(markdownText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
