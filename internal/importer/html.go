package importer

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/blockedit/internal/engine/block"
)

// ParseHTML converts an HTML fragment into blocks: heading tags become
// heading blocks, pre/code becomes code, blockquote becomes a quote,
// img becomes an image block captioned by its alt text, and remaining
// text content becomes paragraphs.
func ParseHTML(reg *block.Registry, input string) ([]*block.Block, error) {
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []*block.Block
	var pending strings.Builder

	flush := func() {
		t := strings.TrimSpace(pending.String())
		pending.Reset()
		if t != "" {
			blocks = append(blocks, newTextBlock(reg, block.TypeParagraph, t))
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if headingLevel(n.Data) > 0 {
				flush()
				blocks = append(blocks, newTextBlock(reg, block.TypeHeading, htmlText(n)))
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "pre":
				flush()
				blocks = append(blocks, newTextBlock(reg, block.TypeCode, preText(n)))
				return
			case "blockquote":
				flush()
				if t := htmlText(n); t != "" {
					blocks = append(blocks, newTextBlock(reg, block.TypeQuote, t))
				}
				return
			case "img":
				flush()
				img := block.New(block.TypeImage, reg.Traits(block.TypeImage))
				if in := img.FirstInput(); in != nil {
					in.SetText(attr(n, "alt"))
				}
				blocks = append(blocks, img)
				return
			case "p", "li", "td":
				// Block-level containers flush any accumulated loose
				// text before their own content.
				if t := htmlText(n); t != "" {
					flush()
					blocks = append(blocks, newTextBlock(reg, block.TypeParagraph, t))
				}
				return
			}
		}
		if n.Type == html.TextNode {
			pending.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}
	walk(root)
	flush()
	return blocks, nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// htmlText collects the visible text beneath a node.
func htmlText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// preText keeps a code listing's internal whitespace, trimming only
// the surrounding blank lines.
func preText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Trim(buf.String(), "\n")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
