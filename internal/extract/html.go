package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// NewHTML walks an HTML document and turns its heading tags into
// chapters, collecting block-level text in between. Script, style and
// navigation chrome are skipped.
func NewHTML(data []byte, opts Options) (ChapterExtractor, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []chapterBlock
	var body []string
	title := ""
	depth := 1

	flush := func() {
		content := strings.TrimSpace(strings.Join(body, "\n\n"))
		if title != "" || content != "" {
			blocks = append(blocks, chapterBlock{title: title, depth: depth, text: content})
		}
		body = body[:0]
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := htmlHeadingLevel(n.Data); level > 0 {
				text := nodeText(n)
				if text == "" {
					return
				}
				if opts.chapterLevel(level) {
					if title != "" || len(body) > 0 {
						flush()
					}
					title = text
					depth = level
				} else {
					body = append(body, text)
				}
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote", "pre":
				if t := nodeText(n); t != "" {
					body = append(body, t)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if b := findElement(doc, "body"); b != nil {
		walk(b)
	} else {
		walk(doc)
	}
	flush()

	return &blockExtractor{blocks: blocks}, nil
}

func htmlHeadingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.TrimSpace(buf.String())
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
