package extract

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// NewMarkdown parses Markdown with goldmark and turns its heading
// structure into chapters. Headings at the configured chapter levels
// open a new chapter; deeper headings stay in the body text.
func NewMarkdown(src []byte, opts Options) ChapterExtractor {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

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

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if heading, ok := n.(*ast.Heading); ok && opts.chapterLevel(heading.Level) {
			if title != "" || len(body) > 0 {
				flush()
			}
			title = string(headingText(heading, src))
			depth = heading.Level
			continue
		}

		if t := markdownText(n, src); t != "" {
			body = append(body, t)
		}
	}
	flush()

	return &blockExtractor{blocks: blocks}
}

func headingText(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
		} else {
			buf.Write(headingText(c, src))
		}
	}
	return bytes.TrimSpace(buf.Bytes())
}

// markdownText gets the text content of a goldmark AST node, keeping
// line breaks inside a block.
func markdownText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else if s := markdownText(c, src); s != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(s)
		}
	}
	return strings.TrimSpace(buf.String())
}
