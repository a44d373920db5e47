package epub

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/lecternhq/lectern/internal/document"
	"golang.org/x/net/html"
)

// parseTOC populates b.toc from the nav document (EPUB 3) or the NCX
// (EPUB 2). A missing or unparseable TOC yields an empty tree plus a
// warning, never an error.
func (b *Book) parseTOC(pkg *opfPackage) {
	if strings.HasPrefix(b.metadata.Version, "3") || b.HasNAV() {
		if toc, ok := b.parseNAV(); ok {
			b.toc = toc
			return
		}
	}
	if toc, ok := b.parseNCX(pkg.Spine.Toc); ok {
		b.toc = toc
		return
	}
	b.toc = []document.TOCItem{}
}

func (b *Book) parseNAV() ([]document.TOCItem, bool) {
	var navItem *ManifestItem
	for _, item := range b.manifest {
		for _, prop := range strings.Fields(item.Properties) {
			if prop == "nav" {
				it := item
				navItem = &it
			}
		}
	}
	if navItem == nil {
		return nil, false
	}

	data, err := b.readPath(b.resolve(navItem.Href))
	if err != nil {
		b.warnings = append(b.warnings, fmt.Sprintf("read nav document: %v", err))
		return nil, false
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		b.warnings = append(b.warnings, fmt.Sprintf("parse nav document: %v", err))
		return nil, false
	}

	var tocNav *html.Node
	var findNav func(*html.Node)
	findNav = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "nav" && hasEpubType(n, "toc") {
			if tocNav == nil {
				tocNav = n
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findNav(c)
		}
	}
	findNav(doc)
	if tocNav == nil {
		return nil, false
	}

	ol := findChildElement(tocNav, "ol")
	if ol == nil {
		return nil, false
	}

	counter := 0
	return parseNavList(ol, 1, &counter), true
}

func parseNavList(ol *html.Node, level int, counter *int) []document.TOCItem {
	var items []document.TOCItem
	for li := ol.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		*counter++
		item := document.TOCItem{ID: fmt.Sprintf("toc-%d", *counter), Level: level}
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "a":
				if item.Href == "" {
					item.Href = getAttr(c, "href")
					item.Title = strings.TrimSpace(textContent(c))
				}
			case "span":
				if item.Title == "" {
					item.Title = strings.TrimSpace(textContent(c))
				}
			case "ol":
				item.Children = parseNavList(c, level+1, counter)
			}
		}
		items = append(items, item)
	}
	return items
}

// --- NCX (EPUB 2) ---

type ncxDocument struct {
	XMLName xml.Name `xml:"ncx"`
	NavMap  struct {
		NavPoints []ncxNavPoint `xml:"navPoint"`
	} `xml:"navMap"`
}

type ncxNavPoint struct {
	ID    string `xml:"id,attr"`
	Label struct {
		Text string `xml:"text"`
	} `xml:"navLabel"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

func (b *Book) parseNCX(spineTocID string) ([]document.TOCItem, bool) {
	var ncxItem *ManifestItem
	if spineTocID != "" {
		if mi, ok := b.manifest[spineTocID]; ok {
			ncxItem = &mi
		}
	}
	if ncxItem == nil {
		for _, item := range b.manifest {
			if item.MediaType == "application/x-dtbncx+xml" {
				it := item
				ncxItem = &it
				break
			}
		}
	}
	if ncxItem == nil {
		return nil, false
	}

	data, err := b.readPath(b.resolve(ncxItem.Href))
	if err != nil {
		b.warnings = append(b.warnings, fmt.Sprintf("read NCX: %v", err))
		return nil, false
	}

	var doc ncxDocument
	if err := xml.Unmarshal(stripBOM(preprocessEntities(data)), &doc); err != nil {
		b.warnings = append(b.warnings, fmt.Sprintf("parse NCX: %v", err))
		return nil, false
	}

	return convertNavPoints(doc.NavMap.NavPoints, 1), true
}

func convertNavPoints(points []ncxNavPoint, level int) []document.TOCItem {
	if len(points) == 0 {
		return nil
	}
	items := make([]document.TOCItem, 0, len(points))
	for i, np := range points {
		item := document.TOCItem{
			ID:    np.ID,
			Title: strings.TrimSpace(np.Label.Text),
			Href:  strings.TrimSpace(np.Content.Src),
			Level: level,
		}
		if item.ID == "" {
			item.ID = fmt.Sprintf("navpoint-%d-%d", level, i+1)
		}
		item.Children = convertNavPoints(np.Children, level+1)
		items = append(items, item)
	}
	return items
}

// --- small HTML helpers ---

func hasEpubType(n *html.Node, want string) bool {
	for _, t := range strings.Fields(getAttr(n, "epub:type")) {
		if t == want {
			return true
		}
	}
	return false
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findChildElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findChildElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
