package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lecternhq/lectern/internal/document"
	"github.com/lecternhq/lectern/internal/epub"
	"github.com/lecternhq/lectern/internal/textproc"
)

// Source is the slice of an opened EPUB the extractor reads from. An
// *epub.Book satisfies it.
type Source interface {
	SpineItems() []epub.SpineItem
	Manifest() map[string]epub.ManifestItem
	TOC() []document.TOCItem
	ReadContent(unitID string) (string, error)
}

// EPUBExtractor walks the spine in reading order and extracts one
// chapter per spine item, titling chapters from the TOC where it names
// their href.
type EPUBExtractor struct {
	book   Source
	titles map[string]tocRef
}

type tocRef struct {
	title string
	level int
}

func NewEPUB(book Source) *EPUBExtractor {
	e := &EPUBExtractor{book: book, titles: make(map[string]tocRef)}

	var index func(items []document.TOCItem)
	index = func(items []document.TOCItem) {
		for _, it := range items {
			if href := hrefBase(it.Href); href != "" {
				if _, ok := e.titles[href]; !ok {
					e.titles[href] = tocRef{title: it.Title, level: it.Level}
				}
			}
			index(it.Children)
		}
	}
	index(book.TOC())

	return e
}

func (e *EPUBExtractor) Units() ([]ContentUnit, error) {
	spine := e.book.SpineItems()
	units := make([]ContentUnit, 0, len(spine))
	for i, item := range spine {
		u := ContentUnit{ID: item.ID, Href: item.Href, Depth: 1, Ordinal: i}
		if ref, ok := e.titles[hrefBase(item.Href)]; ok {
			u.Title = ref.title
			if ref.level > 0 {
				u.Depth = ref.level
			}
		}
		units = append(units, u)
	}
	return units, nil
}

func (e *EPUBExtractor) Extract(unit ContentUnit, offset int, opts Options) (document.Chapter, error) {
	raw, err := e.book.ReadContent(unit.ID)
	if err != nil {
		return document.Chapter{}, fmt.Errorf("read spine item: %w", err)
	}

	var blocks []string
	if opts.PreserveHTML {
		blocks = textproc.ExtractRawParagraphBlocks(raw)
	} else {
		blocks = textproc.ExtractParagraphBlocks(raw)
	}

	title := unit.Title
	if title == "" {
		title = firstHeadingTag(raw)
	}
	title = deriveTitle(title, blocks, unit.Href, unit.Ordinal+1)

	return buildChapter(unitChapterID(unit, unit.Ordinal), title, unit.Depth, offset, blocks, raw, opts), nil
}

var headingTagRe = regexp.MustCompile(`(?is)<h[1-3][^>]{0,256}>(.*?)</h[1-3]\s{0,8}>`)

// firstHeadingTag pulls the first h1-h3 text out of raw markup.
func firstHeadingTag(raw string) string {
	if m := headingTagRe.FindStringSubmatch(raw); m != nil {
		return textproc.StripHTMLAndClean(m[1])
	}
	return ""
}

// CollectAssets categorizes the non-content manifest resources by
// media type. Per-asset problems are returned alongside the result;
// they never abort categorization.
func (e *EPUBExtractor) CollectAssets() (document.EmbeddedAssets, []error) {
	manifest := e.book.Manifest()
	ids := make([]string, 0, len(manifest))
	for id := range manifest {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	inputs := make([]document.AssetInput, 0, len(ids))
	for _, id := range ids {
		item := manifest[id]
		switch item.MediaType {
		case "application/xhtml+xml", "application/x-dtbncx+xml":
			continue
		}
		inputs = append(inputs, document.AssetInput{
			ID:        item.ID,
			Href:      item.Href,
			MediaType: item.MediaType,
		})
	}
	return document.CategorizeAssets(inputs)
}

func hrefBase(href string) string {
	href = strings.TrimSpace(href)
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	return href
}
