// Package epub reads EPUB containers: the zip layout, the OPF package
// document, and the NCX/NAV table of contents. It exposes the ordered
// spine, the manifest, document metadata and per-item content reads —
// everything the extraction pipeline consumes.
package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/lecternhq/lectern/internal/document"
)

// Book is an opened EPUB container.
//
// A Book is safe for concurrent reads after construction: all parsing
// happens up front and content reads do not mutate shared state.
type Book struct {
	zip      *zip.Reader
	files    map[string]*zip.File
	opfDir   string
	metadata Metadata
	manifest map[string]ManifestItem
	spine    []SpineItem
	toc      []document.TOCItem
	warnings []string
}

// SpineItem is one entry of the linear reading order.
type SpineItem struct {
	ID        string
	Href      string
	MediaType string
	Linear    bool
}

// ManifestItem is one resource declared in the OPF manifest.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties string
}

// Metadata is the document-level metadata from the OPF, plus the raw
// signals the version-detection heuristics need.
type Metadata struct {
	Version     string
	Title       string
	Author      string
	Language    string
	Identifier  string
	Publisher   string
	Date        string
	Description string

	// HasDCTermsModified is set when a <meta property="dcterms:modified">
	// element is present (an EPUB 3 marker).
	HasDCTermsModified bool

	// HasOPFAttributes is set when Dublin Core elements carry opf:*
	// attributes such as file-as or role (an EPUB 2 marker).
	HasOPFAttributes bool
}

// Open parses an EPUB from raw bytes.
func Open(data []byte) (*Book, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("epub: open zip: %w", err)
	}

	b := &Book{
		zip:      zr,
		files:    make(map[string]*zip.File, len(zr.File)),
		manifest: make(map[string]ManifestItem),
	}
	for _, f := range zr.File {
		if _, ok := b.files[f.Name]; !ok {
			b.files[f.Name] = f
		}
	}

	b.checkMimetype()

	opfPath, err := locateOPF(zr, b.files)
	if err != nil {
		return nil, err
	}
	b.opfDir = path.Dir(opfPath)

	opfData, err := b.readPath(opfPath)
	if err != nil {
		return nil, fmt.Errorf("epub: read OPF: %w", err)
	}
	pkg, err := parseOPF(opfData)
	if err != nil {
		return nil, err
	}

	b.metadata = extractMetadata(pkg)
	b.buildManifestAndSpine(pkg)
	b.parseTOC(pkg)

	return b, nil
}

// checkMimetype records a warning when the archive's mimetype entry is
// missing or wrong. A bad mimetype is not fatal.
func (b *Book) checkMimetype() {
	f, ok := b.files["mimetype"]
	if !ok {
		b.warnings = append(b.warnings, "mimetype entry missing")
		return
	}
	data, err := readZipFile(f)
	if err != nil {
		b.warnings = append(b.warnings, fmt.Sprintf("cannot read mimetype: %v", err))
		return
	}
	if strings.TrimSpace(string(data)) != "application/epub+zip" {
		b.warnings = append(b.warnings, fmt.Sprintf("unexpected mimetype %q", string(data)))
	}
}

func (b *Book) buildManifestAndSpine(pkg *opfPackage) {
	for _, item := range pkg.Manifest.Items {
		b.manifest[item.ID] = ManifestItem{
			ID:         item.ID,
			Href:       item.Href,
			MediaType:  item.MediaType,
			Properties: item.Properties,
		}
	}

	b.spine = make([]SpineItem, 0, len(pkg.Spine.ItemRefs))
	for _, ref := range pkg.Spine.ItemRefs {
		si := SpineItem{ID: ref.IDRef, Linear: ref.Linear != "no"}
		if mi, ok := b.manifest[ref.IDRef]; ok {
			si.Href = mi.Href
			si.MediaType = mi.MediaType
		}
		b.spine = append(b.spine, si)
	}
}

// Metadata returns the parsed OPF metadata.
func (b *Book) Metadata() Metadata { return b.metadata }

// SpineItems returns the spine in reading order.
func (b *Book) SpineItems() []SpineItem {
	return append([]SpineItem(nil), b.spine...)
}

// Manifest returns the manifest keyed by item ID.
func (b *Book) Manifest() map[string]ManifestItem {
	out := make(map[string]ManifestItem, len(b.manifest))
	for k, v := range b.manifest {
		out[k] = v
	}
	return out
}

// TOC returns the table of contents tree.
func (b *Book) TOC() []document.TOCItem {
	return copyTOC(b.toc)
}

// Warnings returns non-fatal issues found while parsing the container.
func (b *Book) Warnings() []string {
	return append([]string(nil), b.warnings...)
}

// HasNAV reports whether the manifest declares an EPUB 3 nav document.
func (b *Book) HasNAV() bool {
	for _, item := range b.manifest {
		for _, prop := range strings.Fields(item.Properties) {
			if prop == "nav" {
				return true
			}
		}
	}
	return false
}

// HasNCX reports whether the manifest declares an NCX table of contents.
func (b *Book) HasNCX() bool {
	for _, item := range b.manifest {
		if item.MediaType == "application/x-dtbncx+xml" {
			return true
		}
	}
	return false
}

// ReadContent returns the raw text of a content unit, looked up by
// manifest ID first and by href as a fallback.
func (b *Book) ReadContent(unitID string) (string, error) {
	if mi, ok := b.manifest[unitID]; ok {
		data, err := b.readPath(b.resolve(mi.Href))
		if err != nil {
			return "", fmt.Errorf("epub: read content %s: %w", unitID, err)
		}
		return string(data), nil
	}
	// Fallback: treat unitID as an href.
	data, err := b.readPath(b.resolve(unitID))
	if err != nil {
		return "", fmt.Errorf("epub: content unit %s not found: %w", unitID, err)
	}
	return string(data), nil
}

// resolve maps an OPF-relative href to a zip-internal path.
func (b *Book) resolve(href string) string {
	href = hrefWithoutFragment(strings.TrimSpace(href))
	if href == "" {
		return ""
	}
	if b.opfDir == "." {
		return href
	}
	return path.Join(b.opfDir, href)
}

// readPath reads a zip entry by exact path, falling back to a
// case-insensitive match.
func (b *Book) readPath(name string) ([]byte, error) {
	if name == "" {
		return nil, ErrFileNotFound
	}
	if f, ok := b.files[name]; ok {
		return readZipFile(f)
	}
	lower := strings.ToLower(name)
	for n, f := range b.files {
		if strings.ToLower(n) == lower {
			return readZipFile(f)
		}
	}
	return nil, ErrFileNotFound
}

func hrefWithoutFragment(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[:i]
	}
	return href
}

func copyTOC(items []document.TOCItem) []document.TOCItem {
	if items == nil {
		return nil
	}
	out := make([]document.TOCItem, len(items))
	for i := range items {
		out[i] = items[i]
		out[i].Children = copyTOC(items[i].Children)
	}
	return out
}
