package epub

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

// buildEPUB assembles an in-memory EPUB archive from a path → content map.
func buildEPUB(t *testing.T, files map[string]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	write := func(name, content string) {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("buildEPUB: create %s: %v", name, err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			t.Fatalf("buildEPUB: write %s: %v", name, err)
		}
	}

	if mt, ok := files["mimetype"]; ok {
		write("mimetype", mt)
	}
	for name, content := range files {
		if name == "mimetype" {
			continue
		}
		write(name, content)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("buildEPUB: close: %v", err)
	}
	return buf.Bytes()
}

const testContainerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

func epub2OPF(extraManifest string) string {
	return `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
    <dc:title>A Test Book</dc:title>
    <dc:creator opf:file-as="Author, Test">Test Author</dc:creator>
    <dc:language>en</dc:language>
    <dc:identifier id="bookid">urn:uuid:1234</dc:identifier>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>` + extraManifest + `
  </manifest>
  <spine toc="ncx">
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`
}

const testNCX = `<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="np1" playOrder="1">
      <navLabel><text>Chapter One</text></navLabel>
      <content src="ch1.xhtml"/>
      <navPoint id="np1a" playOrder="2">
        <navLabel><text>Part A</text></navLabel>
        <content src="ch1.xhtml#a"/>
      </navPoint>
    </navPoint>
    <navPoint id="np2" playOrder="3">
      <navLabel><text>Chapter Two</text></navLabel>
      <content src="ch2.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`

func testEPUB2(t *testing.T) []byte {
	return buildEPUB(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": testContainerXML,
		"OEBPS/content.opf":      epub2OPF(""),
		"OEBPS/toc.ncx":          testNCX,
		"OEBPS/ch1.xhtml":        `<html><body><h1>Chapter One</h1><p>First paragraph of chapter one.</p><p>Second paragraph here.</p></body></html>`,
		"OEBPS/ch2.xhtml":        `<html><body><h1>Chapter Two</h1><p>Closing content.</p></body></html>`,
	})
}

func TestOpenEPUB2(t *testing.T) {
	b, err := Open(testEPUB2(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	md := b.Metadata()
	if md.Version != "2.0" {
		t.Errorf("Version = %q, want 2.0", md.Version)
	}
	if md.Title != "A Test Book" {
		t.Errorf("Title = %q", md.Title)
	}
	if md.Author != "Test Author" {
		t.Errorf("Author = %q", md.Author)
	}
	if !md.HasOPFAttributes {
		t.Error("opf:file-as attribute not detected")
	}
	if md.HasDCTermsModified {
		t.Error("dcterms:modified falsely detected")
	}

	spine := b.SpineItems()
	if len(spine) != 2 {
		t.Fatalf("spine length = %d, want 2", len(spine))
	}
	if spine[0].ID != "ch1" || spine[0].Href != "ch1.xhtml" {
		t.Errorf("spine[0] = %+v", spine[0])
	}

	if !b.HasNCX() {
		t.Error("NCX not detected")
	}
	if b.HasNAV() {
		t.Error("NAV falsely detected")
	}
}

func TestOpenTOCFromNCX(t *testing.T) {
	b, err := Open(testEPUB2(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	toc := b.TOC()
	if len(toc) != 2 {
		t.Fatalf("toc length = %d, want 2", len(toc))
	}
	if toc[0].Title != "Chapter One" || toc[0].Level != 1 {
		t.Errorf("toc[0] = %+v", toc[0])
	}
	if len(toc[0].Children) != 1 || toc[0].Children[0].Title != "Part A" || toc[0].Children[0].Level != 2 {
		t.Errorf("nested toc item wrong: %+v", toc[0].Children)
	}
}

func TestReadContent(t *testing.T) {
	b, err := Open(testEPUB2(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	content, err := b.ReadContent("ch1")
	if err != nil {
		t.Fatalf("ReadContent by id: %v", err)
	}
	if !strings.Contains(content, "First paragraph of chapter one.") {
		t.Errorf("unexpected content: %q", content)
	}

	content, err = b.ReadContent("ch2.xhtml")
	if err != nil {
		t.Fatalf("ReadContent by href: %v", err)
	}
	if !strings.Contains(content, "Closing content.") {
		t.Errorf("unexpected content: %q", content)
	}

	if _, err := b.ReadContent("missing"); err == nil {
		t.Error("expected error for unknown unit")
	}
}

func epub3Files(t *testing.T) map[string]string {
	return map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": testContainerXML,
		"OEBPS/content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Modern Book</dc:title>
    <dc:identifier id="bookid">urn:uuid:5678</dc:identifier>
    <dc:language>en</dc:language>
    <meta property="dcterms:modified">2024-01-01T00:00:00Z</meta>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
  </spine>
</package>`,
		"OEBPS/nav.xhtml": `<html xmlns:epub="http://www.idpf.org/2007/ops"><body>
<nav epub:type="toc"><ol>
  <li><a href="ch1.xhtml">Opening</a>
    <ol><li><a href="ch1.xhtml#s1">Detail</a></li></ol>
  </li>
</ol></nav>
</body></html>`,
		"OEBPS/ch1.xhtml": `<html><body><p>Body.</p></body></html>`,
	}
}

func TestOpenEPUB3NAV(t *testing.T) {
	b, err := Open(buildEPUB(t, epub3Files(t)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if b.Metadata().Version != "3.0" {
		t.Errorf("Version = %q, want 3.0", b.Metadata().Version)
	}
	if !b.Metadata().HasDCTermsModified {
		t.Error("dcterms:modified not detected")
	}
	if !b.HasNAV() {
		t.Error("NAV not detected")
	}

	toc := b.TOC()
	if len(toc) != 1 {
		t.Fatalf("toc length = %d, want 1", len(toc))
	}
	if toc[0].Title != "Opening" || toc[0].Href != "ch1.xhtml" {
		t.Errorf("toc[0] = %+v", toc[0])
	}
	if len(toc[0].Children) != 1 || toc[0].Children[0].Title != "Detail" || toc[0].Children[0].Level != 2 {
		t.Errorf("nested nav item wrong: %+v", toc[0].Children)
	}
}

func TestOpenMissingMimetypeWarns(t *testing.T) {
	files := epub3Files(t)
	delete(files, "mimetype")
	b, err := Open(buildEPUB(t, files))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	found := false
	for _, w := range b.Warnings() {
		if strings.Contains(w, "mimetype") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected mimetype warning, got %v", b.Warnings())
	}
}

func TestOpenNotAnEPUB(t *testing.T) {
	if _, err := Open([]byte("not a zip at all")); err == nil {
		t.Error("expected error for non-zip input")
	}

	empty := buildEPUB(t, map[string]string{"hello.txt": "hi"})
	if _, err := Open(empty); err == nil {
		t.Error("expected error for zip without OPF")
	}
}
