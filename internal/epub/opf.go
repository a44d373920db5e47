package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the epub package.
var (
	ErrInvalidEPUB  = errors.New("epub: invalid container")
	ErrFileNotFound = errors.New("epub: file not found in archive")
)

const containerPath = "META-INF/container.xml"

// containerXML models META-INF/container.xml, which locates the OPF.
type containerXML struct {
	XMLName   xml.Name `xml:"container"`
	RootFiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

// locateOPF finds the OPF package document path, preferring
// container.xml and falling back to scanning for a .opf entry.
func locateOPF(zr *zip.Reader, files map[string]*zip.File) (string, error) {
	if f, ok := files[containerPath]; ok {
		data, err := readZipFile(f)
		if err != nil {
			return "", fmt.Errorf("epub: read container.xml: %w", err)
		}
		var c containerXML
		if err := xml.Unmarshal(stripBOM(data), &c); err != nil {
			return "", fmt.Errorf("epub: parse container.xml: %w", err)
		}
		for _, rf := range c.RootFiles {
			if p := strings.TrimSpace(rf.FullPath); p != "" {
				return p, nil
			}
		}
	}

	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".opf") {
			return f.Name, nil
		}
	}
	return "", fmt.Errorf("epub: no OPF package document found: %w", ErrInvalidEPUB)
}

// opfPackage is the root <package> element of the OPF file.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	Titles       []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creators     []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Languages    []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ language"`
	Identifiers  []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Publishers   []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ publisher"`
	Dates        []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ date"`
	Descriptions []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ description"`
	Metas        []opfMeta      `xml:"meta"`
}

// opfDCElement is a Dublin Core element. EPUB 2 expresses refinements
// as opf:* attributes directly on the element.
type opfDCElement struct {
	Value  string `xml:",chardata"`
	FileAs string `xml:"file-as,attr"`
	Role   string `xml:"role,attr"`
	Event  string `xml:"event,attr"`
	Scheme string `xml:"scheme,attr"`
}

// opfMeta is a <meta> element; EPUB 3 uses property/refines, EPUB 2
// uses name/content.
type opfMeta struct {
	Name     string `xml:"name,attr"`
	Content  string `xml:"content,attr"`
	Property string `xml:"property,attr"`
	Value    string `xml:",chardata"`
}

type opfManifest struct {
	Items []struct {
		ID         string `xml:"id,attr"`
		Href       string `xml:"href,attr"`
		MediaType  string `xml:"media-type,attr"`
		Properties string `xml:"properties,attr"`
	} `xml:"item"`
}

type opfSpine struct {
	Toc      string `xml:"toc,attr"`
	ItemRefs []struct {
		IDRef  string `xml:"idref,attr"`
		Linear string `xml:"linear,attr"`
	} `xml:"itemref"`
}

func parseOPF(data []byte) (*opfPackage, error) {
	data = stripBOM(preprocessEntities(data))

	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("epub: parse OPF: %w", err)
	}
	return &pkg, nil
}

// extractMetadata flattens the raw OPF metadata into the public form,
// keeping the signals version detection cares about.
func extractMetadata(pkg *opfPackage) Metadata {
	md := Metadata{Version: strings.TrimSpace(pkg.Version)}
	om := &pkg.Metadata

	md.Title = firstValue(om.Titles)
	md.Author = firstValue(om.Creators)
	md.Language = firstValue(om.Languages)
	md.Identifier = firstValue(om.Identifiers)
	md.Publisher = firstValue(om.Publishers)
	md.Date = firstValue(om.Dates)
	md.Description = firstValue(om.Descriptions)

	for _, m := range om.Metas {
		if m.Property == "dcterms:modified" && strings.TrimSpace(m.Value) != "" {
			md.HasDCTermsModified = true
		}
	}
	for _, groups := range [][]opfDCElement{om.Creators, om.Dates, om.Identifiers} {
		for _, el := range groups {
			if el.FileAs != "" || el.Role != "" || el.Event != "" || el.Scheme != "" {
				md.HasOPFAttributes = true
			}
		}
	}

	return md
}

func firstValue(els []opfDCElement) string {
	for _, el := range els {
		if v := strings.TrimSpace(el.Value); v != "" {
			return v
		}
	}
	return ""
}
