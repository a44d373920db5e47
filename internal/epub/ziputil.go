package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// maxEntrySize bounds a single decompressed zip entry to guard against
// zip bombs.
const maxEntrySize int64 = 128 * 1024 * 1024

func readZipFile(f *zip.File) ([]byte, error) {
	if !isSafePath(f.Name) {
		return nil, fmt.Errorf("epub: unsafe zip entry path %q", f.Name)
	}
	if f.UncompressedSize64 > uint64(maxEntrySize) {
		return nil, fmt.Errorf("epub: zip entry %s exceeds size limit", f.Name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("epub: open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("epub: read zip entry %s: %w", f.Name, err)
	}
	if int64(len(data)) > maxEntrySize {
		return nil, fmt.Errorf("epub: zip entry %s decompressed over limit", f.Name)
	}
	return data, nil
}

// isSafePath rejects absolute entries and path traversal.
func isSafePath(p string) bool {
	if strings.HasPrefix(p, "/") {
		return false
	}
	return p != ".." && !strings.HasPrefix(p, "../") && !strings.Contains(p, "/../")
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// namedEntityRe matches HTML named entities that encoding/xml rejects.
var namedEntityRe = regexp.MustCompile(`&(nbsp|copy|reg|trade|mdash|ndash|hellip|rsquo|lsquo|rdquo|ldquo);`)

// preprocessEntities neutralizes HTML-only named entities so that
// strict XML decoding of OPF/NCX files does not fail on them.
func preprocessEntities(data []byte) []byte {
	return namedEntityRe.ReplaceAllFunc(data, func(m []byte) []byte {
		switch string(m) {
		case "&nbsp;":
			return []byte(" ")
		case "&mdash;", "&ndash;":
			return []byte("-")
		case "&hellip;":
			return []byte("...")
		case "&rsquo;", "&lsquo;":
			return []byte("'")
		case "&rdquo;", "&ldquo;":
			return []byte(`"`)
		default:
			return []byte(" ")
		}
	})
}
