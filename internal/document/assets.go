package document

import (
	"fmt"
	"strings"
)

// AssetInput is one raw resource reference, typically a manifest item.
type AssetInput struct {
	ID        string
	Href      string
	MediaType string
}

// CategorizeAssets buckets resources by broad media category. A
// malformed item (missing href) produces an error for that asset and is
// skipped; categorization continues with the remaining items.
func CategorizeAssets(items []AssetInput) (EmbeddedAssets, []error) {
	var out EmbeddedAssets
	var errs []error

	for _, item := range items {
		if strings.TrimSpace(item.Href) == "" {
			errs = append(errs, fmt.Errorf("asset %q has no href", item.ID))
			continue
		}

		asset := Asset{ID: item.ID, Href: item.Href, MediaType: item.MediaType}
		switch category(item.MediaType) {
		case "image":
			out.Images = append(out.Images, asset)
		case "audio":
			out.Audio = append(out.Audio, asset)
		case "video":
			out.Video = append(out.Video, asset)
		case "font":
			out.Fonts = append(out.Fonts, asset)
		default:
			out.Other = append(out.Other, asset)
		}
	}

	return out, errs
}

func category(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	switch {
	case strings.HasPrefix(mt, "image/"):
		return "image"
	case strings.HasPrefix(mt, "audio/"):
		return "audio"
	case strings.HasPrefix(mt, "video/"):
		return "video"
	case strings.HasPrefix(mt, "font/"),
		mt == "application/font-woff",
		mt == "application/x-font-ttf",
		mt == "application/vnd.ms-opentype":
		return "font"
	default:
		return "other"
	}
}
