// Package compat detects the EPUB specification version of an opened
// container and derives what that version can and cannot do. Detection
// runs a cascade of independent heuristics; the resulting analysis
// carries warnings and fallback tags that ApplyFixes consumes to
// sanitize metadata and the table of contents.
package compat

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lecternhq/lectern/internal/document"
	"github.com/lecternhq/lectern/internal/epub"
)

var (
	scriptRe     = regexp.MustCompile(`(?is)<script\b[^>]{0,512}>.*?</script\s{0,8}>`)
	mediaBlockRe = regexp.MustCompile(`(?is)<(audio|video)\b[^>]{0,512}>.*?</(audio|video)\s{0,8}>`)
	mediaTagRe   = regexp.MustCompile(`(?is)</?(audio|video|source)\b[^>]{0,512}/?>`)
)

// Version is a terminal EPUB specification version tag.
type Version string

const (
	EPUB20         Version = "2.0"
	EPUB30         Version = "3.0"
	EPUB31         Version = "3.1"
	EPUB32         Version = "3.2"
	VersionUnknown Version = "unknown"
)

// Fallback tags consumed by ApplyFixes.
const (
	FallbackScriptRemoval  = "script_removal"
	FallbackMediaFiltering = "media_content_filtering"
)

// Default bounds for structural and content sampling.
const (
	DefaultStructureSampleSize = 5
	DefaultContentSampleSize   = 3
)

// Container is the slice of an opened EPUB the analyzer needs. An
// *epub.Book satisfies it.
type Container interface {
	Metadata() epub.Metadata
	HasNAV() bool
	HasNCX() bool
	SpineItems() []epub.SpineItem
	ReadContent(unitID string) (string, error)
}

// FeatureSupport is the capability matrix for a detected version.
type FeatureSupport struct {
	HTML5         bool `json:"html5"`
	Scripting     bool `json:"scripting"`
	AudioVideo    bool `json:"audio_video"`
	FixedLayout   bool `json:"fixed_layout"`
	MediaOverlays bool `json:"media_overlays"`
	JavaScript    bool `json:"javascript"`
	SVG           bool `json:"svg"`
	CSS3          bool `json:"css3"`
}

var epub3Features = FeatureSupport{
	HTML5:         true,
	Scripting:     true,
	AudioVideo:    true,
	FixedLayout:   true,
	MediaOverlays: true,
	JavaScript:    true,
	SVG:           true,
	CSS3:          true,
}

// featureMatrix maps each version tag to its capabilities. An unknown
// version supports nothing.
var featureMatrix = map[Version]FeatureSupport{
	EPUB20: {SVG: true},
	EPUB30: epub3Features,
	EPUB31: epub3Features,
	EPUB32: epub3Features,
}

// FeatureFor looks up the capability matrix for a version.
func FeatureFor(v Version) FeatureSupport {
	return featureMatrix[v]
}

// Analysis is the result of analyzing one container.
type Analysis struct {
	DetectedVersion   Version        `json:"detected_version"`
	FeatureSupport    FeatureSupport `json:"feature_support"`
	Warnings          []string       `json:"warnings"`
	RequiredFallbacks []string       `json:"required_fallbacks"`
	IsCompatible      bool           `json:"is_compatible"`
}

// Analyzer runs version detection and compatibility analysis with
// bounded sampling.
type Analyzer struct {
	logger              *slog.Logger
	structureSampleSize int
	contentSampleSize   int
}

// Config bounds how many spine items the analyzer reads.
type Config struct {
	StructureSampleSize int
	ContentSampleSize   int
}

func NewAnalyzer(logger *slog.Logger, cfg Config) *Analyzer {
	if cfg.StructureSampleSize <= 0 {
		cfg.StructureSampleSize = DefaultStructureSampleSize
	}
	if cfg.ContentSampleSize <= 0 {
		cfg.ContentSampleSize = DefaultContentSampleSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		logger:              logger,
		structureSampleSize: cfg.StructureSampleSize,
		contentSampleSize:   cfg.ContentSampleSize,
	}
}

// detector tries one heuristic and returns VersionUnknown when it
// cannot decide, letting the next heuristic run.
type detector func(c Container) Version

// DetectVersion runs the detection cascade: explicit metadata version,
// then Dublin Core heuristics, then structural probing.
func (a *Analyzer) DetectVersion(c Container) Version {
	cascade := []detector{
		detectFromMetadata,
		detectFromDCHeuristics,
		a.detectFromStructure,
	}
	for _, d := range cascade {
		if v := d(c); v != VersionUnknown {
			return v
		}
	}
	return VersionUnknown
}

// detectFromMetadata parses an explicit version string by numeric
// prefix. Unrecognized 3.x values collapse to 3.0.
func detectFromMetadata(c Container) Version {
	raw := strings.TrimSpace(c.Metadata().Version)
	switch {
	case raw == "":
		return VersionUnknown
	case raw == "2" || strings.HasPrefix(raw, "2."):
		return EPUB20
	case strings.HasPrefix(raw, "3.1"):
		return EPUB31
	case strings.HasPrefix(raw, "3.2"):
		return EPUB32
	case raw == "3" || strings.HasPrefix(raw, "3."):
		return EPUB30
	default:
		return VersionUnknown
	}
}

// detectFromDCHeuristics uses Dublin Core markers: dcterms:modified is
// mandatory in EPUB 3, opf:* refinement attributes are an EPUB 2 idiom.
func detectFromDCHeuristics(c Container) Version {
	md := c.Metadata()
	if md.HasDCTermsModified {
		return EPUB30
	}
	if md.HasOPFAttributes {
		return EPUB20
	}
	return VersionUnknown
}

// detectFromStructure probes the container layout. A nav document means
// EPUB 3. An NCX without nav is ambiguous (EPUB 3 containers often ship
// one for backwards compatibility), so a bounded sample of spine items
// is scanned for HTML5 markers.
func (a *Analyzer) detectFromStructure(c Container) Version {
	if c.HasNAV() {
		return EPUB30
	}
	if !c.HasNCX() {
		return VersionUnknown
	}

	spine := c.SpineItems()
	limit := min(a.structureSampleSize, len(spine))
	for _, item := range spine[:limit] {
		content, err := c.ReadContent(item.ID)
		if err != nil {
			a.logger.Warn("structure probe: skipping unreadable spine item",
				"item_id", item.ID, "error", err)
			continue
		}
		if containsHTML5Markers(content) {
			return EPUB30
		}
	}
	return EPUB20
}

var html5Markers = []string{"<audio", "<video", "<canvas", "<svg", "epub:type"}

func containsHTML5Markers(content string) bool {
	lower := strings.ToLower(content)
	for _, m := range html5Markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Analyze detects the version and, for EPUB 2 containers, samples
// content for constructs the version cannot represent. Panics inside
// the analysis are converted into a warning on the result.
func (a *Analyzer) Analyze(c Container) (analysis Analysis) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("compatibility analysis panicked", "panic", r)
			analysis.Warnings = append(analysis.Warnings,
				fmt.Sprintf("analysis aborted: %v", r))
			analysis.IsCompatible = false
		}
	}()

	version := a.DetectVersion(c)
	analysis = Analysis{
		DetectedVersion: version,
		FeatureSupport:  FeatureFor(version),
	}

	if version == EPUB20 {
		a.sampleEPUB2Content(c, &analysis)
	}

	analysis.IsCompatible = version != VersionUnknown && len(analysis.RequiredFallbacks) == 0
	return analysis
}

// sampleEPUB2Content scans a bounded sample of spine items for media
// and scripting that EPUB 2 readers cannot handle.
func (a *Analyzer) sampleEPUB2Content(c Container, analysis *Analysis) {
	var foundMedia, foundScript bool

	spine := c.SpineItems()
	limit := min(a.contentSampleSize, len(spine))
	for _, item := range spine[:limit] {
		content, err := c.ReadContent(item.ID)
		if err != nil {
			a.logger.Warn("content sample: skipping unreadable spine item",
				"item_id", item.ID, "error", err)
			continue
		}
		lower := strings.ToLower(content)
		if strings.Contains(lower, "<audio") || strings.Contains(lower, "<video") {
			foundMedia = true
		}
		if strings.Contains(lower, "<script") {
			foundScript = true
		}
		if foundMedia && foundScript {
			break
		}
	}

	if foundMedia {
		analysis.Warnings = append(analysis.Warnings,
			"audio/video elements present but unsupported in EPUB 2.0")
		analysis.RequiredFallbacks = append(analysis.RequiredFallbacks, FallbackMediaFiltering)
	}
	if foundScript {
		analysis.Warnings = append(analysis.Warnings,
			"script elements present but unsupported in EPUB 2.0")
		analysis.RequiredFallbacks = append(analysis.RequiredFallbacks, FallbackScriptRemoval)
	}
}

// ApplyFixes returns sanitized copies of the metadata and TOC with the
// constructs named by the fallback tags removed. Chapters are never
// touched. Applying the same fixes twice is a no-op the second time.
func ApplyFixes(md epub.Metadata, toc []document.TOCItem, fallbacks []string) (epub.Metadata, []document.TOCItem) {
	tags := make(map[string]bool, len(fallbacks))
	for _, f := range fallbacks {
		tags[f] = true
	}

	fixed := md
	if len(tags) > 0 {
		fixed.Title = sanitizeField(fixed.Title, tags)
		fixed.Author = sanitizeField(fixed.Author, tags)
		fixed.Publisher = sanitizeField(fixed.Publisher, tags)
		fixed.Description = sanitizeField(fixed.Description, tags)
	}
	return fixed, fixTOC(toc, tags)
}

func fixTOC(items []document.TOCItem, tags map[string]bool) []document.TOCItem {
	if items == nil {
		return nil
	}
	out := make([]document.TOCItem, len(items))
	for i, item := range items {
		out[i] = item
		if len(tags) > 0 {
			out[i].Title = sanitizeField(item.Title, tags)
		}
		out[i].Children = fixTOC(item.Children, tags)
	}
	return out
}

func sanitizeField(s string, tags map[string]bool) string {
	if tags[FallbackScriptRemoval] {
		s = scriptRe.ReplaceAllString(s, "")
	}
	if tags[FallbackMediaFiltering] {
		s = mediaBlockRe.ReplaceAllString(s, "")
		s = mediaTagRe.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}
