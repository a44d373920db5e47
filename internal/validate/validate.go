// Package validate checks the structural health of an EPUB container
// at three escalating levels. Results are reported, never thrown: the
// caller inspects IsValid and the entry list to decide whether to
// abort.
package validate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lecternhq/lectern/internal/epub"
)

// Level selects how deep validation goes. Each level is a superset of
// the previous one.
type Level string

const (
	LevelBasic    Level = "basic"
	LevelStandard Level = "standard"
	LevelStrict   Level = "strict"
)

// Severity ranks a validation entry. Only critical and error entries
// affect IsValid.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
)

// Validation entry codes.
const (
	CodeMissingMetadata    = "MISSING_METADATA"
	CodeMissingSpine       = "MISSING_SPINE"
	CodeMissingManifest    = "MISSING_MANIFEST"
	CodeMissingTitle       = "MISSING_TITLE"
	CodeTitleLength        = "TITLE_LENGTH"
	CodeMissingIdentifier  = "MISSING_IDENTIFIER"
	CodeInvalidSpineItem   = "INVALID_SPINE_ITEM"
	CodeUnresolvedSpineRef = "UNRESOLVED_SPINE_REF"
	CodeInvalidManifest    = "INVALID_MANIFEST_ITEM"
	CodeMissingMediaType   = "MISSING_MEDIA_TYPE"
	CodeHrefConvention     = "HREF_CONVENTION"
	CodeTooManySpineItems  = "TOO_MANY_SPINE_ITEMS"
	CodeTooManyManifest    = "TOO_MANY_MANIFEST_ITEMS"
	CodeMissingNavigation  = "MISSING_NAVIGATION"
	CodeUnknownError       = "UNKNOWN_ERROR"
)

// Title length bounds applied at the standard level.
const (
	MinTitleLength = 1
	MaxTitleLength = 512
)

// Standard-level structural ceiling. Strict ceilings come from Config.
const standardMaxSpineItems = 10000

// Entry is one validation finding.
type Entry struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Location string   `json:"location,omitempty"`
	FixHint  string   `json:"fix_hint,omitempty"`
}

// Result is the outcome of validating one container.
type Result struct {
	IsValid  bool           `json:"is_valid"`
	Level    Level          `json:"level"`
	Errors   []Entry        `json:"errors"`
	Warnings []Entry        `json:"warnings"`
	Metadata map[string]any `json:"metadata"`
}

// Container is the slice of an opened EPUB the validator inspects. An
// *epub.Book satisfies it.
type Container interface {
	Metadata() epub.Metadata
	SpineItems() []epub.SpineItem
	Manifest() map[string]epub.ManifestItem
	HasNAV() bool
	HasNCX() bool
}

// Config carries the strict-level structural ceilings.
type Config struct {
	MaxSpineItems    int
	MaxManifestItems int
}

const (
	defaultMaxSpineItems    = 1000
	defaultMaxManifestItems = 2000
)

// Validator runs structural checks against an EPUB container.
type Validator struct {
	logger *slog.Logger
	cfg    Config
}

func New(logger *slog.Logger, cfg Config) *Validator {
	if cfg.MaxSpineItems <= 0 {
		cfg.MaxSpineItems = defaultMaxSpineItems
	}
	if cfg.MaxManifestItems <= 0 {
		cfg.MaxManifestItems = defaultMaxManifestItems
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger, cfg: cfg}
}

// Validate runs all checks up to and including the given level. A
// panic anywhere inside a check is converted into a single critical
// UNKNOWN_ERROR entry instead of propagating.
func (v *Validator) Validate(c Container, level Level) (result Result) {
	entries := &entryList{}

	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validation panicked", "panic", r)
			entries.add(Entry{
				Code:     CodeUnknownError,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("validation aborted unexpectedly: %v", r),
			})
			// The container itself may be the panic source, so the
			// result is built without touching it again.
			result = Result{
				IsValid:  false,
				Level:    level,
				Errors:   entries.errors,
				Warnings: entries.warnings,
				Metadata: map[string]any{},
			}
			if result.Warnings == nil {
				result.Warnings = []Entry{}
			}
		}
	}()

	v.checkBasic(c, entries)
	if level == LevelStandard || level == LevelStrict {
		v.checkStandard(c, entries)
	}
	if level == LevelStrict {
		v.checkStrict(c, entries)
	}

	return entries.result(level, c)
}

func (v *Validator) checkBasic(c Container, out *entryList) {
	md := c.Metadata()
	if md.Title == "" && md.Identifier == "" && md.Author == "" && md.Language == "" {
		out.add(Entry{
			Code:     CodeMissingMetadata,
			Severity: SeverityCritical,
			Message:  "no document metadata found in the OPF",
			Location: "metadata",
			FixHint:  "add dc:title and dc:identifier elements to the OPF metadata block",
		})
	}
	if len(c.SpineItems()) == 0 {
		out.add(Entry{
			Code:     CodeMissingSpine,
			Severity: SeverityCritical,
			Message:  "spine contains no itemrefs",
			Location: "spine",
			FixHint:  "add itemref elements referencing manifest items in reading order",
		})
	}
	if len(c.Manifest()) == 0 {
		out.add(Entry{
			Code:     CodeMissingManifest,
			Severity: SeverityCritical,
			Message:  "manifest declares no items",
			Location: "manifest",
			FixHint:  "declare every publication resource as a manifest item",
		})
	}
}

func (v *Validator) checkStandard(c Container, out *entryList) {
	md := c.Metadata()
	switch {
	case strings.TrimSpace(md.Title) == "":
		out.add(Entry{
			Code:     CodeMissingTitle,
			Severity: SeverityError,
			Message:  "document has no title",
			Location: "metadata/dc:title",
			FixHint:  "add a non-empty dc:title element",
		})
	case len(md.Title) < MinTitleLength || len(md.Title) > MaxTitleLength:
		out.add(Entry{
			Code:     CodeTitleLength,
			Severity: SeverityError,
			Message:  fmt.Sprintf("title length %d outside [%d, %d]", len(md.Title), MinTitleLength, MaxTitleLength),
			Location: "metadata/dc:title",
			FixHint:  "shorten the title or move extended text to dc:description",
		})
	}
	if strings.TrimSpace(md.Identifier) == "" {
		out.add(Entry{
			Code:     CodeMissingIdentifier,
			Severity: SeverityError,
			Message:  "document has no unique identifier",
			Location: "metadata/dc:identifier",
			FixHint:  "add a dc:identifier element (ISBN, UUID or URI)",
		})
	}

	manifest := c.Manifest()
	for i, item := range c.SpineItems() {
		if strings.TrimSpace(item.ID) == "" {
			out.add(Entry{
				Code:     CodeInvalidSpineItem,
				Severity: SeverityError,
				Message:  fmt.Sprintf("spine itemref %d has an empty idref", i),
				Location: fmt.Sprintf("spine/itemref[%d]", i),
				FixHint:  "set idref to the id of a manifest item",
			})
			continue
		}
		if _, ok := manifest[item.ID]; !ok {
			out.add(Entry{
				Code:     CodeUnresolvedSpineRef,
				Severity: SeverityError,
				Message:  fmt.Sprintf("spine itemref %q does not match any manifest item", item.ID),
				Location: fmt.Sprintf("spine/itemref[%d]", i),
				FixHint:  "declare the referenced resource in the manifest",
			})
		}
	}

	for id, item := range manifest {
		if strings.TrimSpace(item.Href) == "" {
			out.add(Entry{
				Code:     CodeInvalidManifest,
				Severity: SeverityError,
				Message:  fmt.Sprintf("manifest item %q has no href", id),
				Location: "manifest/item[" + id + "]",
				FixHint:  "point href at the resource path inside the container",
			})
			continue
		}
		if strings.TrimSpace(item.MediaType) == "" {
			out.add(Entry{
				Code:     CodeMissingMediaType,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("manifest item %q has no media-type", id),
				Location: "manifest/item[" + id + "]",
				FixHint:  "declare the resource's MIME type",
			})
		}
		if strings.ContainsAny(item.Href, " \t") {
			out.add(Entry{
				Code:     CodeHrefConvention,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("manifest item %q href contains whitespace", id),
				Location: "manifest/item[" + id + "]",
				FixHint:  "rename the resource without spaces and update the href",
			})
		}
	}

	if n := len(c.SpineItems()); n > standardMaxSpineItems {
		out.add(Entry{
			Code:     CodeTooManySpineItems,
			Severity: SeverityError,
			Message:  fmt.Sprintf("spine has %d items, limit is %d", n, standardMaxSpineItems),
			Location: "spine",
		})
	}

	if !c.HasNAV() && !c.HasNCX() {
		out.add(Entry{
			Code:     CodeMissingNavigation,
			Severity: SeverityError,
			Message:  "no navigation document: neither a nav item nor an NCX is declared",
			Location: "manifest",
			FixHint:  "add a nav document (EPUB 3) or an NCX (EPUB 2) to the manifest",
		})
	}
}

func (v *Validator) checkStrict(c Container, out *entryList) {
	if n := len(c.SpineItems()); n > v.cfg.MaxSpineItems {
		out.add(Entry{
			Code:     CodeTooManySpineItems,
			Severity: SeverityError,
			Message:  fmt.Sprintf("spine has %d items, strict limit is %d", n, v.cfg.MaxSpineItems),
			Location: "spine",
		})
	}
	if n := len(c.Manifest()); n > v.cfg.MaxManifestItems {
		out.add(Entry{
			Code:     CodeTooManyManifest,
			Severity: SeverityError,
			Message:  fmt.Sprintf("manifest has %d items, strict limit is %d", n, v.cfg.MaxManifestItems),
			Location: "manifest",
		})
	}

	linear := 0
	for _, item := range c.SpineItems() {
		if item.Linear {
			linear++
		}
	}
	if linear == 0 && len(c.SpineItems()) > 0 {
		out.add(Entry{
			Code:     CodeInvalidSpineItem,
			Severity: SeverityWarning,
			Message:  "no spine item is part of the linear reading order",
			Location: "spine",
			FixHint:  "mark at least one itemref as linear",
		})
	}
}

// entryList accumulates findings and splits them by severity.
type entryList struct {
	errors   []Entry
	warnings []Entry
}

func (l *entryList) add(e Entry) {
	if e.Severity == SeverityWarning {
		l.warnings = append(l.warnings, e)
		return
	}
	l.errors = append(l.errors, e)
}

func (l *entryList) result(level Level, c Container) Result {
	res := Result{
		IsValid:  len(l.errors) == 0,
		Level:    level,
		Errors:   l.errors,
		Warnings: l.warnings,
		Metadata: map[string]any{
			"spine_count":    len(c.SpineItems()),
			"manifest_count": len(c.Manifest()),
			"has_nav":        c.HasNAV(),
			"has_ncx":        c.HasNCX(),
		},
	}
	if res.Errors == nil {
		res.Errors = []Entry{}
	}
	if res.Warnings == nil {
		res.Warnings = []Entry{}
	}
	return res
}
