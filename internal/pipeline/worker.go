package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/lecternhq/lectern/internal/config"
	"github.com/lecternhq/lectern/internal/document"
	"github.com/lecternhq/lectern/internal/epub"
	"github.com/lecternhq/lectern/internal/epub/compat"
	"github.com/lecternhq/lectern/internal/extract"
	"github.com/lecternhq/lectern/internal/validate"
)

// Worker processes a single document job: parse, extract chapters,
// enrich hierarchy, assemble the final structure.
type Worker struct {
	log       *slog.Logger
	cfg       config.Config
	validator *validate.Validator
	analyzer  *compat.Analyzer
	timings   *extract.Timings
}

func NewWorker(log *slog.Logger, cfg config.Config, timings *extract.Timings) *Worker {
	return &Worker{
		log: log,
		cfg: cfg,
		validator: validate.New(log, validate.Config{
			MaxSpineItems:    cfg.MaxSpineItems,
			MaxManifestItems: cfg.MaxManifestItems,
		}),
		analyzer: compat.NewAnalyzer(log, compat.Config{
			StructureSampleSize: cfg.SampleSizeStructure,
			ContentSampleSize:   cfg.SampleSizeContent,
		}),
		timings: timings,
	}
}

func (w *Worker) options() extract.Options {
	return extract.Options{
		PreserveHTML:        w.cfg.PreserveHTML,
		ExtractMedia:        w.cfg.ExtractMedia,
		ReadingSpeedWPM:     w.cfg.ReadingSpeedWPM,
		ChapterHeaderLevels: w.cfg.ChapterHeaderLevels,
	}
}

// Process runs the full extraction pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	started := time.Now()

	if ctx.Err() != nil {
		w.fail(job, "queued", ctx.Err())
		return
	}

	data := job.FileData()
	job.ContentHash = ContentHashHex(data)

	// Phase 1: parse the container.
	job.SetStatus(StatusParsing, "parsing")
	format, err := extract.FormatForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		w.fail(job, "parsing", err)
		return
	}
	job.Format = format
	opts := w.options()

	var (
		ex         extract.ChapterExtractor
		md         document.Metadata
		toc        []document.TOCItem
		assets     document.EmbeddedAssets
		procErrors []string
	)

	switch format {
	case extract.FormatEPUB:
		ex, md, toc, assets, procErrors, err = w.prepareEPUB(job, data, opts)
	case extract.FormatPDF:
		ex, err = extract.NewPDF(data)
	case extract.FormatMarkdown:
		ex = extract.NewMarkdown(data, opts)
	case extract.FormatHTML:
		ex, err = extract.NewHTML(data, opts)
	case extract.FormatDOCX:
		ex, err = extract.NewDOCX(data, opts)
	case extract.FormatText:
		ex = extract.NewText(string(data))
	default:
		err = fmt.Errorf("no extractor for format %s", format)
	}
	if err != nil {
		log.Error("parse failed", "format", format, "error", err)
		w.fail(job, "parsing", fmt.Errorf("parse: %w", err))
		return
	}

	md.Format = string(format)
	if md.Title == "" {
		md.Title = job.Title
	}
	if md.Title == "" {
		md.Title = strings.TrimSuffix(job.Filename, filepath.Ext(job.Filename))
	}

	// Phase 2: extract chapters in reading order.
	job.SetStatus(StatusExtracting, "extracting chapters")
	chapters, extractErrors, err := extract.Run(log, ex, opts)
	if err != nil {
		log.Error("extraction failed", "error", err)
		w.fail(job, "extracting", err)
		return
	}
	procErrors = append(procErrors, extractErrors...)
	for _, e := range extractErrors {
		job.AddError(e)
	}

	// Phase 3: assemble the document structure.
	job.SetStatus(StatusAssembling, "assembling structure")
	document.EnrichHierarchy(chapters)
	doc := document.Assemble(document.AssembleInput{
		Metadata:  md,
		Chapters:  chapters,
		TOC:       toc,
		Assets:    assets,
		StartedAt: started,
		Errors:    procErrors,
	})

	job.SetResult(&doc)
	job.SetProgress(len(chapters), len(chapters)-len(extractErrors), doc.TotalChapters, doc.TotalWordCount)
	job.SetStatus(StatusCompleted, "done")

	w.timings.Record(string(format), time.Since(started).Milliseconds())
	log.Info("extraction complete",
		"chapters", doc.TotalChapters,
		"words", doc.TotalWordCount,
		"confidence", doc.Confidence,
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

// prepareEPUB opens the container, runs validation and compatibility
// analysis, and builds the spine extractor. Compatibility fixes are
// applied to the metadata and TOC before they reach the assembler.
func (w *Worker) prepareEPUB(job *Job, data []byte, opts extract.Options) (extract.ChapterExtractor, document.Metadata, []document.TOCItem, document.EmbeddedAssets, []string, error) {
	book, err := epub.Open(data)
	if err != nil {
		return nil, document.Metadata{}, nil, document.EmbeddedAssets{}, nil, err
	}

	var procErrors []string
	procErrors = append(procErrors, book.Warnings()...)

	analysis := w.analyzer.Analyze(book)
	level := validate.LevelStandard
	if w.cfg.StrictMode {
		level = validate.LevelStrict
	}
	vres := w.validator.Validate(book, level)
	job.SetAnalysis(&vres, &analysis)
	procErrors = append(procErrors, analysis.Warnings...)

	fixedMD, fixedTOC := compat.ApplyFixes(book.Metadata(), book.TOC(), analysis.RequiredFallbacks)

	md := document.Metadata{
		Title:    fixedMD.Title,
		Author:   fixedMD.Author,
		Language: fixedMD.Language,
		Custom: map[string]string{
			"epub_version": string(analysis.DetectedVersion),
		},
	}
	if fixedMD.Identifier != "" {
		md.Custom["identifier"] = fixedMD.Identifier
	}
	if fixedMD.Publisher != "" {
		md.Custom["publisher"] = fixedMD.Publisher
	}

	epubEx := extract.NewEPUB(book)

	var assets document.EmbeddedAssets
	if opts.ExtractMedia {
		var assetErrs []error
		assets, assetErrs = epubEx.CollectAssets()
		for _, e := range assetErrs {
			procErrors = append(procErrors, fmt.Sprintf("asset: %v", e))
		}
	}

	return epubEx, md, fixedTOC, assets, procErrors, nil
}

func (w *Worker) fail(job *Job, phase string, err error) {
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
}
