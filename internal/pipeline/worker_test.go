package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lecternhq/lectern/internal/config"
	"github.com/lecternhq/lectern/internal/extract"
)

func testConfig() config.Config {
	return config.Config{
		WorkerCount:         1,
		MaxQueueSize:        8,
		MaxUploadBytes:      1 << 20,
		ReadingSpeedWPM:     200,
		ChapterHeaderLevels: []int{1, 2},
		SampleSizeStructure: 5,
		SampleSizeContent:   3,
		MaxSpineItems:       1000,
		MaxManifestItems:    2000,
		JobTTL:              time.Hour,
	}
}

func newTestWorker() *Worker {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWorker(log, testConfig(), extract.NewTimings(time.Hour))
}

func newTestJob(filename string, data []byte) *Job {
	now := time.Now()
	job := &Job{
		ID:        NewJobID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)
	return job
}

func TestWorkerProcessText(t *testing.T) {
	w := newTestWorker()
	job := newTestJob("notes.txt", []byte("Chapter 1\nHello world today.\nChapter 2\nGoodbye cruel world."))

	w.Process(context.Background(), job)

	if job.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed (errors: %v)", job.Status, job.Snapshot().Progress.Errors)
	}
	doc := job.Result()
	if doc == nil {
		t.Fatal("expected a result")
	}
	if doc.TotalChapters != 2 {
		t.Errorf("chapters = %d, want 2", doc.TotalChapters)
	}
	if doc.Metadata.Format != "text" {
		t.Errorf("format = %q, want text", doc.Metadata.Format)
	}
	// Title falls back to the filename stem.
	if doc.Metadata.Title != "notes" {
		t.Errorf("title = %q, want notes", doc.Metadata.Title)
	}
	if job.ContentHash == "" {
		t.Error("expected content hash to be set")
	}
	if job.FileData() != nil {
		t.Error("expected upload bytes to be released after completion")
	}
}

func TestWorkerProcessMarkdown(t *testing.T) {
	w := newTestWorker()
	src := "# First\n\nSome opening prose.\n\n# Second\n\nClosing prose here.\n"
	job := newTestJob("book.md", []byte(src))
	job.Title = "My Book"

	w.Process(context.Background(), job)

	if job.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", job.Status)
	}
	doc := job.Result()
	if doc.TotalChapters != 2 {
		t.Errorf("chapters = %d, want 2", doc.TotalChapters)
	}
	// Explicit title from the upload wins over the filename.
	if doc.Metadata.Title != "My Book" {
		t.Errorf("title = %q, want My Book", doc.Metadata.Title)
	}
	if doc.Chapters[0].Title != "First" {
		t.Errorf("chapter 0 title = %q, want First", doc.Chapters[0].Title)
	}
}

func TestWorkerUnsupportedFormatFails(t *testing.T) {
	w := newTestWorker()
	job := newTestJob("image.png", []byte{0x89, 0x50, 0x4e, 0x47})

	w.Process(context.Background(), job)

	if job.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", job.Status)
	}
	snap := job.Snapshot()
	if len(snap.Progress.Errors) == 0 {
		t.Error("expected an error to be recorded")
	}
}

func TestWorkerCorruptEPUBFails(t *testing.T) {
	w := newTestWorker()
	job := newTestJob("broken.epub", []byte("this is not a zip archive"))

	w.Process(context.Background(), job)

	if job.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", job.Status)
	}
}

func TestWorkerCancelledContext(t *testing.T) {
	w := newTestWorker()
	job := newTestJob("notes.txt", []byte("Chapter 1\nHello."))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Process(ctx, job)

	if job.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", job.Status)
	}
}

func TestWorkerRecordsTimings(t *testing.T) {
	timings := extract.NewTimings(time.Hour)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := NewWorker(log, testConfig(), timings)

	job := newTestJob("notes.txt", []byte("Chapter 1\nHello world."))
	w.Process(context.Background(), job)

	snap := timings.Snapshot()
	if _, ok := snap["text"]; !ok {
		t.Errorf("expected a text entry in timings, got %v", snap)
	}
}
