package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Extraction options
	PreserveHTML        bool
	ExtractMedia        bool
	ReadingSpeedWPM     int
	ChapterHeaderLevels []int

	// EPUB analysis sampling
	SampleSizeStructure int
	SampleSizeContent   int

	// Validation
	StrictMode       bool
	MaxSpineItems    int
	MaxManifestItems int

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("LECTERN_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 104857600), // 100MB

		PreserveHTML:        envBool("PRESERVE_HTML", false),
		ExtractMedia:        envBool("EXTRACT_MEDIA", true),
		ReadingSpeedWPM:     envInt("READING_SPEED_WPM", 200),
		ChapterHeaderLevels: envIntList("CHAPTER_HEADER_LEVELS", []int{1, 2}),

		SampleSizeStructure: envInt("SAMPLE_SIZE_STRUCTURE", 5),
		SampleSizeContent:   envInt("SAMPLE_SIZE_CONTENT", 3),

		StrictMode:       envBool("STRICT_MODE", false),
		MaxSpineItems:    envInt("MAX_SPINE_ITEMS", 1000),
		MaxManifestItems: envInt("MAX_MANIFEST_ITEMS", 2000),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 104857600
	}
	if cfg.ReadingSpeedWPM <= 0 {
		cfg.ReadingSpeedWPM = 200
	}
	if len(cfg.ChapterHeaderLevels) == 0 {
		cfg.ChapterHeaderLevels = []int{1, 2}
	}
	if cfg.SampleSizeStructure <= 0 {
		cfg.SampleSizeStructure = 5
	}
	if cfg.SampleSizeContent <= 0 {
		cfg.SampleSizeContent = 3
	}
	if cfg.MaxSpineItems <= 0 {
		cfg.MaxSpineItems = 1000
	}
	if cfg.MaxManifestItems <= 0 {
		cfg.MaxManifestItems = 2000
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("LECTERN_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envIntList parses a comma-separated list of integers, e.g. "1,2,3".
func envIntList(key string, fallback []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fallback
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
