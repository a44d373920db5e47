package document

import "testing"

func TestCategorizeAssets(t *testing.T) {
	items := []AssetInput{
		{ID: "img1", Href: "images/cover.jpg", MediaType: "image/jpeg"},
		{ID: "img2", Href: "images/fig.png", MediaType: "image/png"},
		{ID: "aud1", Href: "audio/narration.mp3", MediaType: "audio/mpeg"},
		{ID: "vid1", Href: "video/intro.mp4", MediaType: "video/mp4"},
		{ID: "fnt1", Href: "fonts/serif.otf", MediaType: "application/vnd.ms-opentype"},
		{ID: "fnt2", Href: "fonts/sans.woff2", MediaType: "font/woff2"},
		{ID: "css1", Href: "styles/main.css", MediaType: "text/css"},
	}
	assets, errs := CategorizeAssets(items)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(assets.Images) != 2 {
		t.Errorf("images: got %d, want 2", len(assets.Images))
	}
	if len(assets.Audio) != 1 {
		t.Errorf("audio: got %d, want 1", len(assets.Audio))
	}
	if len(assets.Video) != 1 {
		t.Errorf("video: got %d, want 1", len(assets.Video))
	}
	if len(assets.Fonts) != 2 {
		t.Errorf("fonts: got %d, want 2", len(assets.Fonts))
	}
	if len(assets.Other) != 1 {
		t.Errorf("other: got %d, want 1", len(assets.Other))
	}
}

func TestCategorizeAssetsSkipAndContinue(t *testing.T) {
	items := []AssetInput{
		{ID: "good1", Href: "a.jpg", MediaType: "image/jpeg"},
		{ID: "broken", Href: "  ", MediaType: "image/png"},
		{ID: "good2", Href: "b.png", MediaType: "image/png"},
	}
	assets, errs := CategorizeAssets(items)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if len(assets.Images) != 2 {
		t.Errorf("remaining assets not processed: got %d images, want 2", len(assets.Images))
	}
}

func TestCategorizeAssetsEmpty(t *testing.T) {
	assets, errs := CategorizeAssets(nil)
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if len(assets.Images)+len(assets.Audio)+len(assets.Video)+len(assets.Fonts)+len(assets.Other) != 0 {
		t.Errorf("expected empty buckets, got %+v", assets)
	}
}
