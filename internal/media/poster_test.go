package media

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestSavePoster(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poster.jpg")

	src := solidImage(1920, 1080, color.RGBA{R: 10, G: 200, B: 30, A: 255})
	if err := SavePoster(path, src, 320); err != nil {
		t.Fatalf("SavePoster() error = %v", err)
	}

	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("failed to open poster: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 320 || b.Dy() != 180 {
		t.Errorf("poster size = %dx%d, want 320x180", b.Dx(), b.Dy())
	}
}

func TestSavePosterDefaultSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poster.jpg")

	src := solidImage(3840, 2160, color.RGBA{A: 255})
	if err := SavePoster(path, src, 0); err != nil {
		t.Fatalf("SavePoster() error = %v", err)
	}

	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("failed to open poster: %v", err)
	}
	if img.Bounds().Dx() != DefaultPosterSize {
		t.Errorf("poster width = %d, want %d", img.Bounds().Dx(), DefaultPosterSize)
	}
}

func TestSavePosterBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "poster.jpg")

	if err := SavePoster(path, solidImage(10, 10, color.RGBA{A: 255}), 10); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
