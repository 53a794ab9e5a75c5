package media

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// DefaultPosterSize bounds the longest edge of a poster thumbnail.
const DefaultPosterSize = 640

// SavePoster writes a JPEG thumbnail of img to path, fitted within
// maxSize x maxSize. The format follows the path extension.
func SavePoster(path string, img image.Image, maxSize int) error {
	if maxSize <= 0 {
		maxSize = DefaultPosterSize
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
	if err := imaging.Save(thumb, path, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("failed to save poster %s: %w", path, err)
	}
	return nil
}
