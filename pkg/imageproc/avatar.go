package imageproc

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

const (
	// DefaultAvatarSize is the edge length of a normalized avatar.
	DefaultAvatarSize = 250
	// DefaultCropTolerance is the largest per-channel difference, as a fraction of
	// full scale, for a pixel to still count as border.
	DefaultCropTolerance = 0.0002
	// DefaultMaxPixels bounds width×height of an accepted upload. Small files can
	// declare huge dimensions, so this is checked before decoding.
	DefaultMaxPixels = 4096 * 4096
)

// ErrUndecodable is returned when the input is not a supported image.
var ErrUndecodable = errors.New("image cannot be decoded")

// AvatarNormalizer turns an uploaded picture into a fixed-size square avatar.
type AvatarNormalizer struct {
	size      int
	tolerance float64
	maxPixels int
}

// NewAvatarNormalizer creates a normalizer producing size×size images.
func NewAvatarNormalizer(size int) *AvatarNormalizer {
	if size <= 0 {
		size = DefaultAvatarSize
	}
	return &AvatarNormalizer{size: size, tolerance: DefaultCropTolerance, maxPixels: DefaultMaxPixels}
}

// WithMaxPixels returns a copy of n that rejects images larger than limit pixels.
func (n *AvatarNormalizer) WithMaxPixels(limit int) *AvatarNormalizer {
	c := *n
	if limit > 0 {
		c.maxPixels = limit
	}
	return &c
}

// Size returns the edge length of the produced avatars.
func (n *AvatarNormalizer) Size() int {
	return n.size
}

// Normalize rewrites the image at path in place: uniform borders are trimmed and the
// rest is cover-resized to a centered size×size square. The encoding follows the file
// extension, falling back to PNG.
func (n *AvatarNormalizer) Normalize(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer src.Close()

	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > n.maxPixels/cfg.Height {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUndecodable, cfg.Width, cfg.Height, n.maxPixels)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind image: %w", err)
	}

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	_ = src.Close()

	img = AutoCrop(img, n.tolerance)
	out := imaging.Fill(img, n.size, n.size, imaging.Center, imaging.Lanczos)

	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		format = imaging.PNG
	}

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to rewrite image: %w", err)
	}
	if err := imaging.Encode(dst, out, format); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to rewrite image: %w", err)
	}

	return nil
}

// AutoCrop removes the borders of img whose pixels all match the top-left pixel
// within tolerance. An image that is uniform everywhere is returned unchanged.
func AutoCrop(img image.Image, tolerance float64) image.Image {
	b := img.Bounds()
	if b.Empty() {
		return img
	}
	ref := img.At(b.Min.X, b.Min.Y)

	rowUniform := func(y, x0, x1 int) bool {
		for x := x0; x <= x1; x++ {
			if !similar(img.At(x, y), ref, tolerance) {
				return false
			}
		}
		return true
	}
	colUniform := func(x, y0, y1 int) bool {
		for y := y0; y <= y1; y++ {
			if !similar(img.At(x, y), ref, tolerance) {
				return false
			}
		}
		return true
	}

	top := b.Min.Y
	for top < b.Max.Y && rowUniform(top, b.Min.X, b.Max.X-1) {
		top++
	}
	if top == b.Max.Y {
		return img
	}

	bottom := b.Max.Y - 1
	for bottom > top && rowUniform(bottom, b.Min.X, b.Max.X-1) {
		bottom--
	}

	left := b.Min.X
	for left < b.Max.X && colUniform(left, top, bottom) {
		left++
	}

	right := b.Max.X - 1
	for right > left && colUniform(right, top, bottom) {
		right--
	}

	crop := image.Rect(left, top, right+1, bottom+1)
	if crop.Eq(b) {
		return img
	}
	return imaging.Crop(img, crop)
}

func similar(a, b color.Color, tolerance float64) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()

	limit := uint32(tolerance * 0xffff)
	return absDiff(r1, r2) <= limit &&
		absDiff(g1, g2) <= limit &&
		absDiff(b1, b2) <= limit &&
		absDiff(a1, a2) <= limit
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
