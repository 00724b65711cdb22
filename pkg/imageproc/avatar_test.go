package imageproc

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	blue  = color.NRGBA{R: 20, G: 40, B: 200, A: 255}
	red   = color.NRGBA{R: 200, G: 10, B: 10, A: 255}
)

// framed returns a w×h image filled with border, with an inner rectangle of fill.
func framed(w, h int, border, fill color.Color, inner image.Rectangle) *image.NRGBA {
	img := imaging.New(w, h, border)
	for y := inner.Min.Y; y < inner.Max.Y; y++ {
		for x := inner.Min.X; x < inner.Max.X; x++ {
			img.Set(x, y, fill)
		}
	}
	return img
}

func writeImage(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, imaging.Save(img, path))
	return path
}

func decodedBounds(t *testing.T, path string) image.Rectangle {
	t.Helper()
	img, err := imaging.Open(path)
	require.NoError(t, err)
	return img.Bounds()
}

func TestAvatarNormalizer_AlwaysSquare(t *testing.T) {
	tests := []struct {
		name string
		file string
		w, h int
	}{
		{"landscape png", "wide.png", 800, 200},
		{"portrait jpeg", "tall.jpg", 120, 640},
		{"tiny gif", "tiny.gif", 7, 3},
		{"already square", "square.png", 250, 250},
		{"large square", "big.jpeg", 1024, 1024},
	}

	n := NewAvatarNormalizer(DefaultAvatarSize)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := framed(tt.w, tt.h, red, blue, image.Rect(0, 0, tt.w/2+1, tt.h/2+1))
			path := writeImage(t, tt.file, img)

			require.NoError(t, n.Normalize(path))

			b := decodedBounds(t, path)
			assert.Equal(t, 250, b.Dx())
			assert.Equal(t, 250, b.Dy())
		})
	}
}

func TestAvatarNormalizer_UnknownExtensionWritesPNG(t *testing.T) {
	path := writeImage(t, "avatar.png", imaging.New(40, 30, blue))
	renamed := filepath.Join(filepath.Dir(path), "1700000000000_42_avatar")
	require.NoError(t, os.Rename(path, renamed))

	require.NoError(t, NewAvatarNormalizer(64).Normalize(renamed))

	f, err := os.Open(renamed)
	require.NoError(t, err)
	defer f.Close()
	_, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestAvatarNormalizer_Undecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a png"), 0o600))

	err := NewAvatarNormalizer(DefaultAvatarSize).Normalize(path)
	assert.ErrorIs(t, err, ErrUndecodable)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "definitely not a png", string(data))
}

// pngHeader returns a PNG that declares w×h 1-bit grayscale pixels but carries
// no image data, which is enough for image.DecodeConfig.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 1 // bit depth
	ihdr[9] = 0 // grayscale

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestAvatarNormalizer_RejectsHugeDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bomb.png")
	data := pngHeader(30000, 30000)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	err := NewAvatarNormalizer(DefaultAvatarSize).Normalize(path)
	require.ErrorIs(t, err, ErrUndecodable)
	assert.Contains(t, err.Error(), "30000x30000")

	kept, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, data, kept)
}

func TestAvatarNormalizer_WithMaxPixels(t *testing.T) {
	n := NewAvatarNormalizer(DefaultAvatarSize).WithMaxPixels(100 * 100)

	path := writeImage(t, "wide.png", imaging.New(101, 100, blue))
	assert.ErrorIs(t, n.Normalize(path), ErrUndecodable)

	path = writeImage(t, "fits.png", imaging.New(100, 100, blue))
	require.NoError(t, n.Normalize(path))
	assert.Equal(t, image.Rect(0, 0, DefaultAvatarSize, DefaultAvatarSize), decodedBounds(t, path))
}

func TestAvatarNormalizer_MissingFile(t *testing.T) {
	err := NewAvatarNormalizer(DefaultAvatarSize).Normalize(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUndecodable)
}

func TestAutoCrop_TrimsUniformBorder(t *testing.T) {
	img := framed(200, 100, white, blue, image.Rect(30, 10, 130, 70))

	cropped := AutoCrop(img, DefaultCropTolerance)

	assert.Equal(t, 100, cropped.Bounds().Dx())
	assert.Equal(t, 60, cropped.Bounds().Dy())
	r, g, b, _ := cropped.At(cropped.Bounds().Min.X, cropped.Bounds().Min.Y).RGBA()
	assert.Equal(t, [3]uint32{uint32(blue.R) * 0x101, uint32(blue.G) * 0x101, uint32(blue.B) * 0x101}, [3]uint32{r, g, b})
}

func TestAutoCrop_UniformImageUnchanged(t *testing.T) {
	img := imaging.New(50, 40, white)

	cropped := AutoCrop(img, DefaultCropTolerance)

	assert.Equal(t, img.Bounds(), cropped.Bounds())
}

func TestAutoCrop_NoBorder(t *testing.T) {
	img := imaging.New(60, 60, white)
	img.Set(0, 0, red)

	cropped := AutoCrop(img, DefaultCropTolerance)

	assert.Equal(t, img.Bounds(), cropped.Bounds())
}

func TestNewAvatarNormalizer_DefaultSize(t *testing.T) {
	assert.Equal(t, DefaultAvatarSize, NewAvatarNormalizer(0).Size())
	assert.Equal(t, 128, NewAvatarNormalizer(128).Size())
}
