package intake

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"creative-approval-engine/internal/engine"
)

// accepted maps sniffed MIME types to the format tag the engine reports.
var accepted = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPEG",
	"image/gif":  "GIF",
}

// Images above this pixel count are refused before a full decode. Same ceiling
// as the usual decompression-bomb guard (1 GiB of 24-bit pixels / 4 / 3).
const maxDecodePixels = 89_478_485

// Decoder turns upload bytes into engine.ImageFacts.
type Decoder struct {
	MaxBytes int64
}

func NewDecoder(maxBytes int64) *Decoder { return &Decoder{MaxBytes: maxBytes} }

// ReadUpload reads at most MaxBytes+1 bytes so oversized uploads fail fast.
func (d *Decoder) ReadUpload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, d.MaxBytes+1))
	if err != nil {
		return nil, newInputError(KindUnreadableImage, "failed to read upload", err)
	}
	if err := d.checkSize(len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

func (d *Decoder) checkSize(n int) error {
	if n == 0 {
		return ErrEmptyFile
	}
	if int64(n) > d.MaxBytes {
		return newInputError(KindFileTooLarge,
			fmt.Sprintf("uploaded file exceeds %d bytes", d.MaxBytes), nil)
	}
	return nil
}

// Decode sniffs, decodes and measures an image. ctx is checked between pixel rows.
func (d *Decoder) Decode(ctx context.Context, data []byte) (engine.ImageFacts, error) {
	if err := d.checkSize(len(data)); err != nil {
		return engine.ImageFacts{}, err
	}

	mt := mimetype.Detect(data)
	format, ok := accepted[mt.String()]
	if !ok {
		if !strings.HasPrefix(mt.String(), "image/") {
			return engine.ImageFacts{}, ErrUnreadableImage
		}
		return engine.ImageFacts{}, newInputError(KindUnsupportedFormat,
			fmt.Sprintf("unsupported image format: %s. Please upload a PNG, JPEG or GIF.", mt.String()), nil)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return engine.ImageFacts{}, newInputError(KindUnreadableImage, ErrUnreadableImage.Message, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return engine.ImageFacts{}, ErrUnreadableImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxDecodePixels {
		return engine.ImageFacts{}, newInputError(KindFileTooLarge,
			fmt.Sprintf("image dimensions %dx%d exceed the decoder limit", cfg.Width, cfg.Height), nil)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return engine.ImageFacts{}, newInputError(KindUnreadableImage, ErrUnreadableImage.Message, err)
	}

	contrast, err := Contrast(ctx, img)
	if err != nil {
		return engine.ImageFacts{}, err
	}

	b := img.Bounds()
	return engine.ImageFacts{
		Format:   format,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Size:     len(data),
		Contrast: contrast,
	}, nil
}

// Contrast is the population standard deviation of 8-bit luma. Alpha is
// ignored: pixels are un-premultiplied and weighted 299/587/114.
func Contrast(ctx context.Context, img image.Image) (float64, error) {
	b := img.Bounds()
	n := float64(b.Dx() * b.Dy())
	if n == 0 {
		return 0, nil
	}

	var sum, sum2 float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			l := float64(luma(img.At(x, y)))
			sum += l
			sum2 += l * l
		}
	}

	mean := sum / n
	v := sum2/n - mean*mean
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v), nil
}

func luma(c color.Color) uint8 {
	p := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint8((299*uint32(p.R) + 587*uint32(p.G) + 114*uint32(p.B) + 500) / 1000)
}
