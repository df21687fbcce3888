package analysis

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/mrlokans/shelf/internal/utils"
)

// spineStripWidth is the width in pixels of the left-edge strip averaged
// into the dominant color.
const spineStripWidth = 5

var errNoCover = errors.New("no cover image")

// ImageAnalyzer inspects cover images on disk.
type ImageAnalyzer struct {
	recorder FallbackRecorder
}

// NewImageAnalyzer creates an image-backed analyzer. recorder may be nil.
func NewImageAnalyzer(recorder FallbackRecorder) *ImageAnalyzer {
	return &ImageAnalyzer{recorder: recorder}
}

// DominantColor averages a thin strip at the left edge (the spine side) of
// the cover by scaling it down to a single pixel.
func (a *ImageAnalyzer) DominantColor(coverPath string) string {
	hex, err := spineColor(coverPath)
	if err != nil {
		a.fallback("color", coverPath, err)
		return DefaultCoverColor
	}
	return hex
}

// ContrastColor picks dark text for bright colors and light text otherwise.
func (a *ImageAnalyzer) ContrastColor(coverColor string) string {
	brightness, err := utils.Brightness(coverColor)
	if err != nil {
		a.fallback("contrast", coverColor, err)
		return LightText
	}
	if brightness > 128 {
		return DarkText
	}
	return LightText
}

// AspectRatio returns width/height of the cover image.
func (a *ImageAnalyzer) AspectRatio(coverPath string) float64 {
	img, err := openCover(coverPath)
	if err != nil {
		a.fallback("aspect_ratio", coverPath, err)
		return DefaultAspectRatio
	}
	b := img.Bounds()
	if b.Dy() == 0 {
		a.fallback("aspect_ratio", coverPath, errors.New("zero height image"))
		return DefaultAspectRatio
	}
	return float64(b.Dx()) / float64(b.Dy())
}

func (a *ImageAnalyzer) fallback(analysis, subject string, err error) {
	if errors.Is(err, errNoCover) {
		slog.Debug("No cover to analyze, using default", "analysis", analysis)
	} else {
		slog.Warn("Cover analysis failed, using default", "analysis", analysis, "subject", subject, "error", err)
	}
	if a.recorder != nil {
		a.recorder.RecordFallback(analysis)
	}
}

func openCover(coverPath string) (image.Image, error) {
	if coverPath == "" {
		return nil, errNoCover
	}
	img, err := imaging.Open(coverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cover: %w", err)
	}
	return img, nil
}

func spineColor(coverPath string) (string, error) {
	img, err := openCover(coverPath)
	if err != nil {
		return "", err
	}

	b := img.Bounds()
	width := min(spineStripWidth, b.Dx())
	if width <= 0 || b.Dy() <= 0 {
		return "", errors.New("empty image")
	}

	strip := imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+width, b.Max.Y))
	pixel := imaging.Resize(strip, 1, 1, imaging.Box)
	c := pixel.NRGBAAt(0, 0)

	return utils.FormatHexRGB(c.R, c.G, c.B), nil
}
