// Package analysis derives presentation attributes of a book from its cover
// image: a dominant spine color, a readable text color on top of it, the
// cover aspect ratio and a nonlinear thickness value from the page count.
//
// Two Analyzer implementations exist. ImageAnalyzer decodes covers with
// github.com/disintegration/imaging; FallbackAnalyzer returns fixed defaults.
// Select picks one of them once at startup, so callers never check for
// image support themselves.
package analysis

import (
	"bytes"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
)

const (
	// DefaultCoverColor is used when the cover cannot be inspected (saddle brown).
	DefaultCoverColor = "#8B4513"
	// DarkText is the contrast color for bright covers.
	DarkText = "#111"
	// LightText is the contrast color for dark covers and the default.
	LightText = "#eee"
	// DefaultAspectRatio is a typical paperback width/height.
	DefaultAspectRatio = 0.67

	// MinThickness is the lower bound of Thickness.
	MinThickness = 8.0
)

// Analyzer derives cover presentation attributes. Implementations never
// fail: every error degrades to the documented default.
type Analyzer interface {
	DominantColor(coverPath string) string
	ContrastColor(coverColor string) string
	AspectRatio(coverPath string) float64
}

// FallbackRecorder receives a note every time an analysis degrades to its
// default. *metrics.Metrics satisfies it.
type FallbackRecorder interface {
	RecordFallback(analysis string)
}

// Thickness maps a page count to the visual thickness of a book spine:
// max(0.85 * pages^0.6, 8).
func Thickness(pageCount int) float64 {
	if pageCount < 0 {
		pageCount = 0
	}
	return math.Max(0.85*math.Pow(float64(pageCount), 0.6), MinThickness)
}

// Select returns an image-backed analyzer when image analysis is enabled
// and the imaging codecs work in this build, otherwise a FallbackAnalyzer.
func Select(enabled bool, recorder FallbackRecorder) Analyzer {
	if !enabled {
		slog.Info("Image analysis disabled, cover colors and aspect ratios will use defaults")
		return FallbackAnalyzer{}
	}
	if err := probeImaging(); err != nil {
		slog.Warn("Image analysis not available, cover colors and aspect ratios will use defaults", "error", err)
		return FallbackAnalyzer{}
	}
	return NewImageAnalyzer(recorder)
}

// probeImaging round-trips a tiny JPEG through the imaging codecs.
func probeImaging() error {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.NRGBA{R: 200, G: 10, B: 10, A: 255})

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.JPEG); err != nil {
		return err
	}
	_, err := imaging.Decode(&buf)
	return err
}

// FallbackAnalyzer returns fixed defaults without touching the filesystem.
type FallbackAnalyzer struct{}

func (FallbackAnalyzer) DominantColor(string) string { return DefaultCoverColor }

// ContrastColor returns LightText without inspecting the color, matching the
// behaviour of a build without image support.
func (FallbackAnalyzer) ContrastColor(string) string { return LightText }

func (FallbackAnalyzer) AspectRatio(string) float64 { return DefaultAspectRatio }
