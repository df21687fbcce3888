package analysis

import (
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) RecordFallback(analysis string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[analysis]++
}

// writeCover writes a PNG-encoded cover whose leftmost stripe columns use
// spine and the rest use body.
func writeCover(t *testing.T, dir, name string, width, height, stripe int, spine, body color.NRGBA) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < stripe {
				img.SetNRGBA(x, y, spine)
			} else {
				img.SetNRGBA(x, y, body)
			}
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, imaging.Encode(f, img, imaging.PNG))
	return path
}

var (
	red  = color.NRGBA{R: 200, G: 30, B: 40, A: 255}
	blue = color.NRGBA{R: 10, G: 20, B: 230, A: 255}
)

func TestThickness(t *testing.T) {
	t.Run("default page count", func(t *testing.T) {
		assert.InDelta(t, 0.85*math.Pow(300, 0.6), Thickness(300), 1e-9)
	})

	t.Run("never below minimum", func(t *testing.T) {
		for _, pages := range []int{0, 1, 5, 10, 20, 30} {
			assert.GreaterOrEqual(t, Thickness(pages), MinThickness, "pages=%d", pages)
		}
		assert.Equal(t, MinThickness, Thickness(0))
		assert.Equal(t, MinThickness, Thickness(-5))
	})

	t.Run("monotonically non-decreasing", func(t *testing.T) {
		prev := Thickness(0)
		for pages := 1; pages <= 5000; pages += 7 {
			cur := Thickness(pages)
			assert.GreaterOrEqual(t, cur, prev, "pages=%d", pages)
			prev = cur
		}
	})
}

func TestImageAnalyzer_DominantColor(t *testing.T) {
	dir := t.TempDir()

	t.Run("averages the left edge", func(t *testing.T) {
		path := writeCover(t, dir, "cover.jpg", 100, 150, 5, red, blue)
		a := NewImageAnalyzer(nil)
		assert.Equal(t, "#c81e28", a.DominantColor(path))
	})

	t.Run("image narrower than the strip", func(t *testing.T) {
		path := writeCover(t, dir, "narrow.png", 3, 40, 3, blue, blue)
		a := NewImageAnalyzer(nil)
		assert.Equal(t, "#0a14e6", a.DominantColor(path))
	})

	t.Run("missing file falls back", func(t *testing.T) {
		rec := &countingRecorder{}
		a := NewImageAnalyzer(rec)
		assert.Equal(t, DefaultCoverColor, a.DominantColor(filepath.Join(dir, "missing.jpg")))
		assert.Equal(t, 1, rec.counts["color"])
	})

	t.Run("corrupt file falls back", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.jpg")
		require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0644))
		a := NewImageAnalyzer(nil)
		assert.Equal(t, DefaultCoverColor, a.DominantColor(path))
	})

	t.Run("no cover falls back", func(t *testing.T) {
		rec := &countingRecorder{}
		a := NewImageAnalyzer(rec)
		assert.Equal(t, DefaultCoverColor, a.DominantColor(""))
		assert.Equal(t, 1, rec.counts["color"])
	})
}

func TestImageAnalyzer_ContrastColor(t *testing.T) {
	a := NewImageAnalyzer(nil)

	tests := []struct {
		input    string
		expected string
	}{
		{"#ffffff", DarkText},
		{"#000000", LightText},
		{"#808080", LightText}, // brightness exactly 128
		{"#818181", DarkText},
		{"#8B4513", LightText},
		{"#c81e28", LightText},
		{"#f0e68c", DarkText},
		{"garbage", LightText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := a.ContrastColor(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, a.ContrastColor(tt.input))
		})
	}
}

func TestImageAnalyzer_AspectRatio(t *testing.T) {
	dir := t.TempDir()
	a := NewImageAnalyzer(nil)

	path := writeCover(t, dir, "cover.jpg", 100, 150, 5, red, blue)
	assert.InDelta(t, 100.0/150.0, a.AspectRatio(path), 1e-9)

	assert.Equal(t, DefaultAspectRatio, a.AspectRatio(filepath.Join(dir, "missing.jpg")))
	assert.Equal(t, DefaultAspectRatio, a.AspectRatio(""))
}

func TestFallbackAnalyzer(t *testing.T) {
	var a Analyzer = FallbackAnalyzer{}

	assert.Equal(t, DefaultCoverColor, a.DominantColor("/any/cover.jpg"))
	assert.Equal(t, LightText, a.ContrastColor("#ffffff"))
	assert.Equal(t, DefaultAspectRatio, a.AspectRatio("/any/cover.jpg"))
}

func TestSelect(t *testing.T) {
	t.Run("disabled returns fallback", func(t *testing.T) {
		assert.IsType(t, FallbackAnalyzer{}, Select(false, nil))
	})

	t.Run("enabled returns image analyzer", func(t *testing.T) {
		assert.IsType(t, &ImageAnalyzer{}, Select(true, nil))
	})
}
