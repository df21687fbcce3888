package analysis

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedAnalyzer memoizes cover analyses across records so a cover is
// decoded at most once per analysis while it stays in the cache.
type CachedAnalyzer struct {
	inner  Analyzer
	colors *lru.Cache[string, string]
	ratios *lru.Cache[string, float64]
}

// NewCachedAnalyzer wraps inner with two LRU caches of the given size.
// A non-positive size disables caching and returns inner unchanged.
func NewCachedAnalyzer(inner Analyzer, size int) (Analyzer, error) {
	if size <= 0 {
		return inner, nil
	}
	colors, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create color cache: %w", err)
	}
	ratios, err := lru.New[string, float64](size)
	if err != nil {
		return nil, fmt.Errorf("create aspect ratio cache: %w", err)
	}
	return &CachedAnalyzer{inner: inner, colors: colors, ratios: ratios}, nil
}

func (c *CachedAnalyzer) DominantColor(coverPath string) string {
	if coverPath == "" {
		return c.inner.DominantColor(coverPath)
	}
	if hex, ok := c.colors.Get(coverPath); ok {
		return hex
	}
	hex := c.inner.DominantColor(coverPath)
	c.colors.Add(coverPath, hex)
	return hex
}

// ContrastColor is pure, so it is not cached.
func (c *CachedAnalyzer) ContrastColor(coverColor string) string {
	return c.inner.ContrastColor(coverColor)
}

func (c *CachedAnalyzer) AspectRatio(coverPath string) float64 {
	if coverPath == "" {
		return c.inner.AspectRatio(coverPath)
	}
	if ratio, ok := c.ratios.Get(coverPath); ok {
		return ratio
	}
	ratio := c.inner.AspectRatio(coverPath)
	c.ratios.Add(coverPath, ratio)
	return ratio
}

// len reports the number of cached entries across both caches.
func (c *CachedAnalyzer) len() int {
	return c.colors.Len() + c.ratios.Len()
}
