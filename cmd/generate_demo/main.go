// Command generate_demo creates a demo Calibre library with public domain books.
// Usage: go run ./cmd/generate_demo [-dir path/to/library]
package main

import (
	"flag"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/mrlokans/shelf/internal/calibre/calibretest"
)

const defaultDemoLibraryPath = "./demo/library"

// builder adapts calibretest to a command: failures are fatal and the
// library is created in a fixed directory.
type builder struct {
	dir      string
	cleanups []func()
}

func (b *builder) Helper()                           {}
func (b *builder) Fatalf(format string, args ...any) { log.Fatalf(format, args...) }
func (b *builder) TempDir() string                   { return b.dir }
func (b *builder) Cleanup(f func())                  { b.cleanups = append(b.cleanups, f) }

func (b *builder) close() {
	for i := len(b.cleanups) - 1; i >= 0; i-- {
		b.cleanups[i]()
	}
}

func main() {
	dir := flag.String("dir", defaultDemoLibraryPath, "directory of the demo library")
	flag.Parse()

	log.Printf("Generating demo library at %s...", *dir)

	// Start fresh
	if err := os.RemoveAll(*dir); err != nil {
		log.Fatalf("Failed to remove existing demo library: %v", err)
	}
	if err := os.MkdirAll(*dir, 0755); err != nil {
		log.Fatalf("Failed to create demo library directory: %v", err)
	}

	b := &builder{dir: *dir}
	defer b.close()

	library := calibretest.NewLibrary(b).EnablePageCounts()
	for _, book := range publicDomainBooks() {
		id := library.AddBook(book)
		log.Printf("Saved: %s by %s (id %d)", book.Title, book.Authors[0], id)
	}

	abs, _ := filepath.Abs(*dir)
	log.Printf("Demo library created. Run: LIBRARY_PATH=%s shelf serve", abs)
}

func cover(spine, body color.NRGBA) image.Image {
	return calibretest.SolidCover(400, 600, spine, body)
}

func publicDomainBooks() []calibretest.Book {
	rgb := func(r, g, b uint8) color.NRGBA { return color.NRGBA{R: r, G: g, B: b, A: 255} }
	epub := func(name string) []calibretest.Format {
		return []calibretest.Format{{Name: name, Format: "EPUB"}}
	}

	return []calibretest.Book{
		{
			Title:       "Meditations",
			Authors:     []string{"Marcus Aurelius"},
			AuthorSort:  "Aurelius, Marcus",
			Description: "<p>Private notes of a Roman emperor on Stoic philosophy.</p>",
			PageCount:   254,
			Formats:     epub("meditations"),
			Cover:       cover(rgb(112, 28, 28), rgb(230, 220, 200)),
		},
		{
			Title:       "Pride and Prejudice",
			Authors:     []string{"Jane Austen"},
			AuthorSort:  "Austen, Jane",
			Description: "<p>Elizabeth Bennet and Mr. Darcy, and the trouble with first impressions.</p>",
			PageCount:   432,
			Formats:     []calibretest.Format{{Name: "pride", Format: "AZW3"}, {Name: "pride", Format: "EPUB"}},
			Cover:       cover(rgb(236, 214, 160), rgb(90, 60, 40)),
		},
		{
			Title:       "A Study in Scarlet",
			Authors:     []string{"Arthur Conan Doyle"},
			AuthorSort:  "Doyle, Arthur Conan",
			Series:      "Sherlock Holmes",
			SeriesIndex: 1,
			PageCount:   188,
			Formats:     epub("scarlet"),
			Cover:       cover(rgb(160, 20, 30), rgb(20, 20, 20)),
		},
		{
			Title:       "The Sign of the Four",
			Authors:     []string{"Arthur Conan Doyle"},
			AuthorSort:  "Doyle, Arthur Conan",
			Series:      "Sherlock Holmes",
			SeriesIndex: 2,
			PageCount:   176,
			Formats:     epub("sign"),
			Cover:       cover(rgb(30, 50, 90), rgb(200, 200, 190)),
		},
		{
			Title:       "The Adventures of Sherlock Holmes",
			Authors:     []string{"Arthur Conan Doyle"},
			AuthorSort:  "Doyle, Arthur Conan",
			Series:      "Sherlock Holmes",
			SeriesIndex: 3,
			PageCount:   307,
			Formats:     epub("adventures"),
		},
		{
			Title:       "War and Peace",
			Authors:     []string{"Leo Tolstoy"},
			AuthorSort:  "Tolstoy, Leo",
			Description: "<p>Five aristocratic families through the Napoleonic wars.</p>",
			PageCount:   1225,
			Formats:     epub("war-and-peace"),
			Cover:       cover(rgb(40, 70, 40), rgb(240, 235, 220)),
		},
		{
			Title:      "The Republic",
			Authors:    []string{"Plato"},
			AuthorSort: "Plato",
			PageCount:  416,
			Formats:    []calibretest.Format{{Name: "republic", Format: "PDF"}},
		},
	}
}
