package calibre

// Record is the flat, serializable form of a Book consumed by the web
// front end. Cover is null in JSON when the book has no cover image.
type Record struct {
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Author             string  `json:"author"`
	Description        string  `json:"description"`
	CoverColor         string  `json:"cover_color"`
	CoverContrast      string  `json:"cover_contrast"`
	AspectRatio        float64 `json:"aspect_ratio"`
	NonlinearThickness float64 `json:"nonlinear_thickness"`
	PageCount          int     `json:"page_count"`
	FilePath           string  `json:"file_path"`
	Cover              *string `json:"cover"`
	Series             string  `json:"series"`
	SeriesIndex        float64 `json:"series_index"`

	AuthorSort         string `json:"-"`
	SeriesIndexDisplay string `json:"-"`
}

// Record resolves every field of the book. It fails when a required field
// (title, author, content file) cannot be resolved.
func (b *Book) Record() (Record, error) {
	title, err := b.Title()
	if err != nil {
		return Record{}, err
	}
	author, err := b.Author()
	if err != nil {
		return Record{}, err
	}
	authorSort, err := b.AuthorSort()
	if err != nil {
		return Record{}, err
	}
	description, err := b.Description()
	if err != nil {
		return Record{}, err
	}
	series, err := b.Series()
	if err != nil {
		return Record{}, err
	}
	seriesIndex, err := b.SeriesIndex()
	if err != nil {
		return Record{}, err
	}
	filePath, err := b.FilePath()
	if err != nil {
		return Record{}, err
	}
	cover, hasCover, err := b.Cover()
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:                 b.id,
		Title:              title,
		Author:             author,
		Description:        description,
		CoverColor:         b.CoverColor(),
		CoverContrast:      b.CoverContrast(),
		AspectRatio:        b.AspectRatio(),
		NonlinearThickness: b.NonlinearThickness(),
		PageCount:          b.PageCount(),
		FilePath:           filePath,
		Series:             series,
		SeriesIndex:        seriesIndex,
		AuthorSort:         authorSort,
		SeriesIndexDisplay: FormatSeriesIndex(seriesIndex),
	}
	if hasCover {
		rec.Cover = &cover
	}

	b.lib.metrics.IncResolved()
	return rec, nil
}

// Records resolves books in order. Books that fail to resolve are passed to
// onSkip (when non-nil) and left out of the result.
func Records(books []*Book, onSkip func(book *Book, err error)) []Record {
	records := make([]Record, 0, len(books))
	for _, book := range books {
		rec, err := book.Record()
		if err != nil {
			if onSkip != nil {
				onSkip(book, err)
			}
			continue
		}
		records = append(records, rec)
	}
	return records
}
