package search

// Document is one retained corpus entry. ID is its ordinal in the index and
// the row of its term vector.
type Document struct {
	ID          int
	Title       string
	Category    string
	RawText     string
	CleanText   string
	Snippet     string
	URL         string
	ImageURL    string
	PublishedAt string
}

// Result is a ranked document as returned to callers.
type Result struct {
	ID          int     `json:"-"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Text        string  `json:"text"`
	Score       float64 `json:"score"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"published_at"`
	ImageURL    string  `json:"image_url"`
}

func newResult(doc *Document, score float64) Result {
	return Result{
		ID:          doc.ID,
		Title:       doc.Title,
		Category:    doc.Category,
		Text:        doc.Snippet,
		Score:       score,
		URL:         doc.URL,
		PublishedAt: doc.PublishedAt,
		ImageURL:    doc.ImageURL,
	}
}
