// Package posts holds the post model, the request parameter types and the
// row formatter shared by every backend and the HTTP layer.
package posts

// Post is one row of the posts table. Columns are matched by name, so the
// db tags must stay in sync with the selected column list.
type Post struct {
	ID           int64   `db:"id" json:"id"`
	PublishedAt  int64   `db:"date" json:"published_at"`
	URL          string  `db:"url" json:"url"`
	Subreddit    string  `db:"subreddit" json:"subreddit"`
	Title        string  `db:"title" json:"title"`
	Author       string  `db:"author" json:"author"`
	ContainedURL string  `db:"url_contained" json:"contained_url"`
	Sentiment    float64 `db:"sentiment" json:"sentiment"`
	Content      string  `db:"content" json:"content"`
}

// SentimentRange selects posts with lower < sentiment < upper.
type SentimentRange struct {
	Lower float64
	Upper float64
}

// Contains reports whether s lies strictly inside the range.
func (r SentimentRange) Contains(s float64) bool {
	return s > r.Lower && s < r.Upper
}

// ApiResponse is the JSON projection of a Post.
type ApiResponse struct {
	ID           int64   `json:"id"`
	Date         string  `json:"date"`
	URL          string  `json:"url"`
	Subreddit    string  `json:"subreddit"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	URLContained string  `json:"url_contained"`
	Sentiment    float64 `json:"sentiment"`
	Content      string  `json:"content"`
}

// NoDataMessage is returned with 200 OK when a query matched nothing.
const NoDataMessage = "No data available for your request."
