package posts

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatText renders a post as the human readable line served in text mode.
func FormatText(p Post) (string, error) {
	date, err := FormatDate(p.PublishedAt)
	if err != nil {
		return "", fmt.Errorf("post %d: %w", p.ID, err)
	}
	return fmt.Sprintf(
		"Post ID: %d, from %s with reddit-url %s in subreddit %s with title %s by author %s contains the url %s with a sentiment score of %s\n Here is the text/content: %s",
		p.ID, date, p.URL, p.Subreddit, p.Title, p.Author, p.ContainedURL, FormatSentiment(p.Sentiment), p.Content,
	), nil
}

// FormatSentiment prints the shortest decimal that round-trips to s.
func FormatSentiment(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// ToResponse projects a post onto its JSON shape.
func ToResponse(p Post) (ApiResponse, error) {
	date, err := FormatDate(p.PublishedAt)
	if err != nil {
		return ApiResponse{}, fmt.Errorf("post %d: %w", p.ID, err)
	}
	return ApiResponse{
		ID:           p.ID,
		Date:         date,
		URL:          p.URL,
		Subreddit:    p.Subreddit,
		Title:        p.Title,
		Author:       p.Author,
		URLContained: p.ContainedURL,
		Sentiment:    p.Sentiment,
		Content:      p.Content,
	}, nil
}

// JoinText formats every post and joins the lines with newlines. The first
// formatting error aborts the whole rendering.
func JoinText(rows []Post) (string, error) {
	lines := make([]string, 0, len(rows))
	for _, p := range rows {
		line, err := FormatText(p)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// ToResponses projects every post, failing on the first bad row.
func ToResponses(rows []Post) ([]ApiResponse, error) {
	out := make([]ApiResponse, 0, len(rows))
	for _, p := range rows {
		resp, err := ToResponse(p)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}
