package db

import (
	"github.com/sentimentdb/sentiment-api/internal/posts"
)

// PostFixtures provides sample posts for seeding development databases and tests.
func PostFixtures() []posts.Post {
	return []posts.Post{
		{
			ID:           1,
			PublishedAt:  1610706600, // 15-01-2021 10:30
			URL:          "https://www.reddit.com/r/golang/comments/kxq1a1/",
			Subreddit:    "golang",
			Title:        "Go 1.16 release candidate is out",
			Author:       "gopher_news",
			ContainedURL: "https://go.dev/doc/go1.16",
			Sentiment:    0.5,
			Content:      "Embedding files is going to simplify our deploys a lot.",
		},
		{
			ID:           2,
			PublishedAt:  1614556799, // 28-02-2021 23:59:59
			URL:          "https://www.reddit.com/r/programming/comments/lum2b2/",
			Subreddit:    "programming",
			Title:        "Another outage postmortem",
			Author:       "sre_throwaway",
			ContainedURL: "https://status.example.com/incidents/42",
			Sentiment:    -0.3,
			Content:      "Third incident this month, the on-call rotation is exhausted.",
		},
		{
			ID:           3,
			PublishedAt:  1614556800, // 01-03-2021 00:00:00
			URL:          "https://www.reddit.com/r/python/comments/lus9c3/",
			Subreddit:    "python",
			Title:        "Async traits are coming",
			Author:       "ferris_fan",
			ContainedURL: "https://www.python.org/downloads/",
			Sentiment:    0.9,
			Content:      "Really excited about where the language is heading.",
		},
		{
			ID:           4,
			PublishedAt:  1606780800, // 01-12-2020 00:00:00
			URL:          "https://www.reddit.com/r/devops/comments/k4h0d4/",
			Subreddit:    "devops",
			Title:        "Docker Hub rate limits hit our CI",
			Author:       "pipeline_pete",
			ContainedURL: "https://docs.docker.com/docker-hub/download-rate-limit/",
			Sentiment:    -0.75,
			Content:      "Every build failed overnight. Mirroring images now.",
		},
		{
			ID:           5,
			PublishedAt:  1625054400, // 30-06-2021 12:00
			URL:          "https://www.reddit.com/r/golang/comments/oay5e5/",
			Subreddit:    "golang",
			Title:        "Weekly questions thread",
			Author:       "AutoModerator",
			ContainedURL: "https://go.dev/tour/",
			Sentiment:    0,
			Content:      "Ask anything about Go here.",
		},
	}
}
