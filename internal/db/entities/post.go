package entities

import (
	"github.com/sentimentdb/sentiment-api/internal/db/interfaces"
)

// PostSchema lists the posts columns the service reads, by name. The table
// also carries a legacy column (reddit_id) between date and url that is
// never selected.
var PostSchema = &interfaces.Schema{
	TableName: "posts",
	Columns: []string{
		"id",
		"date",
		"url",
		"subreddit",
		"title",
		"author",
		"url_contained",
		"sentiment",
		"content",
	},
}
