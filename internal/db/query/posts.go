package query

import (
	"github.com/sentimentdb/sentiment-api/internal/db/interfaces"
	"github.com/sentimentdb/sentiment-api/internal/posts"
)

var byID = []interfaces.OrderBy{{Field: "id", Direction: "asc"}}

// AllPosts selects every post.
func AllPosts() *interfaces.Query {
	return &interfaces.Query{OrderBy: byID}
}

// PostByID selects the post with the given primary key.
func PostByID(id int64) *interfaces.Query {
	limit := 1
	return &interfaces.Query{
		Where: &interfaces.Filters{Conditions: []interfaces.Filter{
			{Field: "id", Operator: interfaces.OpEq, Value: id},
		}},
		Limit: &limit,
	}
}

// PostsBySentiment selects posts with lower < sentiment < upper.
func PostsBySentiment(r posts.SentimentRange) *interfaces.Query {
	return &interfaces.Query{
		Where: &interfaces.Filters{Conditions: []interfaces.Filter{
			{Field: "sentiment", Operator: interfaces.OpGt, Value: r.Lower},
			{Field: "sentiment", Operator: interfaces.OpLt, Value: r.Upper},
		}},
		OrderBy: byID,
	}
}

// PostsPublishedBetween selects posts with start <= date <= end (Unix seconds).
func PostsPublishedBetween(start, end int64) *interfaces.Query {
	return &interfaces.Query{
		Where: &interfaces.Filters{Conditions: []interfaces.Filter{
			{Field: "date", Operator: interfaces.OpGte, Value: start},
			{Field: "date", Operator: interfaces.OpLte, Value: end},
		}},
		OrderBy: byID,
	}
}
