package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sentimentdb/sentiment-api/internal/config"
	"github.com/sentimentdb/sentiment-api/internal/db/interfaces"
	"github.com/sentimentdb/sentiment-api/internal/db/query"
	"github.com/sentimentdb/sentiment-api/internal/posts"
)

// Mock post store for testing
type MockPostStore struct {
	mock.Mock
}

func (m *MockPostStore) FindPosts(ctx context.Context, q *interfaces.Query) ([]posts.Post, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]posts.Post), args.Error(1)
}

func (m *MockPostStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockPostStore) Close() error {
	return nil
}

// Ensure MockPostStore implements the interface
var _ interfaces.PostStore = (*MockPostStore)(nil)

// Mock metrics for testing
type MockMetrics struct{}

func (m *MockMetrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
}

func (m *MockMetrics) RecordDBQuery(ctx context.Context, op, outcome string, duration time.Duration) {
}

func createTestHandler(store interfaces.PostStore) *Handler {
	logger, _ := zap.NewDevelopment()
	sugar := logger.Sugar()

	return NewHandler(store, nil, &config.Config{DefaultFormat: "text"}, sugar, &MockMetrics{})
}

func createTestRouter(store interfaces.PostStore) http.Handler {
	h := createTestHandler(store)
	return h.Routes(NewMiddleware(h.logger, h.metrics), nil, 0, 0)
}

func do(t *testing.T, router http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

var samplePost = posts.Post{
	ID:           7,
	PublishedAt:  1610706600,
	URL:          "https://reddit.com/r/golang/abc",
	Subreddit:    "golang",
	Title:        "Generics",
	Author:       "gopher",
	ContainedURL: "https://go.dev",
	Sentiment:    0.5,
	Content:      "body",
}

func TestIndex(t *testing.T) {
	router := createTestRouter(&MockPostStore{})

	w := do(t, router, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, IndexMessage, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestListPosts(t *testing.T) {
	store := &MockPostStore{}
	store.On("FindPosts", mock.Anything, query.AllPosts()).Return([]posts.Post{samplePost, samplePost}, nil)
	router := createTestRouter(store)

	for _, path := range []string{"/posts/", "/posts"} {
		w := do(t, router, path)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))

		line, err := posts.FormatText(samplePost)
		require.NoError(t, err)
		assert.Equal(t, line+"\n"+line, w.Body.String())
	}
	store.AssertNumberOfCalls(t, "FindPosts", 2)
}

func TestGetPost(t *testing.T) {
	store := &MockPostStore{}
	store.On("FindPosts", mock.Anything, query.PostByID(7)).Return([]posts.Post{samplePost}, nil)
	store.On("FindPosts", mock.Anything, query.PostByID(8)).Return([]posts.Post{}, nil)
	router := createTestRouter(store)

	w := do(t, router, "/posts/7?format=json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body []posts.ApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, int64(7), body[0].ID)
	assert.Equal(t, "15-01-2021, 10:30", body[0].Date)
	assert.Equal(t, 0.5, body[0].Sentiment)

	w = do(t, router, "/posts/8")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, posts.NoDataMessage, w.Body.String())
}

func TestGetPostInvalidID(t *testing.T) {
	store := &MockPostStore{}
	router := createTestRouter(store)

	for _, path := range []string{"/posts/abc", "/posts/1.5", "/posts/99999999999999999999"} {
		w := do(t, router, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, CodeInvalidParameter, decodeError(t, w).Code)
	}
	store.AssertNotCalled(t, "FindPosts", mock.Anything, mock.Anything)
}

func TestGetPostsBySentiment(t *testing.T) {
	store := &MockPostStore{}
	rng := posts.SentimentRange{Lower: -0.3, Upper: 0.9}
	store.On("FindPosts", mock.Anything, query.PostsBySentiment(rng)).Return([]posts.Post{samplePost}, nil)
	router := createTestRouter(store)

	w := do(t, router, "/posts/sentiment_threshold?lower=-0.3&upper=0.9")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "with a sentiment score of 0.5\n Here is the text/content: body")
	store.AssertExpectations(t)
}

func TestGetPostsBySentimentValidation(t *testing.T) {
	store := &MockPostStore{}
	router := createTestRouter(store)

	testCases := []struct {
		name  string
		query string
		field string
	}{
		{"missing both", "", "lower"},
		{"missing upper", "?lower=0.1", "upper"},
		{"malformed lower", "?lower=abc&upper=1", "lower"},
		{"nan", "?lower=NaN&upper=1", "lower"},
		{"inf", "?lower=0&upper=Inf", "upper"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, "/posts/sentiment_threshold"+tc.query)
			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, CodeInvalidParameter, resp.Code)
			assert.True(t, strings.HasPrefix(resp.Message, tc.field), resp.Message)
		})
	}
	store.AssertNotCalled(t, "FindPosts", mock.Anything, mock.Anything)
}

func TestGetPostsByDate(t *testing.T) {
	store := &MockPostStore{}
	// 01-03-2021 00:00:00 UTC through 30-06-2021 23:59:59 UTC
	store.On("FindPosts", mock.Anything, query.PostsPublishedBetween(1614556800, 1625097599)).
		Return([]posts.Post{samplePost}, nil)
	router := createTestRouter(store)

	w := do(t, router, "/posts/date?start=01-03-2021&end=30-06-2021")
	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestGetPostsByDateValidation(t *testing.T) {
	store := &MockPostStore{}
	router := createTestRouter(store)

	testCases := []struct {
		name    string
		query   string
		message string
	}{
		{"invalid calendar date", "?start=31-02-2021&end=01-03-2021", "An error occurred while parsing the start date."},
		{"bad end", "?start=01-02-2021&end=2021-03-01", "An error occurred while parsing the end date."},
		{"missing start", "?end=01-03-2021", "An error occurred while parsing the start date."},
		{"missing end", "?start=01-03-2021", "An error occurred while parsing the end date."},
		{"single digit day", "?start=1-03-2021&end=01-03-2021", "An error occurred while parsing the start date."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, "/posts/date"+tc.query)
			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, CodeInvalidDate, resp.Code)
			assert.Equal(t, tc.message, resp.Message)
		})
	}
	store.AssertNotCalled(t, "FindPosts", mock.Anything, mock.Anything)
}

func TestNoDataSentinel(t *testing.T) {
	store := &MockPostStore{}
	store.On("FindPosts", mock.Anything, mock.Anything).Return([]posts.Post{}, nil)
	router := createTestRouter(store)

	w := do(t, router, "/posts/sentiment_threshold?lower=0.9&upper=0.1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, posts.NoDataMessage, w.Body.String())

	w = do(t, router, "/posts/", "Accept", "application/json")
	assert.Equal(t, http.StatusOK, w.Code)
	var msg MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.Equal(t, posts.NoDataMessage, msg.Message)
}

func TestDatabaseError(t *testing.T) {
	store := &MockPostStore{}
	store.On("FindPosts", mock.Anything, mock.Anything).
		Return(nil, &interfaces.DatabaseError{Op: "find posts", Err: errors.New("connection reset")})
	router := createTestRouter(store)

	w := do(t, router, "/posts/1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, CodeDatabaseError, resp.Code)
	assert.NotContains(t, resp.Message, "connection reset")

	// the process keeps serving
	w = do(t, router, "/")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFormatError(t *testing.T) {
	bad := samplePost
	bad.PublishedAt = 1 << 40 // far beyond year 9999
	store := &MockPostStore{}
	store.On("FindPosts", mock.Anything, mock.Anything).Return([]posts.Post{samplePost, bad}, nil)
	router := createTestRouter(store)

	for _, format := range []string{"text", "json"} {
		w := do(t, router, "/posts/?format="+format)
		assert.Equal(t, http.StatusInternalServerError, w.Code, format)
		assert.Equal(t, CodeFormatError, decodeError(t, w).Code)
	}
}

func TestFormatNegotiation(t *testing.T) {
	store := &MockPostStore{}
	store.On("FindPosts", mock.Anything, mock.Anything).Return([]posts.Post{samplePost}, nil)

	h := createTestHandler(store)

	testCases := []struct {
		name          string
		target        string
		accept        string
		defaultFormat string
		wantType      string
		wantStatus    int
	}{
		{"default text", "/posts/", "", "text", "text/plain; charset=utf-8", http.StatusOK},
		{"default json", "/posts/", "", "json", "application/json", http.StatusOK},
		{"accept header", "/posts/", "application/json", "text", "application/json", http.StatusOK},
		{"query wins over header", "/posts/?format=text", "application/json", "json", "text/plain; charset=utf-8", http.StatusOK},
		{"query is case insensitive", "/posts/?format=JSON", "", "text", "application/json", http.StatusOK},
		{"unknown format", "/posts/?format=xml", "", "text", "application/json", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h.config = &config.Config{DefaultFormat: tc.defaultFormat}
			router := h.Routes(NewMiddleware(h.logger, h.metrics), nil, 0, 0)

			w := do(t, router, tc.target, "Accept", tc.accept)
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantType, w.Header().Get("Content-Type"))
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	store := &MockPostStore{}
	store.On("Ping", mock.Anything).Return(nil).Once()
	store.On("Ping", mock.Anything).Return(errors.New("down")).Once()
	router := createTestRouter(store)

	w := do(t, router, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = do(t, router, "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "READY", w.Body.String())

	w = do(t, router, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, CodeNotReady, decodeError(t, w).Code)

	w = do(t, router, "/ping")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovererKeepsServing(t *testing.T) {
	store := &MockPostStore{}
	store.On("FindPosts", mock.Anything, mock.Anything).Panic("boom")
	router := createTestRouter(store)

	w := do(t, router, "/posts/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, CodeInternalError, decodeError(t, w).Code)

	w = do(t, router, "/")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	router := createTestRouter(&MockPostStore{})

	w := do(t, router, "/", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
