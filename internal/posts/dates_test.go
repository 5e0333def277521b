package posts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		wantTS  int64
		wantErr bool
	}{
		{in: "01-01-2021", wantTS: 1609459200},
		{in: "28-02-2021", wantTS: 1614470400},
		{in: "29-02-2020", wantTS: 1582934400},
		{in: "31-02-2021", wantErr: true},
		{in: "29-02-2021", wantErr: true},
		{in: "2021-01-01", wantErr: true},
		{in: "1-1-2021", wantErr: true},
		{in: "01-13-2021", wantErr: true},
		{in: "01-01-2021 ", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTS, got.Unix())
		})
	}
}

func TestDateRangeBounds(t *testing.T) {
	start, end, err := DateRange{Start: "01-01-2021", End: "31-01-2021"}.Bounds()
	require.NoError(t, err)
	assert.Equal(t, int64(1609459200), start)
	assert.Equal(t, int64(1612137599), end)

	// same day covers the whole day
	start, end, err = DateRange{Start: "01-03-2021", End: "01-03-2021"}.Bounds()
	require.NoError(t, err)
	assert.Equal(t, int64(1614556800), start)
	assert.Equal(t, int64(1614643199), end)

	// inverted ranges are accepted
	start, end, err = DateRange{Start: "31-01-2021", End: "01-01-2021"}.Bounds()
	require.NoError(t, err)
	assert.Greater(t, start, end)
}

func TestDateRangeBoundsNamesFailingBound(t *testing.T) {
	_, _, err := DateRange{Start: "31-02-2021", End: "01-03-2021"}.Bounds()
	var dateErr *DateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "start", dateErr.Bound)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, _, err = DateRange{Start: "01-03-2021", End: "bogus"}.Bounds()
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "end", dateErr.Bound)
}

func TestFormatDate(t *testing.T) {
	s, err := FormatDate(1614556799)
	require.NoError(t, err)
	assert.Equal(t, "28-02-2021, 23:59", s)

	s, err = FormatDate(0)
	require.NoError(t, err)
	assert.Equal(t, "01-01-1970, 00:00", s)

	_, err = FormatDate(253402300800)
	assert.ErrorIs(t, err, ErrTimestampOutOfRange)
}

func TestSentimentRangeContains(t *testing.T) {
	r := SentimentRange{Lower: -0.3, Upper: 0.9}
	assert.True(t, r.Contains(0.5))
	assert.False(t, r.Contains(-0.3))
	assert.False(t, r.Contains(0.9))
	assert.False(t, SentimentRange{Lower: 0.6, Upper: 0.9}.Contains(0.5))
}
