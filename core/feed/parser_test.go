package feed

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse_Errors(t *testing.T) {
	_, err := Parse(nil, FormatCSV)
	assert.True(t, errors.Is(err, ErrEmptyFeed))

	_, err = Parse([]byte("a"), Format("yaml"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{" XML ", FormatXML, false},
		{"Json", FormatJSON, false},
		{"yaml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRawRecord_SetKeepsFirstPosition(t *testing.T) {
	rec := NewRawRecord(2)
	rec.Set("a", "1")
	rec.Set("b", "2")
	rec.Set("a", "3")

	assert.Equal(t, []string{"a", "b"}, rec.Keys())
	assert.Equal(t, 2, rec.Len())
	v, _ := rec.Get("a")
	assert.Equal(t, "3", v)
}

func TestConfig_Interval(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"hourly", time.Hour, false},
		{"twicedaily", 12 * time.Hour, false},
		{"daily", 24 * time.Hour, false},
		{"", time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"-1m", 0, true},
		{"weekly", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Config{SyncInterval: tt.in}.Interval()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
