package util

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	require.True(t, ok)
	assert.Equal(t, s, got.UTC().Format(time.RFC3339))
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	require.True(t, ok)
	assert.Equal(t, ts, got.Unix())
}

func TestParseTimeCompact(t *testing.T) {
	got, ok := ParseTime("20240102T153000")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC), got)
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	_, ok := ParseTime("garbage")
	assert.False(t, ok)
	_, ok = ParseTime("")
	assert.False(t, ok)
}

func TestParseDay(t *testing.T) {
	got, ok := ParseDay("2024-02-29")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseDay("2024-02-30")
	assert.False(t, ok)
}

func TestLastNDays(t *testing.T) {
	end := time.Date(2024, 3, 2, 18, 45, 0, 0, time.UTC)
	got := LastNDays(end, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-02-29", got[0].Format(DayLayout))
	assert.Equal(t, "2024-03-02", got[2].Format(DayLayout))
	assert.Nil(t, LastNDays(end, 0))
}
