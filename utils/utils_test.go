package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePagination(t *testing.T) {
	p := CreatePagination(25, 2, 10)
	assert.Equal(t, &Pagination{TotalItems: 25, CurrentPage: 2, PageSize: 10, TotalPages: 3}, p)

	p = CreatePagination(0, 0, 0)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 0, p.TotalPages)
}

func TestNormalizePageAndOffset(t *testing.T) {
	page, size := NormalizePage(-3, 500)
	assert.Equal(t, 1, page)
	assert.Equal(t, 100, size)

	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 40, Offset(3, 20))
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-05", " 2024/03/05 ", "03/05/2024", "3/5/2024"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}

	got, err := ParseDate("2024-03-05T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 23, got.Hour())

	_, err = ParseDate("yesterday")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	in := time.Date(2024, time.March, 5, 23, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), CalendarDay(in))
}
