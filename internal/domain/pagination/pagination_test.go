package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func TestParseCursor(t *testing.T) {
	testCases := []struct {
		raw      string
		expected int
		wantErr  bool
	}{
		{"", 0, false},
		{"null", 0, false},
		{"40", 40, false},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			cursor, err := ParseCursor(tc.raw)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCursor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cursor)
		})
	}
}

func TestNext(t *testing.T) {
	assert.Nil(t, Next(0, 20, 20))
	assert.Nil(t, Next(0, 20, 5))
	if next := Next(0, 20, 21); assert.NotNil(t, next) {
		assert.Equal(t, 20, *next)
	}
	if next := Next(20, 20, 41); assert.NotNil(t, next) {
		assert.Equal(t, 40, *next)
	}
}

func TestSliceCoversCollection(t *testing.T) {
	for _, n := range []int{0, 1, 19, 20, 21, 40, 41, 99} {
		items := seq(n)
		var collected []int
		cursor := 0
		pages := 0
		for {
			page := Slice(items, cursor, ListPageSize)
			assert.LessOrEqual(t, len(page.Items), ListPageSize)
			collected = append(collected, page.Items...)
			pages++
			if page.Next == nil {
				break
			}
			cursor = *page.Next
		}
		assert.Equal(t, n, len(collected), "n=%d", n)
		for i, v := range collected {
			assert.Equal(t, i, v)
		}
		assert.LessOrEqual(t, pages, n/ListPageSize+1)
	}
}

func TestSlicePastEnd(t *testing.T) {
	page := Slice(seq(5), 20, ListPageSize)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.Next)
}

func TestTrim(t *testing.T) {
	page := Trim(seq(11), 0, PageSize)
	assert.Len(t, page.Items, PageSize)
	require.NotNil(t, page.Next)
	assert.Equal(t, 10, *page.Next)

	page = Trim(seq(10), 10, PageSize)
	assert.Len(t, page.Items, PageSize)
	assert.Nil(t, page.Next)
}

func TestWindow(t *testing.T) {
	start, end := Window(20, 20, 30)
	assert.Equal(t, 20, start)
	assert.Equal(t, 30, end)
	start, end = Window(40, 20, 30)
	assert.Equal(t, start, end)
}
