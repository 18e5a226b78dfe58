package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func TestSortTimeline_NullMonthFirstWithinYear(t *testing.T) {
	events := []*TimelineEvent{
		{ID: 1, Year: 1990, Month: nil},
		{ID: 2, Year: 1990, Month: intp(3)},
		{ID: 3, Year: 1985, Month: intp(12)},
	}
	SortTimeline(events)

	got := []int64{events[0].ID, events[1].ID, events[2].ID}
	assert.Equal(t, []int64{3, 1, 2}, got)
}

func TestSortTimeline_TiesBrokenByID(t *testing.T) {
	events := []*TimelineEvent{
		{ID: 9, Year: 2001, Month: intp(6)},
		{ID: 4, Year: 2001, Month: intp(6)},
		{ID: 7, Year: 2001},
	}
	SortTimeline(events)
	assert.Equal(t, int64(7), events[0].ID)
	assert.Equal(t, int64(4), events[1].ID)
	assert.Equal(t, int64(9), events[2].ID)
}

func TestTimelinePatch_Empty(t *testing.T) {
	assert.True(t, TimelinePatch{}.Empty())
	title := "x"
	assert.False(t, TimelinePatch{Title: &title}.Empty())
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, Ascending, ParseSortOrder("asc"))
	assert.Equal(t, Descending, ParseSortOrder("desc"))
	assert.Equal(t, Descending, ParseSortOrder(""))
}
