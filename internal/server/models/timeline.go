package models

import (
	"sort"
	"time"

	"github.com/lifememo/navi/internal/server/catalog"
)

// TimelineEvent is one chronological entry.
type TimelineEvent struct {
	ID          int64            `json:"id"`
	OwnerID     int64            `json:"owner_id"`
	Category    catalog.Category `json:"category"`
	Year        int              `json:"year"`
	Month       *int             `json:"month,omitempty"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	PhotoID     *int64           `json:"photo_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// TimelinePatch carries the fields of a partial update. Nil fields are left
// unchanged.
type TimelinePatch struct {
	Year        *int    `json:"year"`
	Month       *int    `json:"month"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PhotoID     *int64  `json:"photo_id"`
}

// Empty reports whether the patch changes nothing.
func (p TimelinePatch) Empty() bool {
	return p.Year == nil && p.Month == nil && p.Title == nil && p.Description == nil && p.PhotoID == nil
}

func (e *TimelineEvent) monthKey() int {
	if e.Month == nil {
		return 0
	}
	return *e.Month
}

// TimelineLess orders events by year, then month with a missing month
// sorting first within its year, then id.
func TimelineLess(a, b *TimelineEvent) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if am, bm := a.monthKey(), b.monthKey(); am != bm {
		return am < bm
	}
	return a.ID < b.ID
}

// SortTimeline sorts events in place by TimelineLess.
func SortTimeline(events []*TimelineEvent) {
	sort.SliceStable(events, func(i, j int) bool { return TimelineLess(events[i], events[j]) })
}
