package model

import "time"

// DayLayout is the storage form of a DailyEntry date
const DayLayout = "2006-01-02"

// DailyEntry is one member's daily update. A member has at most one entry
// per date.
type DailyEntry struct {
	ID        int64     `json:"id"`
	Member    string    `json:"member"`
	Date      time.Time `json:"date"` // Midnight UTC of the reported day
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Day returns the entry date in DayLayout
func (e DailyEntry) Day() string {
	return e.Date.Format(DayLayout)
}

// Day truncates t to midnight UTC of its calendar date
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
