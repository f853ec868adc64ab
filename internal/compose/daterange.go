package compose

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"

	"github.com/ppiankov/proofline/internal/model"
)

// ErrDateFormat is returned for date ranges other than "M.D-M.D"
var ErrDateFormat = errors.New("日期格式无法识别，请使用 M.D-M.D 格式")

var dateRangePattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})-(\d{1,2})\.(\d{1,2})$`)

// ParseDateRange resolves a report period such as "11.29-12.5" to its first
// and last day. Years come from ref: a range whose end month precedes its
// start month crosses New Year, and ref decides which side is current.
// Full-width digits and punctuation are accepted.
func ParseDateRange(s string, ref time.Time) (start, end time.Time, err error) {
	s = strings.ReplaceAll(width.Narrow.String(strings.TrimSpace(s)), "~", "-")
	m := dateRangePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, time.Time{}, ErrDateFormat
	}

	var n [4]int
	for i := range n {
		n[i], _ = strconv.Atoi(m[i+1])
	}
	startMonth, startDay, endMonth, endDay := n[0], n[1], n[2], n[3]

	startYear, endYear := ref.Year(), ref.Year()
	if endMonth < startMonth {
		if int(ref.Month()) <= endMonth {
			startYear--
		} else {
			endYear++
		}
	}

	if start, err = civilDate(startYear, startMonth, startDay); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end, err = civilDate(endYear, endMonth, endDay); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrDateFormat
	}
	return start, end, nil
}

// ParseDay accepts "2006-01-02" or "M.D" in ref's year
func ParseDay(s string, ref time.Time) (time.Time, error) {
	s = width.Narrow.String(strings.TrimSpace(s))
	if t, err := time.Parse(model.DayLayout, s); err == nil {
		return t, nil
	}

	month, day, ok := strings.Cut(s, ".")
	if !ok {
		return time.Time{}, ErrDateFormat
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	return civilDate(ref.Year(), m, d)
}

// civilDate rejects dates that time.Date would normalize, such as 2.30
func civilDate(year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, ErrDateFormat
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, ErrDateFormat
	}
	return t, nil
}
