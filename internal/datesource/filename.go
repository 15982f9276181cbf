package datesource

import (
	"fmt"
	"strconv"
	"time"

	"github.com/starford/imgname/internal/apperr"
	"github.com/starford/imgname/internal/models"
)

// Byte offsets of the date and time runs in names like
// "VID_20240611_063230123.mp4".
const (
	dateStart = 4
	dateEnd   = 12
	timeStart = 13
	timeEnd   = 19
)

// FromFilename reads the timestamp embedded at fixed offsets in name.
func FromFilename(name string) (models.Timestamp, error) {
	if len(name) < timeEnd {
		return models.Timestamp{}, fmt.Errorf("datesource: %q too short: %w", name, apperr.ErrPatternMismatch)
	}
	date, clock := name[dateStart:dateEnd], name[timeStart:timeEnd]

	fields := []struct {
		s        string
		min, max int
	}{
		{date[0:4], 0, 9999},
		{date[4:6], 1, 12},
		{date[6:8], 1, 31},
		{clock[0:2], 0, 23},
		{clock[2:4], 0, 59},
		{clock[4:6], 0, 59},
	}
	vals := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseUint(f.s, 10, 16)
		if err != nil || int(n) < f.min || int(n) > f.max {
			return models.Timestamp{}, fmt.Errorf("datesource: %q: field %q: %w", name, f.s, apperr.ErrPatternMismatch)
		}
		vals[i] = int(n)
	}

	ts := models.Timestamp{Year: vals[0], Month: vals[1], Day: vals[2], Hour: vals[3], Minute: vals[4], Second: vals[5]}
	if t := ts.Time(); t.Day() != ts.Day || t.Month() != time.Month(ts.Month) {
		return models.Timestamp{}, fmt.Errorf("datesource: %q: no such day: %w", name, apperr.ErrPatternMismatch)
	}
	return ts, nil
}
