// Package models defines the domain types for imgname.
package models

import (
	"fmt"
	"time"
)

// Timestamp is a calendar date and time of day without zone or sub-second
// precision. It is produced per file by the date source resolver and consumed
// by the codec and the relocation engine.
type Timestamp struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// FromTime takes the calendar fields of t in t's own location.
func FromTime(t time.Time) Timestamp {
	return Timestamp{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// Time returns ts as a UTC time.Time. Out-of-range fields are normalized the
// way time.Date normalizes them.
func (ts Timestamp) Time() time.Time {
	return time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second, 0, time.UTC)
}

// SecondOfDay returns hour*3600 + minute*60 + second.
func (ts Timestamp) SecondOfDay() int {
	return ts.Hour*3600 + ts.Minute*60 + ts.Second
}

// AddSeconds returns ts shifted by n seconds with carries into minutes,
// hours, days, months and years.
func (ts Timestamp) AddSeconds(n int) Timestamp {
	return FromTime(ts.Time().Add(time.Duration(n) * time.Second))
}

// AddHours applies a signed hour offset. Hours rolling below 0 or past 23
// move the day backwards or forwards, and day changes carry across month and
// year boundaries.
func (ts Timestamp) AddHours(n int) Timestamp {
	if n == 0 {
		return ts
	}
	return FromTime(ts.Time().Add(time.Duration(n) * time.Hour))
}

// Compare returns -1, 0 or +1 depending on whether ts is chronologically
// before, equal to, or after other.
func (ts Timestamp) Compare(other Timestamp) int {
	return ts.Time().Compare(other.Time())
}

// String renders ts as "YYYY-MM-DD HH:MM:SS".
func (ts Timestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second)
}
