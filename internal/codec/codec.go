// Package codec converts calendar timestamps to and from short, sortable,
// filename-safe name tokens and day-bucket directory names.
//
// A name token is three structural characters followed by the second of the
// day, zero-padded to five digits:
//
//	year-1999  A..Z      (2000..2025)
//	month      A..L      (1..12)
//	day        1..9, A..V (1..31)
//	seconds    00000..86399
//
// 2024-06-11 06:32:30 encodes as "YFB23550".
package codec

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/starford/imgname/internal/apperr"
	"github.com/starford/imgname/internal/models"
)

const (
	yearBase = 1999

	// TokenLen is the length of every generated token.
	TokenLen = 3 + secondsWidth

	secondsWidth = 5
	secondsInDay = 86400

	// LiteralLayout is the textual timestamp layout used by EXIF and get-name.
	LiteralLayout = "2006:01:02 15:04:05"
)

// digitToChar maps 1..26 onto 'A'..'Z'.
func digitToChar(n int) (byte, bool) {
	if n < 1 || n > 26 {
		return 0, false
	}
	return byte('A' + n - 1), true
}

// charToDigit maps 'A'..'Z' (either case) onto 1..26.
func charToDigit(c byte) (int, bool) {
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 1, true
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 1, true
	}
	return 0, false
}

// Encode returns the name token for ts. The error wraps apperr.ErrOutOfRange
// when a field cannot be represented.
func Encode(ts models.Timestamp) (string, error) {
	y, ok := digitToChar(ts.Year - yearBase)
	if !ok {
		return "", fmt.Errorf("codec: year %d: %w", ts.Year, apperr.ErrOutOfRange)
	}
	if ts.Month < 1 || ts.Month > 12 {
		return "", fmt.Errorf("codec: month %d: %w", ts.Month, apperr.ErrOutOfRange)
	}
	m, _ := digitToChar(ts.Month)

	var d byte
	switch {
	case ts.Day >= 1 && ts.Day <= 9:
		d = byte('0' + ts.Day)
	case ts.Day >= 10 && ts.Day <= 31:
		d, _ = digitToChar(ts.Day - 9)
	default:
		return "", fmt.Errorf("codec: day %d: %w", ts.Day, apperr.ErrOutOfRange)
	}

	sod := ts.SecondOfDay()
	if ts.Hour < 0 || ts.Minute < 0 || ts.Second < 0 || sod >= secondsInDay {
		return "", fmt.Errorf("codec: time of day %02d:%02d:%02d: %w", ts.Hour, ts.Minute, ts.Second, apperr.ErrOutOfRange)
	}

	return fmt.Sprintf("%c%c%c%0*d", y, m, d, secondsWidth, sod), nil
}

// Decode parses a name token. Padding of the seconds run is optional so that
// names written before padding was introduced still decode. ok is false for
// anything that is not a token.
func Decode(token string) (ts models.Timestamp, ok bool) {
	if len(token) < 4 || len(token) > TokenLen {
		return models.Timestamp{}, false
	}

	y, ok := charToDigit(token[0])
	if !ok {
		return models.Timestamp{}, false
	}
	month, ok := charToDigit(token[1])
	if !ok || month > 12 {
		return models.Timestamp{}, false
	}

	var day int
	switch c := token[2]; {
	case c >= '1' && c <= '9':
		day = int(c - '0')
	default:
		n, ok := charToDigit(c)
		if !ok || n+9 > 31 {
			return models.Timestamp{}, false
		}
		day = n + 9
	}

	run := token[3:]
	for i := 0; i < len(run); i++ {
		if run[i] < '0' || run[i] > '9' {
			return models.Timestamp{}, false
		}
	}
	sod, err := strconv.ParseUint(run, 10, 32)
	if err != nil || sod >= secondsInDay {
		return models.Timestamp{}, false
	}

	return models.Timestamp{
		Year:   y + yearBase,
		Month:  month,
		Day:    day,
		Hour:   int(sod / 3600),
		Minute: int(sod % 3600 / 60),
		Second: int(sod % 60),
	}, true
}

// DirName returns the "YYYY-MM-DD" bucket for ts.
func DirName(ts models.Timestamp) string {
	return fmt.Sprintf("%04d-%02d-%02d", ts.Year, ts.Month, ts.Day)
}

// ParseLiteral parses "YYYY:MM:DD HH:MM:SS". Surrounding NUL padding and
// whitespace, as found in EXIF ASCII fields, is ignored.
func ParseLiteral(s string) (models.Timestamp, error) {
	t, err := time.Parse(LiteralLayout, strings.Trim(s, "\x00 \t\r\n"))
	if err != nil {
		return models.Timestamp{}, fmt.Errorf("codec: parse %q: %w", s, apperr.ErrUnreadableDate)
	}
	return models.FromTime(t), nil
}

// TokenFromName isolates the token part of a file name or path: directories,
// the extension and a leading "VID_" are dropped and the rest is cut to
// TokenLen characters.
func TokenFromName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.TrimPrefix(name, "VID_")
	if len(name) > TokenLen {
		name = name[:TokenLen]
	}
	return name
}
