package datesource

import (
	"time"

	"github.com/djherbis/times"
)

// FileTimeReader reads modification times from the local file system.
type FileTimeReader struct{}

// ModTime returns the last modification time of path.
func (FileTimeReader) ModTime(path string) (time.Time, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return ts.ModTime(), nil
}
