package datesource

import (
	"errors"
	"fmt"
	"os"
	"strings"

	exifscan "github.com/dsoprea/go-exif/v3"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/starford/imgname/internal/apperr"
	"github.com/starford/imgname/internal/codec"
	"github.com/starford/imgname/internal/models"
)

const captureTag = "DateTimeOriginal"

// EXIFReader reads the DateTimeOriginal field. JPEG and TIFF-based files are
// decoded structurally; anything else (HEIC, most RAW containers) is searched
// for an embedded EXIF block.
type EXIFReader struct{}

// CaptureDate returns the raw "YYYY:MM:DD HH:MM:SS" capture date of path.
func (EXIFReader) CaptureDate(path string) (string, error) {
	raw, err := decodeStructured(path)
	if err == nil {
		return raw, nil
	}
	if !errors.Is(err, apperr.ErrNoCaptureDate) {
		return "", err
	}

	raw, scanErr := searchEmbedded(path)
	if scanErr != nil {
		return "", err
	}
	return raw, nil
}

func decodeStructured(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("datesource: open: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return "", fmt.Errorf("datesource: %s: %v: %w", path, err, apperr.ErrNoCaptureDate)
	}
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		if exif.IsTagNotPresentError(err) {
			return "", fmt.Errorf("datesource: %s: %w", path, apperr.ErrNoCaptureDate)
		}
		return "", fmt.Errorf("datesource: %s: %v: %w", path, err, apperr.ErrUnreadableDate)
	}
	raw, err := tag.StringVal()
	if err != nil {
		return "", fmt.Errorf("datesource: %s: %v: %w", path, err, apperr.ErrUnreadableDate)
	}
	return raw, nil
}

func searchEmbedded(path string) (string, error) {
	block, err := exifscan.SearchFileAndExtractExif(path)
	if err != nil {
		return "", err
	}
	tags, _, err := exifscan.GetFlatExifData(block, &exifscan.ScanOptions{})
	if err != nil {
		return "", err
	}
	for _, t := range tags {
		if t.TagName != captureTag {
			continue
		}
		if s, ok := t.Value.(string); ok {
			return s, nil
		}
		return t.FormattedFirst, nil
	}
	return "", fmt.Errorf("datesource: %s: %w", path, apperr.ErrNoCaptureDate)
}

func parseCaptureDate(raw string) (models.Timestamp, error) {
	if strings.Trim(raw, "\x00 ") == "" {
		return models.Timestamp{}, fmt.Errorf("datesource: empty capture date: %w", apperr.ErrUnreadableDate)
	}
	return codec.ParseLiteral(raw)
}
