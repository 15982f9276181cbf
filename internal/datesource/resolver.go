// Package datesource resolves the calendar timestamp used to name and file a
// media file, from capture metadata, the file's modification time, or a
// fixed-layout date embedded in its name.
package datesource

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/starford/imgname/internal/models"
)

// Strategy selects where a file's timestamp comes from.
type Strategy string

const (
	StrategyCapture  Strategy = "exif"     // Embedded capture metadata (default).
	StrategyFileTime Strategy = "filetime" // Filesystem modification time, local zone.
	StrategyFilename Strategy = "filename" // PREFIX_YYYYMMDD_HHMMSS... in the name.
)

// Strategies lists every valid Strategy.
var Strategies = []Strategy{StrategyCapture, StrategyFileTime, StrategyFilename}

// Source is the process-wide date source selection: exactly one strategy plus
// a signed hour offset applied after resolution.
type Source struct {
	Strategy    Strategy
	OffsetHours int
}

// MetadataReader returns the textual capture date stored in a media file.
// It fails with apperr.ErrNoCaptureDate when the field is absent.
type MetadataReader interface {
	CaptureDate(path string) (string, error)
}

// ModTimeReader returns a file's modification time.
type ModTimeReader interface {
	ModTime(path string) (time.Time, error)
}

// Resolver produces timestamps for files according to a Source.
type Resolver struct {
	source   Source
	metadata MetadataReader
	modtime  ModTimeReader
	location *time.Location
	logger   *slog.Logger
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithMetadataReader replaces the EXIF reader.
func WithMetadataReader(m MetadataReader) ResolverOption {
	return func(r *Resolver) { r.metadata = m }
}

// WithModTimeReader replaces the filesystem time reader.
func WithModTimeReader(m ModTimeReader) ResolverOption {
	return func(r *Resolver) { r.modtime = m }
}

// WithLocation sets the zone modification times are converted into.
func WithLocation(loc *time.Location) ResolverOption {
	return func(r *Resolver) { r.location = loc }
}

// WithLogger sets the resolver's logger.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver builds a Resolver for src backed by the real EXIF and file time
// readers unless overridden.
func NewResolver(src Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		source:   src,
		metadata: EXIFReader{},
		modtime:  FileTimeReader{},
		location: time.Local,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Source returns the configured date source.
func (r *Resolver) Source() Source {
	return r.source
}

// Resolve returns the timestamp for path with the hour offset applied.
func (r *Resolver) Resolve(path string) (models.Timestamp, error) {
	var (
		ts  models.Timestamp
		err error
	)
	switch r.source.Strategy {
	case StrategyCapture, "":
		ts, err = r.fromCapture(path)
	case StrategyFileTime:
		ts, err = r.fromFileTime(path)
	case StrategyFilename:
		ts, err = FromFilename(filepath.Base(path))
	default:
		return models.Timestamp{}, fmt.Errorf("datesource: unknown strategy %q", r.source.Strategy)
	}
	if err != nil {
		return models.Timestamp{}, err
	}

	shifted := ts.AddHours(r.source.OffsetHours)
	r.logger.Debug("datesource: resolved",
		slog.String("path", path),
		slog.String("strategy", string(r.source.Strategy)),
		slog.String("raw", ts.String()),
		slog.String("timestamp", shifted.String()))
	return shifted, nil
}

func (r *Resolver) fromCapture(path string) (models.Timestamp, error) {
	raw, err := r.metadata.CaptureDate(path)
	if err != nil {
		return models.Timestamp{}, err
	}
	return parseCaptureDate(raw)
}

func (r *Resolver) fromFileTime(path string) (models.Timestamp, error) {
	mt, err := r.modtime.ModTime(path)
	if err != nil {
		return models.Timestamp{}, fmt.Errorf("datesource: modification time: %w", err)
	}
	return models.FromTime(mt.In(r.location)), nil
}
