// Package relocate moves a file, together with every sibling sharing its
// stem, to a date-derived name and/or directory without ever replacing a
// different file.
//
// Relocation happens in two halves. Plan searches for a destination stem that
// collides with no foreign file family in either the source or destination
// directory and lists the moves. Apply re-checks each destination and
// performs the renames. A destination family that is the same files as the
// source (already relocated by an earlier run, or hard links to them) is not
// a collision, which makes re-runs no-ops.
package relocate

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/starford/imgname/internal/apperr"
	"github.com/starford/imgname/internal/codec"
	"github.com/starford/imgname/internal/models"
	"github.com/starford/imgname/internal/storage"
)

// Move is one family member's relocation.
type Move struct {
	From string
	To   string
	// AlreadyPlaced is set when To already is From (same path or same file).
	AlreadyPlaced bool
}

// Plan is the outcome of the uniqueness search for one source file.
type Plan struct {
	Mode   Mode
	Source string
	// Timestamp is the one DestStem encodes; later than the resolved one
	// when rename collisions advanced it.
	Timestamp models.Timestamp
	DestDir   string
	DestStem  string
	Moves     []Move
}

// Destination returns where the source file itself goes.
func (p *Plan) Destination() string {
	for _, m := range p.Moves {
		if m.From == p.Source {
			return m.To
		}
	}
	return ""
}

// Noop reports whether every member is already in place.
func (p *Plan) Noop() bool {
	for _, m := range p.Moves {
		if !m.AlreadyPlaced {
			return false
		}
	}
	return true
}

// Engine plans and applies relocations against a storage.Provider.
type Engine struct {
	store  storage.Provider
	logger *slog.Logger
}

// NewEngine creates an Engine. A nil logger uses slog.Default().
func NewEngine(store storage.Provider, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, logger: logger}
}

// Relocate plans and applies the relocation of src. The returned plan is
// non-nil whenever planning succeeded, even if applying failed part way.
func (e *Engine) Relocate(mode Mode, src string, ts models.Timestamp) (*Plan, error) {
	p, err := e.Plan(mode, src, ts)
	if err != nil {
		return nil, err
	}
	return p, e.Apply(p)
}

// Plan computes the destination of src and of each member of its family
// without touching the file system.
func (e *Engine) Plan(mode Mode, src string, ts models.Timestamp) (*Plan, error) {
	if !mode.Renames() && !mode.Moves() {
		return nil, fmt.Errorf("relocate: invalid mode %v", mode)
	}

	srcDir, base := filepath.Dir(src), filepath.Base(src)
	srcStem, srcExt := splitName(base)

	names, err := e.list(srcDir)
	if err != nil {
		return nil, err
	}
	srcFam := familyOf(srcDir, names, srcStem)
	if !srcFam.contains(base) {
		return nil, fmt.Errorf("relocate: %s: %w", src, fs.ErrNotExist)
	}

	destDir := srcDir
	if mode.Moves() {
		// A source already inside its day directory stays there.
		if bucket := codec.DirName(ts); filepath.Base(srcDir) != bucket {
			destDir = filepath.Join(srcDir, bucket)
		}
	}

	stem := srcStem
	if mode.Renames() {
		if stem, err = codec.Encode(ts); err != nil {
			return nil, err
		}
	}

	for suffix := 1; ; suffix++ {
		clash, err := e.collides(srcFam, srcExt, srcDir, destDir, stem)
		if err != nil {
			return nil, err
		}
		if clash == "" {
			break
		}
		e.logger.Debug("relocate: collision",
			slog.String("source", src),
			slog.String("stem", stem),
			slog.String("with", clash))

		if mode.Renames() {
			ts = ts.AddSeconds(1)
			if stem, err = codec.Encode(ts); err != nil {
				return nil, err
			}
		} else {
			stem = fmt.Sprintf("%s-%d", srcStem, suffix)
		}
	}

	p := &Plan{Mode: mode, Source: src, Timestamp: ts, DestDir: destDir, DestStem: stem}
	exts := make(map[string]bool, len(srcFam.names))
	for _, name := range srcFam.names {
		_, ext := splitName(name)
		exts[ext] = true
	}
	claimed := make(map[string]bool, len(srcFam.names))
	for _, name := range srcFam.names {
		_, ext := splitName(name)
		destExt := strings.ToLower(ext)
		if destExt != ext && (exts[destExt] || claimed[destExt]) {
			// Members differing only in extension case keep their own case.
			destExt = ext
		}
		claimed[destExt] = true
		to := filepath.Join(destDir, stem+destExt)

		from := srcFam.path(name)
		placed := from == to
		if !placed {
			if placed, err = e.store.Identical(from, to); err != nil {
				return nil, fmt.Errorf("relocate: %w: %w", apperr.ErrDirectoryRead, err)
			}
		}
		p.Moves = append(p.Moves, Move{From: from, To: to, AlreadyPlaced: placed})
	}
	return p, nil
}

// Apply performs the moves of p. Every destination is re-checked first: an
// existing file that is not the member itself fails with
// apperr.ErrInvariantViolation and nothing further is moved.
func (e *Engine) Apply(p *Plan) error {
	if p.Noop() {
		return nil
	}
	if p.DestDir != filepath.Dir(p.Source) {
		if err := e.store.MkdirAll(p.DestDir); err != nil {
			return fmt.Errorf("relocate: %w: %w", apperr.ErrRenameFailed, err)
		}
	}

	for i := range p.Moves {
		m := &p.Moves[i]
		if m.AlreadyPlaced {
			continue
		}

		exists, err := e.store.Exists(m.To)
		if err != nil {
			return fmt.Errorf("relocate: %w: %w", apperr.ErrDirectoryRead, err)
		}
		if exists {
			same, err := e.store.Identical(m.From, m.To)
			if err != nil {
				return fmt.Errorf("relocate: %w: %w", apperr.ErrDirectoryRead, err)
			}
			if !same {
				return fmt.Errorf("relocate: %s -> %s: %w", m.From, m.To, apperr.ErrInvariantViolation)
			}
			m.AlreadyPlaced = true
			continue
		}

		if err := e.store.Move(m.From, m.To); err != nil {
			if errors.Is(err, storage.ErrDestinationExists) {
				return fmt.Errorf("relocate: %s -> %s: %w", m.From, m.To, apperr.ErrInvariantViolation)
			}
			return fmt.Errorf("relocate: %s -> %s: %w: %w", m.From, m.To, apperr.ErrRenameFailed, err)
		}
		e.logger.Debug("relocate: moved", slog.String("from", m.From), slog.String("to", m.To))
	}
	return nil
}

// collides probes srcDir and destDir for a family named stem and returns the
// first entry of one that is not the source family itself. Directories count:
// a directory can never be the source, so one named like a candidate is a
// collision.
func (e *Engine) collides(srcFam family, srcExt, srcDir, destDir, stem string) (string, error) {
	dirs := []string{srcDir}
	if destDir != srcDir {
		dirs = append(dirs, destDir)
	}
	for _, dir := range dirs {
		names, err := e.store.Entries(dir)
		if err != nil {
			return "", fmt.Errorf("relocate: %w: %w", apperr.ErrDirectoryRead, err)
		}
		other := familyOf(dir, names, stem)
		if other.empty() {
			continue
		}
		same, err := e.sameFamily(srcFam, srcExt, other)
		if err != nil {
			return "", err
		}
		if !same {
			return other.path(other.names[0]), nil
		}
	}
	return "", nil
}

// sameFamily reports whether other consists of the source family's files:
// each member of other must be the source member with the same extension,
// and other's member with the source's extension must be the source file.
func (e *Engine) sameFamily(srcFam family, srcExt string, other family) (bool, error) {
	for _, name := range other.names {
		_, ext := splitName(name)
		counterpart, ok := srcFam.match(ext)
		if !ok {
			return false, nil
		}
		same, err := e.store.Identical(srcFam.path(counterpart), other.path(name))
		if err != nil {
			return false, fmt.Errorf("relocate: %w: %w", apperr.ErrDirectoryRead, err)
		}
		if !same {
			return false, nil
		}
	}

	srcName, _ := srcFam.match(srcExt)
	counterpart, ok := other.match(srcExt)
	if !ok {
		return false, nil
	}
	same, err := e.store.Identical(other.path(counterpart), srcFam.path(srcName))
	if err != nil {
		return false, fmt.Errorf("relocate: %w: %w", apperr.ErrDirectoryRead, err)
	}
	return same, nil
}

func (e *Engine) list(dir string) ([]string, error) {
	names, err := e.store.List(dir)
	if err != nil {
		return nil, fmt.Errorf("relocate: %w: %w", apperr.ErrDirectoryRead, err)
	}
	return names, nil
}
