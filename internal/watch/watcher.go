// Package watch feeds newly arriving files in a directory to a handler.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Handler processes one settled file. It returns the paths it produced so the
// watcher can ignore the events they cause.
type Handler func(path string) (produced []string, err error)

// Matcher decides which base names are of interest. Patterns are doublestar
// globs matched case-insensitively.
type Matcher struct {
	patterns []string
}

// NewMatcher validates and compiles include patterns.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		p = strings.ToLower(p)
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("watch: invalid include pattern %q", p)
		}
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Match reports whether the base name of path matches any pattern. An empty
// matcher matches everything.
func (m *Matcher) Match(path string) bool {
	if len(m.patterns) == 0 {
		return true
	}
	name := strings.ToLower(filepath.Base(path))
	for _, p := range m.patterns {
		if doublestar.MatchUnvalidated(p, name) {
			return true
		}
	}
	return false
}

// Watch starts an fsnotify watcher on dir and hands every created or written
// regular file whose name matches to h, once the file has been quiet for
// settle. Subdirectories are not watched. Files are handled one at a time on
// the calling goroutine. Watch returns nil when ctx is cancelled.
func Watch(ctx context.Context, dir string, match *Matcher, settle time.Duration, logger *slog.Logger, h Handler) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}

	logger.Info("watcher: started", slog.String("dir", dir), slog.Duration("settle", settle))

	// pending maps a path to the time it becomes eligible.
	pending := make(map[string]time.Time)
	produced := make(map[string]struct{})

	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	schedule := func(d time.Duration) {
		if settleTimer == nil {
			settleTimer = time.NewTimer(d)
			settleCh = settleTimer.C
			return
		}
		settleTimer.Reset(d)
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case now := <-settleCh:
			for _, path := range due(pending, now) {
				delete(pending, path)
				process(path, logger, h, produced)
			}
			if next, ok := earliest(pending); ok {
				schedule(time.Until(next))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if _, mine := produced[ev.Name]; mine {
				continue
			}
			if !match.Match(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now().Add(settle)
			logger.Debug("watcher: pending", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			next, _ := earliest(pending)
			schedule(time.Until(next))

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func process(path string, logger *slog.Logger, h Handler, produced map[string]struct{}) {
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() {
		logger.Debug("watcher: skipped", slog.String("path", path))
		return
	}

	out, err := h(path)
	for _, p := range out {
		produced[p] = struct{}{}
	}
	if err != nil {
		logger.Warn("watcher: handle failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	logger.Debug("watcher: handled", slog.String("path", path), slog.Int("produced", len(out)))
}

// due returns the pending paths eligible at now, sorted.
func due(pending map[string]time.Time, now time.Time) []string {
	var out []string
	for p, at := range pending {
		if !at.After(now) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func earliest(pending map[string]time.Time) (time.Time, bool) {
	var first time.Time
	for _, at := range pending {
		if first.IsZero() || at.Before(first) {
			first = at
		}
	}
	return first, !first.IsZero()
}
