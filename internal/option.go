package internal

import (
	"io"

	"github.com/starford/imgname/internal/datesource"
	"github.com/starford/imgname/internal/relocate"
	"github.com/starford/imgname/internal/storage"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config      *Config
	mode        relocate.Mode
	args        []string
	stdout      io.Writer
	stderr      io.Writer
	store       storage.Provider
	resolverOpt []datesource.ResolverOption
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMode sets the relocation mode of a batch.
func WithMode(m relocate.Mode) Option {
	return func(a *application) {
		a.mode = m
	}
}

// WithArgs sets the positional arguments: file paths for a batch, names or
// literals for the diagnostics, the directory for watch.
func WithArgs(args ...string) Option {
	return func(a *application) {
		a.args = args
	}
}

// WithOutput sets where outcome lines are written.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.stdout = w
	}
}

// WithLogOutput sets where log records are written.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.stderr = w
	}
}

// WithStorage replaces the file system provider.
func WithStorage(p storage.Provider) Option {
	return func(a *application) {
		a.store = p
	}
}

// WithResolverOptions passes options through to the date source resolver.
func WithResolverOptions(opts ...datesource.ResolverOption) Option {
	return func(a *application) {
		a.resolverOpt = append(a.resolverOpt, opts...)
	}
}
