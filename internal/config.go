package internal

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/imgname/internal/datesource"
	"github.com/starford/imgname/internal/relocate"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// MaxOffsetHours bounds the hour offset in either direction.
const MaxOffsetHours = 23

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Source   SourceConfig      `yaml:"source"`
	Relocate RelocateConfig    `yaml:"relocate"`
	Watch    WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Source.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// SourceConfig selects where timestamps come from.
type SourceConfig struct {
	Strategy    datesource.Strategy `yaml:"strategy"`
	OffsetHours int                 `yaml:"offset_hours"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	if c.Strategy == "" {
		c.Strategy = datesource.StrategyCapture
	}
	strategies := make([]interface{}, len(datesource.Strategies))
	for i, s := range datesource.Strategies {
		strategies[i] = s
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Strategy, validation.In(strategies...)),
		validation.Field(&c.OffsetHours, validation.Min(-MaxOffsetHours), validation.Max(MaxOffsetHours)),
	)
}

// ToSource converts the section into the resolver's date source.
func (c *SourceConfig) ToSource() datesource.Source {
	return datesource.Source{Strategy: c.Strategy, OffsetHours: c.OffsetHours}
}

// RelocateConfig controls how relocations are applied.
type RelocateConfig struct {
	DryRun bool `yaml:"dry_run"`
}

// WatchConfig holds watch mode configuration.
type WatchConfig struct {
	Include []string      `yaml:"include"`
	Settle  time.Duration `yaml:"settle"`
	Mode    string        `yaml:"mode"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	modes := make([]interface{}, len(relocate.ModeNames))
	for i, m := range relocate.ModeNames {
		modes[i] = m
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(modes...)),
		validation.Field(&c.Settle, validation.Required, validation.Min(time.Millisecond)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
		},
		Source: SourceConfig{
			Strategy: datesource.StrategyCapture,
		},
		Watch: WatchConfig{
			Include: []string{
				"*.{jpg,jpeg,png,heic,heif,tif,tiff,dng}",
				"*.{cr2,cr3,nef,arw,orf,raf,rw2}",
				"*.{mp4,mov,3gp}",
			},
			Settle: 2 * time.Second,
			Mode:   relocate.RenameAndMove.String(),
		},
	}
}
