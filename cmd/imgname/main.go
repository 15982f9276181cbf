package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/imgname/internal"
	"github.com/starford/imgname/internal/datesource"
	"github.com/starford/imgname/internal/relocate"
	pkgconfig "github.com/starford/imgname/pkg/config"
)

// loadConfig layers defaults, the config file and command-line flags.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()

	if path := cmd.String("config"); path != "" {
		if err := pkgconfig.Load(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if dir, err := os.UserConfigDir(); err == nil {
		if _, err := pkgconfig.LoadIfExists(filepath.Join(dir, "imgname", "config.yaml"), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return nil, err
		}
	}
	switch {
	case cmd.Bool("filetime"):
		cfg.Source.Strategy = datesource.StrategyFileTime
	case cmd.Bool("filename"):
		cfg.Source.Strategy = datesource.StrategyFilename
	}
	if cmd.IsSet("offset") {
		cfg.Source.OffsetHours = int(cmd.Int("offset"))
	}
	if cmd.IsSet("dry-run") {
		cfg.Relocate.DryRun = cmd.Bool("dry-run")
	}
	if cmd.IsSet("mode") {
		cfg.Watch.Mode = cmd.String("mode")
	}
	if cmd.IsSet("include") {
		cfg.Watch.Include = cmd.StringSlice("include")
	}
	if cmd.IsSet("settle") {
		cfg.Watch.Settle = cmd.Duration("settle")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func requireArgs(cmd *cli.Command, what string) error {
	if cmd.NArg() == 0 {
		return fmt.Errorf("%s: at least one %s is required", cmd.Name, what)
	}
	return nil
}

func relocateAction(mode relocate.Mode) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := requireArgs(cmd, "file"); err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return internal.Run(ctx,
			internal.WithConfig(cfg),
			internal.WithMode(mode),
			internal.WithArgs(cmd.Args().Slice()...),
			internal.WithOutput(cmd.Root().Writer),
			internal.WithLogOutput(cmd.Root().ErrWriter),
		)
	}
}

func watchAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("watch: exactly one directory is required")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Watch(ctx,
		internal.WithConfig(cfg),
		internal.WithArgs(cmd.Args().First()),
		internal.WithOutput(cmd.Root().Writer),
		internal.WithLogOutput(cmd.Root().ErrWriter),
	)
}

func diagnosticAction(what string, run func(context.Context, ...internal.Option) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := requireArgs(cmd, what); err != nil {
			return err
		}
		return run(ctx,
			internal.WithConfig(internal.NewDefaultConfig()),
			internal.WithArgs(cmd.Args().Slice()...),
			internal.WithOutput(cmd.Root().Writer),
		)
	}
}

// dateSourceFlags returns a fresh strategy group; groups are not inherited by
// subcommands, so each relocating command carries its own.
func dateSourceFlags() []cli.MutuallyExclusiveFlags {
	return []cli.MutuallyExclusiveFlags{{
		Category: "date source",
		Flags: [][]cli.Flag{
			{&cli.BoolFlag{
				Name:    "filetime",
				Aliases: []string{"f"},
				Usage:   "Use the file modification time instead of capture metadata",
				Sources: cli.EnvVars("IMGNAME_FILETIME"),
			}},
			{&cli.BoolFlag{
				Name:    "filename",
				Aliases: []string{"n"},
				Usage:   "Parse the date from names like PREFIX_YYYYMMDD_HHMMSS",
				Sources: cli.EnvVars("IMGNAME_FILENAME"),
			}},
		},
	}}
}

func relocateCommand(mode relocate.Mode, usage string) *cli.Command {
	return &cli.Command{
		Name:                   mode.String(),
		Usage:                  usage,
		ArgsUsage:              "FILE...",
		MutuallyExclusiveFlags: dateSourceFlags(),
		Action:                 relocateAction(mode),
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  "imgname",
		Usage:                 "Rename and file photos and videos by their capture date",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("IMGNAME_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("IMGNAME_LOG_LEVEL"),
				Validator: func(s string) error {
					var lvl slog.Level
					return lvl.UnmarshalText([]byte(s))
				},
			},
			&cli.IntFlag{
				Name:             "offset",
				Aliases:          []string{"o"},
				Usage:            "Hours added to every resolved timestamp (-23..23)",
				Sources:          cli.EnvVars("IMGNAME_OFFSET"),
				ValidateDefaults: true,
				Validator: func(v int64) error {
					if v < -internal.MaxOffsetHours || v > internal.MaxOffsetHours {
						return fmt.Errorf("offset %d out of range -%d..%d", v, internal.MaxOffsetHours, internal.MaxOffsetHours)
					}
					return nil
				},
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Usage:   "Print what would be done without moving anything",
				Sources: cli.EnvVars("IMGNAME_DRY_RUN"),
			},
		},
		Commands: []*cli.Command{
			relocateCommand(relocate.RenameOnly, "Rename files to their date token"),
			relocateCommand(relocate.MoveOnly, "Move files into YYYY-MM-DD directories"),
			relocateCommand(relocate.RenameAndMove, "Rename files and move them into YYYY-MM-DD directories"),
			{
				Name:      "get-date",
				Usage:     "Print the timestamp encoded in file names",
				ArgsUsage: "NAME...",
				Action:    diagnosticAction("name", internal.GetDate),
			},
			{
				Name:      "get-name",
				Usage:     `Print the token for "YYYY:MM:DD HH:MM:SS" timestamps`,
				ArgsUsage: "TIMESTAMP...",
				Action:    diagnosticAction("timestamp", internal.GetName),
			},
			{
				Name:                   "watch",
				Usage:                  "Relocate files as they arrive in a directory",
				ArgsUsage:              "DIR",
				MutuallyExclusiveFlags: dateSourceFlags(),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "mode",
						Usage:   "Relocation mode (rename, move, rename-move)",
						Sources: cli.EnvVars("IMGNAME_WATCH_MODE"),
						Validator: func(s string) error {
							_, err := relocate.ParseMode(s)
							return err
						},
					},
					&cli.StringSliceFlag{
						Name:  "include",
						Usage: "Glob a file name must match to be processed (repeatable)",
					},
					&cli.DurationFlag{
						Name:  "settle",
						Usage: "How long a file must be unchanged before it is processed",
					},
				},
				Action: watchAction,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
