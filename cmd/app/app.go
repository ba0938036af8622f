package main

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/starford/qvlib/internal"
	pkgconfig "github.com/starford/qvlib/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "qvlib",
		Usage:   "Read, export and edit a Quiver note library",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigPath,
				Value:       defaultConfigPath,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "library",
				Aliases: []string{"l"},
				Usage:   "Path to the Quiver library (overrides library.path)",
				Sources: cli.EnvVars("QVLIB_LIBRARY"),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Path to the search index (overrides sqlite.path)",
				Sources: cli.EnvVars("QVLIB_DB"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			notebooksCommand(),
			notesCommand(),
			treeCommand(),
			showCommand(),
			applyCommand(),
			indexCommand(),
			searchCommand(),
		},
	}
}

// loadConfig builds the configuration from defaults, the config file and
// command-line overrides. A missing default config file is not an error.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	path := cmd.String("config")

	if cmd.IsSet("config") {
		if err := pkgconfig.Load(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if _, err := pkgconfig.LoadIfExists(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if lib := cmd.String("library"); lib != "" {
		cfg.Library.Path = lib
	}
	if db := cmd.String("db"); db != "" {
		cfg.SQLite.Path = db
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// openWorkspace loads the configuration and opens the library, logging to
// the command's error writer.
func openWorkspace(cmd *cli.Command, extra ...internal.Option) (*internal.Workspace, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts := append([]internal.Option{
		internal.WithConfig(cfg),
		internal.WithLogger(internal.NewLogger(cmd.Root().ErrWriter, cfg.App.LogLevel)),
		internal.WithVersion(version),
	}, extra...)
	return internal.Open(opts...)
}
