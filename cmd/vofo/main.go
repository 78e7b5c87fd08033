// Command vofo runs the VoFo Music API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/justestif/vofo-music/internal/config"
	"github.com/justestif/vofo-music/internal/db"
	"github.com/justestif/vofo-music/internal/db/sqlite"
	"github.com/justestif/vofo-music/internal/library"
	"github.com/justestif/vofo-music/internal/web"
	"github.com/justestif/vofo-music/internal/ytmusic"
	webfs "github.com/justestif/vofo-music/web"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	app := &cli.Command{
		Name:  "vofo",
		Usage: "VoFo Music API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Sources: cli.EnvVars("VOFO_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error { return serve(ctx, cmd, logger) },
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations and exit",
				Action: func(ctx context.Context, cmd *cli.Command) error { return migrate(ctx, cmd, logger) },
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error { return serve(ctx, cmd, logger) },
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("application error", "err", err)
	}
}

// loadConfig reads the configuration and applies the log level.
func loadConfig(cmd *cli.Command, logger *log.Logger) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: log level %q", config.ErrInvalidConfig, cfg.Log.Level)
	}
	logger.SetLevel(level)
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command, logger *log.Logger) error {
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}

	connector := library.NewConnector(dialer(cfg.Database.URL),
		library.WithRetryInterval(cfg.Database.RetryInterval),
		library.WithLogger(logger.With("component", "db")),
	)
	defer connector.Close()

	if cfg.Database.URL == "" {
		logger.Warn("no database configured, account and like endpoints will return 503")
	} else if err := connector.Connect(ctx); err != nil {
		logger.Warn("starting without database", "err", err)
	}

	srvCfg := web.ServerConfig{
		Addr:    cfg.Addr(),
		Library: library.NewService(connector),
		Region:  cfg.Catalog.Region,
		Logger:  logger,
	}

	// Leave Catalog nil rather than storing a nil *ytmusic.Client in the interface.
	client, err := ytmusic.NewClient(&ytmusic.Config{
		ProxyURL: cfg.Catalog.ProxyURL,
		Timeout:  cfg.Catalog.Timeout,
	})
	switch {
	case errors.Is(err, ytmusic.ErrMissingProxyURL):
		logger.Warn("no YouTube Music proxy configured, catalog endpoints will return 503")
	case err != nil:
		logger.Warn("YouTube Music client disabled", "err", err)
	default:
		srvCfg.Catalog = client
	}

	srvCfg.StaticFS, err = staticFS(cfg.Server.StaticDir)
	if err != nil {
		return err
	}

	server, err := web.NewServer(srvCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}

func migrate(ctx context.Context, cmd *cli.Command, logger *log.Logger) error {
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("%w: %s is not set", config.ErrInvalidConfig, config.EnvDatabaseURL)
	}

	store, err := dialer(cfg.Database.URL)(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("migrations applied")
	return nil
}

// migrator is a store that can apply its schema.
type migrator interface {
	library.Store
	Migrate(ctx context.Context) error
}

// dialer returns a DialFunc that opens and migrates the store selected by
// databaseURL: SQLite for sqlite: URLs, PostgreSQL otherwise. An empty URL
// yields nil, which the connector treats as "not configured".
func dialer(databaseURL string) library.DialFunc {
	if databaseURL == "" {
		return nil
	}

	return func(ctx context.Context) (library.Store, error) {
		var store migrator
		if path, ok := sqlite.PathFromURL(databaseURL); ok {
			s, err := sqlite.New(ctx, path)
			if err != nil {
				return nil, err
			}
			store = s
		} else {
			d, err := db.New(ctx, db.NormalizeURL(databaseURL))
			if err != nil {
				return nil, err
			}
			store = d
		}

		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	}
}

// staticFS returns the frontend files: dir on disk when set, the embedded copy otherwise.
func staticFS(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static filesystem: %w", err)
	}
	return static, nil
}
