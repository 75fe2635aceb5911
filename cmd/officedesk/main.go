package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/charadev96/officedesk/internal/client"
	"github.com/charadev96/officedesk/internal/client/api"
	"github.com/charadev96/officedesk/internal/client/config"
	"github.com/charadev96/officedesk/internal/client/domain"
	"github.com/charadev96/officedesk/internal/client/repository"
	"github.com/charadev96/officedesk/internal/client/session"
	"github.com/charadev96/officedesk/internal/shared/infra"
	"github.com/charadev96/officedesk/internal/shared/log"
)

const usage = `usage: officedesk [-config path] [-debug] <command> [args]

commands:
  login [username]          sign in and remember the session
  logout                    forget the session
  whoami                    show the signed-in user
  dashboard                 show today's overview
  employees [list]          list employees (admin)
  employees add             create an employee (admin)
  employees show <id>       show one employee (admin)
  employees rm <id>         delete an employee (admin)
  expenses [list]           list expenses
  expenses add              record an expense
  expenses rm <id>          delete an expense
  attendance [list]         list attendance records
  attendance in|out         check in or out
`

func main() {
	logger := log.New("main", zerolog.InfoLevel)
	if err := run(&logger); err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			logger.Error().Msg("not signed in, run 'officedesk login'")
		} else {
			logger.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}

func run(logger *zerolog.Logger) error {
	defaultPath, err := config.DefaultPath()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("officedesk", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := fs.String("config", defaultPath, "path to config.toml")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("no command given")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	level := log.Level(*debug || cfg.Debug)
	*logger = logger.Level(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sessLogger := log.New("session", level)
	apiLogger := log.New("api", level)
	sess := &session.Manager{
		Store:     store,
		Logger:    &sessLogger,
		TokenKey:  cfg.TokenKey,
		AdminRole: cfg.AdminRole,
	}
	c := &client.Client{
		Session: sess,
		API: api.New(cfg.BaseURL, sess, api.Options{
			Timeout: cfg.Timeout,
			Logger:  &apiLogger,
		}),
		Logger: logger,
	}

	if err := sess.Initialize(ctx); err != nil {
		return err
	}

	cmd := &command{client: c, out: os.Stdout}
	return cmd.dispatch(ctx, fs.Args())
}

func openStore(ctx context.Context, cfg config.Config) (domain.KeyValueStore, func() error, error) {
	if cfg.Store == config.StoreSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0700); err != nil {
			return nil, nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		db, err := infra.OpenSQLite(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		store, err := repository.NewBunStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil
	}
	return &repository.TOMLStore{FilePath: cfg.StorePath}, func() error { return nil }, nil
}
