package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/carservice/station/internal/client/app"
	"github.com/carservice/station/internal/client/cart"
	"github.com/carservice/station/internal/client/gateway"
	"github.com/carservice/station/internal/client/notify"
	"github.com/carservice/station/internal/client/session"
	"github.com/carservice/station/internal/client/station"
	"github.com/carservice/station/internal/client/storage"
	"github.com/carservice/station/internal/infrastructure/config"
	"github.com/carservice/station/pkg/logger"
)

// env is the client wiring shared by every command of one process, the
// interactive shell included.
type env struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader

	cfg     *config.ClientConfig
	log     zerolog.Logger
	center  *notify.Center
	session *session.Store
	cart    *cart.Store
	client  *station.Client
	app     *app.App
	closers []func() error
	inShell bool
	in      *bufio.Reader
}

// input is the one buffered reader over stdin, shared by the shell and prompts.
func (e *env) input() *bufio.Reader {
	if e.in == nil {
		e.in = bufio.NewReader(e.stdin)
	}
	return e.in
}

func (e *env) ready() bool { return e.app != nil }

func (e *env) init(ctx context.Context) error {
	if e.ready() {
		return nil
	}
	cfg, err := config.LoadClient(ctx)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.log = logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Output:  e.stderr,
		Service: "stationctl",
	})

	store, err := e.openStorage()
	if err != nil {
		return err
	}

	e.center = notify.NewCenter(0, e.log, notify.WriterSink(e.stderr), notify.LogSink(logger.For("notify")))
	e.session = session.Open(ctx, store, logger.For("session"))
	e.cart = cart.New()

	gw := gateway.New(cfg.APIURL, cfg.Timeout,
		gateway.WithTokenSource(e.session),
		gateway.WithNotifier(e.center),
		gateway.WithLogger(logger.For("gateway")),
	)
	e.client = station.New(gw)
	e.app = app.New(e.client, e.session, e.cart, e.center, logger.For("app"))
	return nil
}

func (e *env) openStorage() (storage.Storage, error) {
	switch e.cfg.Storage {
	case config.StorageMemory:
		return storage.NewMemory(), nil
	case config.StorageRedis:
		rdb := goredis.NewClient(&goredis.Options{Addr: e.cfg.RedisAddr, DB: e.cfg.RedisDB})
		e.closers = append(e.closers, rdb.Close)
		return storage.NewRedis(rdb, e.cfg.RedisPrefix), nil
	default:
		dir := e.cfg.StorageDir
		if dir == "" {
			base, err := os.UserConfigDir()
			if err != nil {
				return nil, fmt.Errorf("locate config dir: %w", err)
			}
			dir = filepath.Join(base, "stationctl")
		}
		return storage.NewFile(dir)
	}
}

// flush waits for pending notifications so they print before the next output.
func (e *env) flush() {
	if e.center != nil {
		e.center.Flush()
	}
}

func (e *env) close() {
	if e.center != nil {
		e.center.Close()
	}
	for _, c := range e.closers {
		if err := c(); err != nil {
			e.log.Warn().Err(err).Msg("close")
		}
	}
	e.closers = nil
}

// reportedError marks an error the user has already been notified about.
type reportedError struct{ err error }

func (r *reportedError) Error() string { return r.err.Error() }
func (r *reportedError) Unwrap() error { return r.err }

// reported wraps errors coming from the app and the station client, which
// notify on their own.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}
