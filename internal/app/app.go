// Package app wires configuration, storage, auditing and the console into a
// runnable CloudVault process.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/cloudvault/internal/audit"
	"github.com/dmitrijs2005/cloudvault/internal/cli"
	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/config"
	"github.com/dmitrijs2005/cloudvault/internal/engine"
	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/repositories/repomanager"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	engine  *engine.Engine
	console *cli.App
	closers []io.Closer
}

// NewApp opens the configured backend and builds the engine and console on
// top of it. Logs go to stderr unless cfg.LogFile is set.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, stderr io.Writer) (*App, error) {
	app := &App{config: c}

	logOut := stderr
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("log file error: %w", err)
		}
		app.closers = append(app.closers, f)
		logOut = f
	}
	logger, err := logging.New(logOut, logging.Options{Level: c.LogLevel, Format: c.LogFormat})
	if err != nil {
		app.close()
		return nil, err
	}
	app.logger = logger

	repos, err := repomanager.New(ctx, c)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	app.repos = repos

	sinks := audit.Multi{audit.NewFileSink(c.AuditLogPath(), logger), audit.NewLoggerSink(logger)}
	if s := repos.Audit(logger); s != nil {
		sinks = append(sinks, s)
	}

	app.engine = engine.New(repos.Users(), repos.Files(), engine.Options{
		MaxFailedLogins: c.MaxFailedLogins,
		Codes:           cli.ConsoleCodeSender(out),
		Audit:           sinks,
		Logger:          logger,
	})
	app.console = cli.NewApp(app.engine, in, out)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run loads the account table, serves the console until it exits or the
// process is signalled, then records shutdown and releases the backend.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.initSignalHandler(cancelFunc)

	if err := app.engine.Open(ctx); err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	app.logger.Info(ctx, "cloudvault started", "backend", app.config.Backend)

	if name := app.config.BootstrapAdmin; name != "" {
		err := app.engine.PromoteAdmin(ctx, name)
		switch {
		case errors.Is(err, common.ErrAccountNotFound):
			app.logger.Warn(ctx, "bootstrap admin not registered yet", "user", name)
		case err != nil:
			return fmt.Errorf("promote %s: %w", name, err)
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.console.Run(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		app.logger.Info(ctx, "interrupted")
	}

	app.engine.Close(context.WithoutCancel(ctx))
	return nil
}

func (app *App) close() {
	if app.repos != nil {
		if err := app.repos.Close(); err != nil && app.logger != nil {
			app.logger.Warn(context.Background(), "storage close failed", "error", err)
		}
	}
	for _, c := range app.closers {
		c.Close()
	}
}
