package command

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/dms-portal/internal/infra/buildinfo"
	"github.com/yndnr/dms-portal/internal/infra/confloader"
	"github.com/yndnr/dms-portal/internal/infra/shutdown"
	"github.com/yndnr/dms-portal/internal/server/config"
	"github.com/yndnr/dms-portal/internal/server/httpserver"
	"github.com/yndnr/dms-portal/internal/telemetry/logger"
	"github.com/yndnr/dms-portal/internal/telemetry/metric"
)

// ServeCommand returns the serve command.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the portal HTTP server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload log.level when the config file changes",
				Value: true,
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.Server.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.HTTP.Addr, err)
	}

	return serve(c.Context, cfg, flags, log, ln, c.Bool("watch"))
}

// serve runs the portal on ln until ctx ends or a signal arrives.
func serve(ctx context.Context, cfg *config.PortalConfig, flags *GlobalFlags, log logger.Logger, ln net.Listener, watch bool) error {
	log.Info("starting dms-portal",
		"version", buildinfo.Version,
		"commit", buildinfo.Get().Commit,
		"config", flags.ConfigFile,
		"backend", cfg.Backend.BaseURL,
		"session_backend", cfg.Session.Backend)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	st, err := buildStack(runCtx, cfg, log, metric.Global())
	if err != nil {
		ln.Close()
		return err
	}
	st.start(runCtx)

	srv := httpserver.New(ln.Addr().String(), st.Handler,
		httpserver.WithTimeouts(cfg.Server.HTTP.ReadTimeout, cfg.Server.HTTP.WriteTimeout),
		httpserver.WithErrorLog(logger.StdLog(log, slog.LevelWarn)),
		httpserver.WithBaseContext(runCtx),
	)

	sh := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout, shutdown.WithLogger(log))

	// Hooks run in reverse: HTTP first, then watcher, then sessions.
	sh.OnShutdown(func(context.Context) error {
		log.Info("closing session backend")
		return st.Close()
	})

	if flags.ConfigFile != "" && watch {
		w, err := watchConfig(flags, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			sh.OnShutdown(func(context.Context) error { return w.Stop() })
		}
	}

	sh.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return srv.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", ln.Addr().String(), "tls", cfg.Server.HTTP.TLSEnabled())
		var err error
		if cfg.Server.HTTP.TLSEnabled() {
			err = srv.ServeTLS(ln, cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = srv.Serve(ln)
		}
		if err != nil {
			log.Error("HTTP server error", "error", err)
			sh.Trigger()
		}
	}()

	if err := sh.Wait(runCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}
	log.Info("server stopped gracefully")
	return nil
}

// initLogger builds the process logger from cfg and makes it the default.
func initLogger(cfg *config.PortalConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// watchConfig reloads the config file on change and applies log.level.
// Other settings need a restart.
func watchConfig(flags *GlobalFlags, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(flags.ConfigFile); err != nil {
		w.Stop()
		return nil, err
	}
	w.OnChange(func(path string) {
		reloadLogLevel(flags, log)
	})
	w.StartAsync()
	return w, nil
}

// reloadLogLevel re-reads the configuration and applies its log level.
// An invalid file leaves the running level unchanged.
func reloadLogLevel(flags *GlobalFlags, log logger.Logger) {
	cfg, err := loadConfig(flags)
	if err != nil {
		log.Warn("config reload failed", "error", err)
		return
	}
	if err := config.Verify(cfg); err != nil {
		log.Warn("reloaded config is invalid", "error", err)
		return
	}
	if cfg.Log.Level == logger.GetLevel() {
		return
	}
	logger.SetLevel(cfg.Log.Level)
	log.Info("log level changed", "level", cfg.Log.Level)
}
