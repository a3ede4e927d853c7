package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"radarr-notify/internal/config"
	hhttp "radarr-notify/internal/handler/http"
	"radarr-notify/internal/infra/notifier"
	"radarr-notify/internal/infra/radarr"
	"radarr-notify/internal/infra/worker"
	"radarr-notify/internal/observability/slo"
	"radarr-notify/internal/resilience/circuitbreaker"
	"radarr-notify/internal/usecase/monitor"
	"radarr-notify/internal/usecase/notify"
)

const (
	// flushJobName is the scheduler key of the Discord flush job.
	flushJobName = "discord:flush"

	sloJobName  = "slo:update"
	sloSchedule = "@every 1m"
)

// app holds the wired service components.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	scheduler  *worker.Scheduler
	client     *radarr.Client
	dispatcher *notify.QueueDispatcher
	manager    *notify.Manager
	poller     *monitor.Poller
	server     *http.Server
}

// newApp wires every component from cfg. The scheduler is not started.
// With dryRun the dispatcher logs messages instead of posting them.
func newApp(cfg *config.Config, dryRun bool, logger *slog.Logger) (*app, error) {
	scheduler, err := worker.NewScheduler(worker.Config{
		Timezone:       cfg.Scheduler.Timezone,
		DefaultTimeout: cfg.Scheduler.JobTimeout.Std(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	client, err := newRadarrClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	sender, err := notify.NewSender(notifier.DiscordConfig{
		WebhookURL: cfg.Discord.WebhookURL,
		Username:   cfg.Discord.Username,
		Timeout:    cfg.Discord.Timeout.Std(),
		RateLimit:  cfg.Discord.RateLimit,
		RateBurst:  cfg.Discord.RateBurst,
	}, dryRun, logger)
	if err != nil {
		return nil, fmt.Errorf("create sender: %w", err)
	}
	dispatcher, err := notify.NewQueueDispatcher(sender, logger)
	if err != nil {
		return nil, fmt.Errorf("create dispatcher: %w", err)
	}
	manager, err := notify.NewManager(dispatcher, notify.ManagerConfig{
		HistoryLimit: cfg.Notifications.HistoryLimit,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create notification manager: %w", err)
	}

	poller, err := monitor.NewPoller(client, manager, scheduler, monitor.Config{
		Source:   "radarr",
		Schedule: cfg.Radarr.Schedule,
		Timeout:  cfg.Radarr.Timeout.Std(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create poller: %w", err)
	}

	if err := scheduler.Add(worker.Job{
		Name:     flushJobName,
		Schedule: cfg.Discord.FlushSchedule,
		Run:      dispatcher.Flush,
	}); err != nil {
		return nil, fmt.Errorf("register flush job: %w", err)
	}
	if err := scheduler.Add(worker.Job{
		Name:     sloJobName,
		Schedule: sloSchedule,
		Run:      slo.NewUpdater(nil).Update,
	}); err != nil {
		return nil, fmt.Errorf("register slo job: %w", err)
	}
	if cfg.Radarr.Enabled {
		if err := poller.Enable(); err != nil {
			return nil, fmt.Errorf("enable poller: %w", err)
		}
	}

	a := &app{
		cfg:        cfg,
		logger:     logger,
		scheduler:  scheduler,
		client:     client,
		dispatcher: dispatcher,
		manager:    manager,
		poller:     poller,
	}
	a.server = &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: hhttp.NewRouter(hhttp.RouterDeps{
			Poller:    poller,
			History:   manager,
			Queue:     dispatcher,
			Jobs:      scheduler,
			Breaker:   client.Breaker(),
			Version:   version,
			StartedAt: time.Now(),
			Logger:    logger,
		}),
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
	}
	return a, nil
}

func newRadarrClient(cfg *config.Config, logger *slog.Logger) (*radarr.Client, error) {
	client, err := radarr.NewClient(radarr.Config{
		URL:     cfg.Radarr.URL,
		APIKey:  cfg.Radarr.APIKey,
		Timeout: cfg.Radarr.Timeout.Std(),
	}, circuitbreaker.New(circuitbreaker.RadarrConfig()), logger)
	if err != nil {
		return nil, fmt.Errorf("create radarr client: %w", err)
	}
	return client, nil
}

// run starts the scheduler and serves HTTP on ln until ctx is cancelled,
// then shuts everything down. A nil ln listens on the configured address.
func (a *app) run(ctx context.Context, ln net.Listener) error {
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", a.server.Addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
		}
	}

	a.scheduler.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server starting",
			slog.String("addr", ln.Addr().String()),
			slog.String("version", version),
			slog.String("radarr", a.client.Endpoint()),
			slog.Bool("poller_enabled", a.poller.Enabled()))
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})
	return g.Wait()
}

// shutdown stops the HTTP server, then the scheduler, then delivers
// whatever is still queued. Every step shares one timeout.
func (a *app) shutdown() error {
	a.logger.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Std())
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := a.scheduler.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("scheduler stop: %w", err))
	}
	if pending := a.dispatcher.Pending(); pending > 0 {
		a.logger.Info("flushing pending notifications", slog.Int("pending", pending))
		if err := a.dispatcher.Flush(ctx); err != nil {
			a.logger.Warn("final flush incomplete", slog.Any("error", err))
		}
	}

	a.logger.Info("stopped")
	return errors.Join(errs...)
}
