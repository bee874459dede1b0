package app

import (
	"context"
	"sitepulse/config"
	"sitepulse/internals/modules/cycle"
	"sitepulse/internals/modules/history"
	"sitepulse/internals/modules/notify"
	"sitepulse/internals/modules/probe"
	"sitepulse/internals/modules/status"
	"sitepulse/pkg/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type Container struct {
	DB            *pgxpool.Pool // nil without a history db
	Logger        *zerolog.Logger
	Runner        *cycle.Runner
	Scheduler     *cycle.Scheduler
	statusHandler *status.Handler
}

func NewContainer(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Container, error) {

	prober := probe.New(cfg.Target, cfg.Monitor.RequestTimeout(), logger)
	notifySvc := notify.NewService(cfg, logger)

	var pool *pgxpool.Pool
	var histRepo *history.Repository
	var histStore cycle.HistoryStore
	var histReader status.HistoryReader

	if cfg.History.Enabled() {
		var err error
		pool, err = db.ConnectToDB(ctx, cfg.History, logger)
		if err != nil {
			return nil, err
		}

		histRepo = history.NewRepository(pool, logger)
		if err := histRepo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		histStore = histRepo
		histReader = histRepo
	}

	runner := cycle.NewRunner(prober, notifySvc, histStore, logger)

	scheduler, err := cycle.NewScheduler(ctx, runner, cfg.Monitor.Schedule, logger)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}

	return &Container{
		DB:            pool,
		Logger:        logger,
		Runner:        runner,
		Scheduler:     scheduler,
		statusHandler: status.NewHandler(runner, histReader),
	}, nil
}

func (c *Container) Shutdown() error {
	if c.DB != nil {
		c.DB.Close()
	}
	return nil
}
