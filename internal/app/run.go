package app

import (
	"context"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"experience-bottler/internal/app/bottler"
	"experience-bottler/internal/config"
	"experience-bottler/internal/feed"
	"experience-bottler/internal/grpc"
	"experience-bottler/internal/history"
	"experience-bottler/internal/kafka"
	kafkaWriter "experience-bottler/internal/kafka/writer"
	"experience-bottler/internal/metrics"
	"experience-bottler/internal/repository"
	"experience-bottler/internal/webhook"
)

func Run(cfg *config.Config, logger *zap.SugaredLogger) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	wg := &sync.WaitGroup{}

	logger.Infow("loaded bottler config", "presets", cfg.Bottler.Presets, "sessionTtl", cfg.Bottler.SessionTTL,
		"maxSessions", cfg.Bottler.MaxSessions)

	// the repository and notifier outlive the consumer so in flight packets can finish
	repoWg := &sync.WaitGroup{}
	repoCtx, repoCancel := context.WithCancel(context.Background())

	var (
		repo repository.Repository
		hook *webhook.Webhook
		g    errgroup.Group
	)
	g.Go(func() (err error) {
		repo, err = repository.NewMongoRepository(repoCtx, logger, repoWg, cfg.MongoDB)
		return
	})
	g.Go(func() (err error) {
		hook, err = webhook.NewWebhook(cfg.Webhook, logger)
		return
	})
	if err := g.Wait(); err != nil {
		logger.Fatalw("failed to start", "error", err)
	}

	notifier := kafkaWriter.NewKafkaNotifier(repoCtx, repoWg, cfg.Kafka, logger)

	hub := feed.NewHub(logger)
	announcers := []bottler.Announcer{hub}
	if hook != nil {
		announcers = append(announcers, hook)
		logger.Infow("announcing bottles to discord", "threshold", cfg.Webhook.Threshold)
	}

	svc := bottler.NewService(logger, repo, notifier, cfg.Bottler, announcers...)

	kafka.NewConsumer(ctx, wg, cfg.Kafka, logger, svc)

	if err := grpc.RunServices(ctx, logger, wg, cfg, repo); err != nil {
		logger.Fatalw("failed to start gRPC server", "error", err)
	}

	metrics.Serve(ctx, wg, logger, cfg.MetricsPort, metrics.NewRouter(map[string]http.Handler{
		"/ws/bottles": hub,
		history.Path:  history.NewHandler(logger, repo),
	}))

	wg.Wait()
	logger.Info("shutting down")

	logger.Info("shutting down repository")
	repoCancel()
	repoWg.Wait()
}
