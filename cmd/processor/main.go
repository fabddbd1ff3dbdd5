package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nimasrn/ledger-api/internal/config"
	gateway "github.com/nimasrn/ledger-api/internal/gateways"
	"github.com/nimasrn/ledger-api/internal/notify"
	"github.com/nimasrn/ledger-api/internal/repository"
	"github.com/nimasrn/ledger-api/pkg/logger"
	"github.com/nimasrn/ledger-api/pkg/pg"
	"github.com/nimasrn/ledger-api/pkg/prom"
	"github.com/nimasrn/ledger-api/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer logger.Sync()

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	logger.Info("starting notification processor", "version", version, "commit", commit, "date", date)

	db, err := pg.CreateReadWrite(cfg.ReadPostgres(), cfg.WritePostgres(), cfg.AppDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}
	defer db.Close()

	redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, cfg.Redis("ledger-processor"))
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}
	defer redisAdap.Close()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	client := gateway.NewSMSClient(cfg.SMSGateway())
	notificationRepo := repository.NewNotificationRepository(db)
	idempotencyService := notify.NewIdempotencyService(redisAdap, notify.DefaultIdempotencyConfig())

	service := notify.NewProcessorService(redisAdap,
		notify.NewSMSProcessor(notificationRepo, client, idempotencyService),
		notify.ServiceConfig{
			Queue:     cfg.NotificationQueue(),
			Consumers: cfg.QueueConsumers,
			Workers:   cfg.ProcessorWorkers,
		})

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	err = prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace)
	if err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}

	if cfg.AppDebugMetricsAddr != "" {
		go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
	}

	if err := service.Start(); err != nil {
		logger.Error("failed to start processor", "error", err)
		return
	}

	<-c
	service.Stop()
	stats := client.Stats()
	logger.Info("gateway totals", "requests", stats.TotalRequests, "success_rate", stats.SuccessRate)
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Stat(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
