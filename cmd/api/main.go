package main

import (
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nimasrn/ledger-api/internal/auth"
	"github.com/nimasrn/ledger-api/internal/balance"
	"github.com/nimasrn/ledger-api/internal/config"
	gateway "github.com/nimasrn/ledger-api/internal/gateways"
	"github.com/nimasrn/ledger-api/internal/handlers"
	"github.com/nimasrn/ledger-api/internal/notify"
	"github.com/nimasrn/ledger-api/internal/queue"
	"github.com/nimasrn/ledger-api/internal/repository"
	"github.com/nimasrn/ledger-api/internal/services"
	xhttp "github.com/nimasrn/ledger-api/pkg/http"
	"github.com/nimasrn/ledger-api/pkg/logger"
	"github.com/nimasrn/ledger-api/pkg/mailer"
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
	logger.Info("starting ledger api", "version", version, "commit", commit, "date", date)

	// money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if err := prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace); err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}
	if cfg.AppDebugMetricsAddr != "" {
		go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
	}

	// transport
	opt := xhttp.DefaultServerOption
	opt.Name = cfg.AppName
	opt.ReadTimeout = cfg.HttpServerReadTimeout
	opt.WriteTimeout = cfg.HttpServerWriteTimeout
	s := xhttp.NewServer(opt)
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(prom.HTTPMiddleware)
	s.Use(xhttp.CORSMiddleware(xhttp.CORSOption{AllowedOrigins: cfg.AllowedOrigins()}))
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(cfg.HttpRequestTimeout))

	db, err := pg.CreateReadWrite(cfg.ReadPostgres(), cfg.WritePostgres(), cfg.AppDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}
	defer db.Close()

	redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, cfg.Redis("ledger-api"))
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}
	defer redisAdap.Close()

	q, err := queue.NewQueue(redisAdap, cfg.NotificationQueue())
	if err != nil {
		logger.Error("failed creating queue", "error", err)
		return
	}

	var mail mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTPUser != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTP())
	}
	sms := gateway.NewSMSClient(cfg.SMSGateway())

	// repositories
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)

	// services
	dispatcher := notify.NewDispatcher(customerRepo, templateRepo, notificationRepo, q)
	engine := balance.NewEngine(customerRepo)
	ledgerService := services.NewLedgerService(db, transactionRepo, customerRepo, engine, dispatcher)
	customerService := services.NewCustomerService(customerRepo, transactionRepo, sms, notificationRepo)
	productService := services.NewProductService(productRepo)
	templateService := services.NewTemplateService(templateRepo)
	statisticsService := services.NewStatisticsService(statisticsRepo, transactionRepo, customerRepo, productRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	authService := auth.NewService(adminRepo, auth.NewTokenIssuer(cfg.JWTSecret), mail, auth.Options{
		SessionTTL:  cfg.SessionTTL,
		ResetTTL:    cfg.PasswordResetTTL,
		FrontendURL: cfg.FrontendURL,
	})

	// handlers
	guard := handlers.AuthMiddleware(authService)
	g := s.Router.Group(cfg.HttpBaseRequestUrl)
	handlers.RegisterAdminRoutes(g, handlers.NewAdminHandler(authService, cfg.IsProduction()), guard)
	handlers.RegisterCustomerRoutes(g, handlers.NewCustomerHandler(customerService), guard)
	handlers.RegisterProductRoutes(g, handlers.NewProductHandler(productService), guard)
	handlers.RegisterTemplateRoutes(g, handlers.NewTemplateHandler(templateService), guard)
	handlers.RegisterTransactionRoutes(g, handlers.NewTransactionHandler(ledgerService), guard)
	handlers.RegisterStatisticsRoutes(g, handlers.NewStatisticsHandler(statisticsService), guard)
	handlers.RegisterNotificationRoutes(g, handlers.NewNotificationHandler(notificationService), guard)
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(db, redisAdap, q, sms))

	s.CloseOnSignal()
	if err := s.ListenAndServe(cfg.HttpListenAddr); err != nil {
		logger.Error("error in running http-server", "error", err)
	}
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
