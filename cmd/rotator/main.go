package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"team_rotator/internal/app"
	"team_rotator/internal/infra/cache"
	"team_rotator/internal/infra/calendar"
	"team_rotator/internal/infra/config"
	idb "team_rotator/internal/infra/database"
	"team_rotator/internal/infra/httpapi"
	"team_rotator/internal/infra/logger"
	"team_rotator/internal/infra/memstore"
	"team_rotator/internal/infra/metrics"
	"team_rotator/internal/infra/notifier"
	"team_rotator/internal/infra/scheduler"
	"team_rotator/internal/infra/slack"
	"team_rotator/internal/infra/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}

	logBuffer := logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"timezone":    cfg.Location.String(),
		"step_policy": cfg.StepPolicy,
	}).Info("Configuration loaded.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore := openStore(ctx, cfg, mainLogger)
	defer closeStore()

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			mainLogger.WithError(err).Fatal("Invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			mainLogger.WithError(err).Warn("Redis is unreachable, reads will fall through to storage")
		}
		c := cache.New(cache.Backends(repos), rdb, cfg.CacheTTL)
		repos = app.Repositories{Members: c.Members(), Tasks: c.Tasks(), Assignments: c.Assignments(), Configs: c.Configs()}
		mainLogger.WithField("ttl", cfg.CacheTTL).Info("Redis read cache enabled.")
	}

	holidays := calendar.NewHolidayCalendar(cfg.HolidayAPIURL, cfg.HolidayCacheTTL, nil, logger.Component("calendar"))

	webhook := slack.NewWebhookClient(nil)
	router := notifier.NewRouter().
		Route("https://", webhook).
		Route("http://", webhook)

	var bot *telebot.Bot
	if cfg.TelegramToken != "" {
		botLogger := logger.Component("telegram")
		bot, err = telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) { // Global error handler
				entry := botLogger.WithError(err)
				if c != nil && c.Sender() != nil && c.Chat() != nil {
					entry = entry.WithFields(logrus.Fields{"sender_id": c.Sender().ID, "chat_id": c.Chat().ID})
				}
				entry.Error("Telegram handler failed")
			},
		})
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create Telegram bot")
		}
		router.Route(telegram.DestinationPrefix, telegram.NewTelebotAdapter(bot))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := app.NewRotationService(repos, holidays, router, app.ServiceConfig{
		StepPolicy:      cfg.StepPolicy,
		Location:        cfg.Location,
		WebhookURL:      cfg.SlackWebhookURL,
		ErrorWebhookURL: cfg.SlackErrorURL,
	},
		app.WithLogger(logger.Component("rotation")),
		app.WithMetrics(metrics.NewPrometheus(registry, "rotator")),
	)

	rotationScheduler := scheduler.NewRotationScheduler(
		svc,
		logger.Component("scheduler"),
		cfg.Location,
		cfg.CronSpecRotation,
		cfg.CheckWorkingDay,
		cfg.JobTimeout,
	)
	if err := rotationScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}

	server := httpapi.NewServer(svc, httpapi.Options{
		Addr:            cfg.HTTPAddr,
		CheckWorkingDay: cfg.CheckWorkingDay,
		Logs:            logBuffer,
		Gatherer:        registry,
		Admin:           app.NewAdminService(svc),
	}, logger.Component("http"))
	go func() {
		if err := server.Start(); err != nil {
			mainLogger.WithError(err).Error("HTTP server stopped")
			stop()
		}
	}()

	if bot != nil {
		botLogger := logger.Component("telegram")
		telegram.RegisterBotCommands(bot, cfg.AdminTelegramID, botLogger)
		telegram.RegisterAdminHandlers(ctx, bot, svc, cfg.AdminTelegramID, botLogger)
		mainLogger.Info("Telegram command handlers registered.")
		go bot.Start()
	}

	mainLogger.Info("Application setup complete.")
	<-ctx.Done()

	mainLogger.Info("Shutting down application...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Warn("HTTP server shutdown failed")
	}
	rotationScheduler.Stop()
	if bot != nil {
		bot.Stop()
	}
	mainLogger.Info("Application shut down gracefully.")
}

// openStore connects Postgres when DATABASE_URL is set and otherwise builds the in-memory store.
func openStore(ctx context.Context, cfg *config.AppConfig, log *logrus.Entry) (app.Repositories, func()) {
	if cfg.DatabaseURL == "" {
		store := memstore.New()
		if cfg.SeedFile != "" {
			var err error
			store, err = memstore.LoadFile(cfg.SeedFile)
			if err != nil {
				log.WithError(err).Fatal("Could not load seed file")
			}
		}
		log.WithField("seed_file", cfg.SeedFile).Warn("DATABASE_URL not set, using in-memory store")
		return app.Repositories{
			Members:     store.Members(),
			Tasks:       store.Tasks(),
			Assignments: store.Assignments(),
			Configs:     store.Configs(),
		}, func() {}
	}

	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL, idb.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.WithError(err).Fatal("Could not connect to database")
	}
	if err := idb.EnsureSchema(ctx, db); err != nil {
		log.WithError(err).Fatal("Could not apply database schema")
	}
	log.Info("Database connection established successfully.")
	return app.Repositories{
		Members:     idb.NewPostgresMemberRepository(db),
		Tasks:       idb.NewPostgresTaskRepository(db),
		Assignments: idb.NewPostgresAssignmentRepository(db),
		Configs:     idb.NewPostgresConfigRepository(db),
	}, func() { closeDB(db, log) }
}

func closeDB(db *sql.DB, log *logrus.Entry) {
	if err := db.Close(); err != nil {
		log.WithError(err).Warn("Closing database failed")
	}
}
