package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hr_evaluation_reminder/internal/app"
	"hr_evaluation_reminder/internal/domain/mail"
	"hr_evaluation_reminder/internal/domain/sendlog"
	"hr_evaluation_reminder/internal/infra/config"
	idb "hr_evaluation_reminder/internal/infra/database"
	"hr_evaluation_reminder/internal/infra/filestore"
	"hr_evaluation_reminder/internal/infra/httpapi"
	"hr_evaluation_reminder/internal/infra/lark"
	"hr_evaluation_reminder/internal/infra/lock"
	"hr_evaluation_reminder/internal/infra/logger"
	"hr_evaluation_reminder/internal/infra/mailer"
	"hr_evaluation_reminder/internal/infra/metrics"
	"hr_evaluation_reminder/internal/infra/routing"
	"hr_evaluation_reminder/internal/infra/scheduler"
	"hr_evaluation_reminder/internal/infra/telegram"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	baseLogger := logrus.NewEntry(logger.Log)
	mainLogger := logger.Component("main")

	mainLogger.WithFields(logrus.Fields{
		"environment":   cfg.Environment,
		"mail_provider": cfg.MailProvider,
		"timezone":      cfg.Timezone,
	}).Info("HR evaluation reminder starting...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Send log: Postgres with the JSON file as fallback, or the file alone
	fileLog := filestore.NewSendLogFile(cfg.SendLogFile)
	var (
		store     sendlog.Store = fileLog
		db        *sql.DB
		employees *idb.PostgresEmployeeRepository
	)
	if cfg.DatabaseURL != "" {
		db, err = idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			mainLogger.WithError(err).Warn("Database unavailable, using the file send log only")
		} else {
			defer db.Close()
			if err := idb.RunMigrations(db, logger.Component("migrate")); err != nil {
				mainLogger.Fatalf("Could not apply database migrations: %v", err)
			}
			store = filestore.NewFallbackStore(idb.NewPostgresSendLogRepository(db), fileLog, logger.Component("sendlog"))
			employees = idb.NewPostgresEmployeeRepository(db)
			mainLogger.Info("Database connection established, send log backed by Postgres")
		}
	} else {
		mainLogger.WithField("file", cfg.SendLogFile).Info("DATABASE_URL is empty, using the file send log")
	}
	sendLog := sendlog.NewLog(store, cfg.Location())

	// Data source
	larkClient := lark.NewClient(lark.Config{
		BaseURL:   cfg.LarkBaseURL,
		AppID:     cfg.LarkAppID,
		AppSecret: cfg.LarkAppSecret,
		AppToken:  cfg.LarkAppToken,
		TableID:   cfg.LarkTableID,
		ViewID:    cfg.LarkViewID,
	})
	rows := lark.NewRowSource(larkClient, cfg.LarkCacheTTL, logger.Component("lark"))

	// Mail
	var sender mail.Sender
	switch cfg.MailProvider {
	case config.MailProviderResend:
		sender = mailer.NewResendSender(cfg.ResendAPIKey, cfg.SenderEmail)
	default:
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPServer,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUsername,
			Password: cfg.EmailPassword,
			From:     cfg.SenderEmail,
		})
	}
	templates, err := mailer.NewTemplates(mailer.FormLinks{Probation: cfg.ProbationForm, ContractRenewal: cfg.RenewalForm})
	if err != nil {
		mainLogger.Fatalf("Could not parse email templates: %v", err)
	}

	routes, err := routing.Load(cfg.RoutingFile)
	if err != nil {
		mainLogger.Fatalf("Could not load routing file: %v", err)
	}

	promMetrics := metrics.NewPrometheusMetrics(prometheus.DefaultRegisterer)

	reminderService := app.NewReminderService(rows, sendLog, sender, templates, routes.CCRouter(cfg.ExtraCC), logger.Component("reminders")).
		WithMetrics(promMetrics)
	if employees != nil {
		reminderService.WithSnapshots(employees)
	}
	separationService := app.NewSeparationService(
		rows,
		routes.Directory(),
		larkClient,
		sender,
		templates,
		routes.SeparationRecipients(),
		cfg.Location(),
		logger.Component("separations"),
	).WithMetrics(promMetrics)

	if cfg.RedisURL != "" {
		redisClient, err := lock.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			mainLogger.WithError(err).Warn("Redis unavailable, running without the cycle lock")
		} else {
			defer redisClient.Close()
			reminderService.WithLock(lock.NewRedisLock(redisClient, lock.CycleKey, lock.DefaultTTL))
			mainLogger.Info("Cycle lock backed by Redis")
		}
	}

	// Telegram admin chat
	var bot *telebot.Bot
	if cfg.TelegramEnabled() {
		pref := telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) {
				entry := logger.Component("telebot").WithError(err)
				if c != nil && c.Sender() != nil && c.Chat() != nil {
					entry = entry.WithFields(logrus.Fields{"sender_id": c.Sender().ID, "chat_id": c.Chat().ID, "text": c.Text()})
				}
				entry.Error("Telegram handler error")
			},
		}
		bot, err = telebot.NewBot(pref)
		if err != nil {
			mainLogger.WithError(err).Warn("Could not create Telegram bot, cycle summaries will not be posted")
		} else {
			reminderService.WithReporter(telegram.NewReporter(telegram.NewTelebotAdapter(bot), cfg.TelegramAdminChatID))
			telegram.RegisterBotCommands(bot, cfg.TelegramAdminChatID, logger.Component("telegram"))
			telegram.RegisterAdminHandlers(ctx, bot, reminderService, separationService, cfg.TelegramAdminChatID, logger.Component("telegram"))
			go bot.Start()
			mainLogger.Info("Telegram bot started")
		}
	}

	reminderScheduler := scheduler.NewReminderScheduler(reminderService, cfg.Location(), baseLogger, cfg.CronSpecReminders, cfg.CronSpecPurge)
	if err := reminderScheduler.Start(); err != nil {
		mainLogger.Fatalf("Could not start scheduler: %v", err)
	}

	handler := httpapi.NewHandler(reminderService, separationService, baseLogger)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.SetupRoutes(handler, cfg.CORSAllowedOrigins, promhttp.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		mainLogger.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLogger.WithError(err).Error("HTTP server stopped")
			stop()
		}
	}()

	mainLogger.Info("Application setup complete")
	<-ctx.Done()

	mainLogger.Info("Shutting down application...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Warn("HTTP server shutdown incomplete")
	}
	reminderScheduler.Stop()
	if bot != nil {
		bot.Stop()
	}
	mainLogger.Info("Application shut down gracefully")
}
