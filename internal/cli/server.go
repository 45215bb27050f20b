package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"decor-funnel/internal/app"
	"decor-funnel/internal/config"
	"decor-funnel/internal/delivery"
	"decor-funnel/internal/infra/content"
	"decor-funnel/internal/infra/memory"
	pgloader "decor-funnel/internal/infra/postgres"
	redisinfra "decor-funnel/internal/infra/redis"
	"decor-funnel/internal/logger"
	"decor-funnel/internal/quiz"
	"decor-funnel/internal/ratelimit"
	transport "decor-funnel/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the funnel API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)
	resultTTL := config.TTLDuration(cfg.Redis.ResultTTL, 30*24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	files := content.NewProvider(cfg.Content.Dir)
	var loader memory.QuizLoader = files
	var catalog app.CatalogProvider = files
	if pool != nil {
		loader = pgloader.NewQuizLoader(pool)
		catalog = pgloader.NewCatalogLoader(pool, cfg.Postgres.CatalogID)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var (
		quizRepo app.QuizRepository
		store    app.SessionRepository
		results  app.ResultStore
		stats    ratelimit.Recorder
	)
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
		store = redisinfra.NewSessionStore(redisClient, redisTTL)
		results = redisinfra.NewResultStore(redisClient, resultTTL)
		stats = redisinfra.NewStatsStore(redisClient)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
		store = memory.NewSessionStore()
		results = memory.NewResultStore()
	}

	limiter := newLimiter(cfg)
	limiter.Start(ctx)
	defer limiter.Stop()
	guard := app.NewGuard(limiter, stats)

	var throttle *ratelimit.Throttle
	if tc := cfg.RateLimit.Throttle; tc.RPS > 0 {
		throttle = ratelimit.NewThrottle(tc.RPS, tc.Burst, ratelimit.WithIdleTTL(config.TTLDuration(tc.IdleTTL, 15*time.Minute)))
		throttle.StartJanitor(ctx)
	}

	backtrack, err := quiz.ParseBacktrackPolicy(cfg.Quiz.Backtrack)
	if err != nil {
		return err
	}
	if err := checkQuiz(ctx, quizRepo, cfg.Quiz.ID); err != nil {
		return err
	}
	presets := cfg.Presets()
	quizService := app.NewQuizService(store, quizRepo, results, guard, app.QuizOptions{
		QuizID:    cfg.Quiz.ID,
		Backtrack: backtrack,
		Preset:    presets.Quiz,
	})
	quizService.StartJanitor(ctx, config.TTLDuration(cfg.Quiz.IdleAfter, redisTTL), time.Minute)

	mailer, channel, closeMailer, err := newMailer(cfg)
	if err != nil {
		return err
	}
	defer closeMailer()
	leads := app.NewLeadService(guard, mailer, app.LeadOptions{
		BusinessEmail: cfg.Delivery.BusinessEmail,
		Channel:       channel,
		Presets:       presets,
	})

	handler := transport.NewRouter(transport.Handlers{
		Quiz: transport.NewQuizHandler(quizService),
		Content: transport.NewContentHandler(
			app.NewCatalogService(catalog),
			app.NewBlogService(files),
			app.NewPricingService(cfg.Pricing.Tiers, results, cfg.Delivery.WhatsAppNumber),
		),
		Leads: transport.NewLeadHandler(leads),
		WS:    transport.NewWSHandler(quizService),
	}, transport.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Throttle:       throttle,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("starting decor funnel", "port", finalPort, "quiz", cfg.Quiz.ID, "mailer", channel)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("context canceled, shutting down server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

// newMailer picks EmailJS when a service id is configured and the log sender otherwise,
// mirroring every message to the lead exchange.
func newMailer(cfg config.Config) (app.Mailer, string, func(), error) {
	var primary delivery.Sender = delivery.LogSender{}
	channel := "log"
	if ej := cfg.Delivery.EmailJS; ej.ServiceID != "" {
		primary = delivery.NewEmailJS(delivery.EmailJSConfig{
			Endpoint:    ej.Endpoint,
			ServiceID:   ej.ServiceID,
			PublicKey:   ej.PublicKey,
			AccessToken: ej.AccessToken,
			Templates:   ej.Templates,
			Timeout:     config.TTLDuration(ej.Timeout, 10*time.Second),
		})
		channel = "emailjs"
	}

	publisher, err := delivery.NewQueuePublisher(cfg.Delivery.AMQP.URL)
	if err != nil {
		return nil, "", nil, fmt.Errorf("lead publisher: %w", err)
	}
	closeFn := func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("close lead publisher", "err", err)
		}
	}
	return delivery.Fanout{Primary: primary, Mirrors: []delivery.Sender{publisher}}, channel, closeFn, nil
}

// checkQuiz loads the configured quiz once so a broken dataset stops startup instead of
// failing the first visitor.
func checkQuiz(ctx context.Context, repo app.QuizRepository, quizID string) error {
	if quizID == "" {
		quizID = app.DefaultQuizID
	}
	graph, err := repo.GetGraph(ctx, quizID)
	if err != nil {
		return fmt.Errorf("load quiz %s: %w", quizID, err)
	}
	slog.Info("quiz loaded", "quiz", quizID, "questions", graph.Len())
	return nil
}

func newLimiter(cfg config.Config) *ratelimit.Limiter {
	return ratelimit.New(
		ratelimit.WithSweepInterval(config.TTLDuration(cfg.RateLimit.SweepEvery, ratelimit.DefaultSweepEvery)),
		ratelimit.WithRetention(config.TTLDuration(cfg.RateLimit.Retention, ratelimit.DefaultRetention)),
	)
}
