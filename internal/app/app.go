package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/heartmarshall/pocamarket-backend/internal/adapter/natsevents"
	"github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres"
	activityrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/activity"
	chatrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/chat"
	likerepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/like"
	marketrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/market"
	photocardrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/photocard"
	postrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/post"
	userrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/pocamarket-backend/internal/adapter/redis"
	"github.com/heartmarshall/pocamarket-backend/internal/adapter/redis/readmarker"
	"github.com/heartmarshall/pocamarket-backend/internal/auth"
	"github.com/heartmarshall/pocamarket-backend/internal/config"
	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/feed"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
	"github.com/heartmarshall/pocamarket-backend/internal/service/activity"
	"github.com/heartmarshall/pocamarket-backend/internal/service/chat"
	"github.com/heartmarshall/pocamarket-backend/internal/service/likes"
	"github.com/heartmarshall/pocamarket-backend/internal/service/photocard"
	"github.com/heartmarshall/pocamarket-backend/internal/transport/middleware"
	"github.com/heartmarshall/pocamarket-backend/internal/transport/rest"
)

const rateLimitCleanup = 5 * time.Minute

// events is what the services publish through.
type events interface {
	MessageCreated(ctx context.Context, m domain.ChatMessage) error
	MessageUpdated(ctx context.Context, m domain.ChatMessage) error
	ActivityRecorded(ctx context.Context, e domain.ActivityEntry) error
}

// Run loads configuration, connects to PostgreSQL, Redis and (optionally)
// NATS, and serves the HTTP API until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var publisher events = natsevents.Nop{}
	if cfg.NATS.Enabled() {
		var nc *nats.Conn
		nc, err = natsevents.Connect(cfg.NATS, logger)
		if err != nil {
			return err
		}
		defer nc.Drain() //nolint:errcheck
		publisher = natsevents.NewPublisher(nc, cfg.NATS.SubjectPrefix, logger)
	} else {
		logger.Warn("nats url not set, events are discarded")
	}

	// Repositories.
	txm := postgres.NewTxManager(pool)
	posts := postrepo.New(pool)
	markets := marketrepo.New(pool)
	transactions := marketrepo.NewTransactionRepo(pool)
	photocards := photocardrepo.New(pool)
	likesRepo := likerepo.New(pool)
	entries := activityrepo.New(pool)
	messages := chatrepo.New(pool)
	users := userrepo.New(pool)
	markers := readmarker.New(rdb, cfg.Redis.KeyPrefix)

	// Feed target resolution.
	resolver := feed.NewResolver(logger)
	feed.RegisterDefaults(resolver, posts, markets, transactions)

	// Services.
	activitySvc := activity.NewService(logger, entries, resolver, publisher)
	likesSvc := likes.NewService(logger, likesRepo, posts, activitySvc, txm)
	photocardSvc := photocard.NewService(logger, photocards)
	chatSvc := chat.NewService(logger, messages, users, markers, publisher)

	limits := pagination.Limits{Default: cfg.Feed.DefaultLimit, Max: cfg.Feed.MaxLimit}
	router := rest.NewRouter(rest.Handlers{
		Health: rest.NewHealthHandler(BuildVersion(), pool, rest.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})),
		Feed: rest.NewFeedHandler(activitySvc, likesSvc, photocardSvc, limits, logger),
		Chat: rest.NewChatHandler(chatSvc, limits, logger),
	}, middleware.RequireUser)

	rl := middleware.NewRateLimiter(rateLimitCleanup)
	defer rl.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(auth.NewTokenValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)),
		rl.Limit(cfg.Server.RateLimit),
	)(router)

	return serve(ctx, logger, cfg.Server, handler)
}

// serve runs the HTTP server and shuts it down gracefully once ctx is done.
func serve(ctx context.Context, logger *slog.Logger, cfg config.ServerConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
