// Command cleanup deletes activity entries older than the configured
// retention. It is intended to be invoked by an external cron job, not as an
// in-process goroutine. Cursors handed out before a run stay valid: they
// name a position, not a row.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/pocamarket-backend/internal/adapter/natsevents"
	"github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres"
	activityrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/activity"
	"github.com/heartmarshall/pocamarket-backend/internal/app"
	"github.com/heartmarshall/pocamarket-backend/internal/config"
	"github.com/heartmarshall/pocamarket-backend/internal/feed"
	"github.com/heartmarshall/pocamarket-backend/internal/service/activity"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := activity.NewService(logger, activityrepo.New(pool), feed.NewResolver(logger), natsevents.Nop{})

	retention := cfg.Feed.ActivityRetention()
	if _, err := svc.Cleanup(ctx, retention); err != nil {
		logger.Error("activity cleanup failed",
			slog.String("error", err.Error()),
			slog.Duration("retention", retention),
		)
		os.Exit(1)
	}
}
