//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/pocamarket-backend/internal/adapter/natsevents"
	"github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres"
	activityrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/activity"
	chatrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/chat"
	likerepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/like"
	marketrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/market"
	photocardrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/photocard"
	postrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/post"
	"github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/testhelper"
	userrepo "github.com/heartmarshall/pocamarket-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/pocamarket-backend/internal/adapter/redis/readmarker"
	"github.com/heartmarshall/pocamarket-backend/internal/auth"
	"github.com/heartmarshall/pocamarket-backend/internal/config"
	"github.com/heartmarshall/pocamarket-backend/internal/feed"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
	"github.com/heartmarshall/pocamarket-backend/internal/service/activity"
	"github.com/heartmarshall/pocamarket-backend/internal/service/chat"
	"github.com/heartmarshall/pocamarket-backend/internal/service/likes"
	"github.com/heartmarshall/pocamarket-backend/internal/service/photocard"
	"github.com/heartmarshall/pocamarket-backend/internal/transport/middleware"
	"github.com/heartmarshall/pocamarket-backend/internal/transport/rest"
)

const (
	testJWTSecret = "test-secret-at-least-32-chars-long!!"
	testJWTIssuer = "test-issuer"
)

// ---------------------------------------------------------------------------
// Redis container (shared for the whole run).
// ---------------------------------------------------------------------------

var (
	redisOnce sync.Once
	redisAddr string
	redisErr  error
)

func setupRedis(t *testing.T) *goredis.Client {
	t.Helper()

	redisOnce.Do(func() {
		redisAddr, redisErr = startRedis()
	})
	if redisErr != nil {
		t.Fatalf("failed to start redis: %v", redisErr)
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: redisAddr})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func startRedis() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}
	return host + ":" + port.Port(), nil
}

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	tokens *auth.TokenValidator
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the application stack against real PostgreSQL
// and Redis containers. Events are discarded.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	rdb := setupRedis(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	txm := postgres.NewTxManager(pool)
	posts := postrepo.New(pool)

	resolver := feed.NewResolver(logger)
	feed.RegisterDefaults(resolver, posts, marketrepo.New(pool), marketrepo.NewTransactionRepo(pool))

	events := natsevents.Nop{}
	activitySvc := activity.NewService(logger, activityrepo.New(pool), resolver, events)
	likesSvc := likes.NewService(logger, likerepo.New(pool), posts, activitySvc, txm)
	photocardSvc := photocard.NewService(logger, photocardrepo.New(pool))
	chatSvc := chat.NewService(logger, chatrepo.New(pool), userrepo.New(pool),
		readmarker.New(rdb, "e2e-"+uuid.NewString()[:8]), events)

	router := rest.NewRouter(rest.Handlers{
		Health: rest.NewHealthHandler("test-version", pool, rest.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})),
		Feed: rest.NewFeedHandler(activitySvc, likesSvc, photocardSvc, pagination.DefaultLimits, logger),
		Chat: rest.NewChatHandler(chatSvc, pagination.DefaultLimits, logger),
	}, middleware.RequireUser)

	tokens := auth.NewTokenValidator(testJWTSecret, testJWTIssuer)
	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type,X-Request-Id",
			AllowCredentials: true,
			MaxAge:           86400,
		}),
		middleware.Auth(tokens),
	)(router)

	srv := httptest.NewServer(handler)
	t.Cleanup(func() { srv.Close() })

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		tokens: tokens,
	}
}

// tokenFor returns a valid access token for userID.
func (ts *testServer) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := ts.tokens.Issue(userID, 15*time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

// do sends a request with an optional JSON body and bearer token, and
// returns the status and the raw body.
func (ts *testServer) do(t *testing.T, method, path string, body any, token string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

// getJSON is do(GET) decoding the body into a map.
func (ts *testServer) getJSON(t *testing.T, path, token string) (int, map[string]any) {
	t.Helper()
	status, raw := ts.do(t, http.MethodGet, path, nil, token)
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %s: %v (%s)", path, err, raw)
	}
	return status, out
}

// page is a decoded feed page.
type page struct {
	Items       []map[string]any `json:"items"`
	NextCursor  *string          `json:"nextCursor"`
	HasMore     bool             `json:"hasMore"`
	UnreadIndex *int             `json:"unreadIndex"`
}

func (ts *testServer) getPage(t *testing.T, path, token string) page {
	t.Helper()
	status, raw := ts.do(t, http.MethodGet, path, nil, token)
	if status != http.StatusOK {
		t.Fatalf("GET %s: status %d: %s", path, status, raw)
	}
	var p page
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	return p
}

// collectIDs walks a feed to the end and returns every item id in order.
func (ts *testServer) collectIDs(t *testing.T, basePath, token string) []string {
	t.Helper()

	sep := "?"
	if strings.Contains(basePath, "?") {
		sep = "&"
	}

	var ids []string
	path := basePath
	for range 100 {
		p := ts.getPage(t, path, token)
		for _, it := range p.Items {
			ids = append(ids, it["id"].(string))
		}
		if !p.HasMore {
			return ids
		}
		path = basePath + sep + "cursor=" + *p.NextCursor
	}
	t.Fatalf("feed %s did not terminate", basePath)
	return nil
}
