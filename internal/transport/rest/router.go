package rest

import "net/http"

// Handlers groups everything the router mounts.
type Handlers struct {
	Health *HealthHandler
	Feed   *FeedHandler
	Chat   *ChatHandler
}

// NewRouter mounts all routes. requireUser wraps the routes that act on
// behalf of the caller; the rest also serve anonymous requests.
func NewRouter(h Handlers, requireUser func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	authed := func(fn http.HandlerFunc) http.Handler { return requireUser(fn) }

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("GET /api/activity", h.Feed.Activity)
	mux.HandleFunc("GET /api/photocards", h.Feed.Photocards)
	mux.HandleFunc("GET /api/galmang-poca", h.Feed.Galmang)
	mux.Handle("POST /api/galmang-poca", authed(h.Feed.AddGalmang))
	mux.Handle("GET /api/likes", authed(h.Feed.Likes))
	mux.Handle("POST /api/posts/{postID}/like", authed(h.Feed.Like))
	mux.Handle("DELETE /api/posts/{postID}/like", authed(h.Feed.Unlike))

	mux.HandleFunc("GET /api/rooms/{roomID}/messages", h.Chat.History)
	mux.Handle("POST /api/rooms/{roomID}/messages", authed(h.Chat.Send))
	mux.Handle("PATCH /api/rooms/{roomID}/messages/{messageID}/delivery", authed(h.Chat.MarkDelivered))
	mux.Handle("GET /api/rooms/{roomID}/read-marker", authed(h.Chat.ReadMarker))
	mux.Handle("PUT /api/rooms/{roomID}/read-marker", authed(h.Chat.PutReadMarker))

	return mux
}
