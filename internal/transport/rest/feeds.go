package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
	"github.com/heartmarshall/pocamarket-backend/internal/service/likes"
)

type activityService interface {
	List(ctx context.Context, actorID *uuid.UUID, req pagination.Request) (pagination.Page[domain.ResolvedFeedItem], error)
}

type likesService interface {
	Like(ctx context.Context, postID uuid.UUID) (likes.ToggleResult, error)
	Unlike(ctx context.Context, postID uuid.UUID) (likes.ToggleResult, error)
	Feed(ctx context.Context, sort domain.LikeSort, req pagination.Request) (pagination.Page[domain.LikedPost], error)
}

type photocardService interface {
	Catalog(ctx context.Context, filter domain.PhotocardFilter, req pagination.Request) (pagination.Page[domain.Photocard], error)
	Galmang(ctx context.Context, userID *uuid.UUID, req pagination.Request) (pagination.Page[domain.GalmangPoca], error)
	AddWanted(ctx context.Context, photocardID uuid.UUID, note *string) (*domain.GalmangPoca, error)
}

// FeedHandler serves the activity, liked-posts, catalog and galmang feeds.
type FeedHandler struct {
	activity   activityService
	likes      likesService
	photocards photocardService
	limits     pagination.Limits
	log        *slog.Logger
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(
	activity activityService,
	likes likesService,
	photocards photocardService,
	limits pagination.Limits,
	logger *slog.Logger,
) *FeedHandler {
	return &FeedHandler{
		activity:   activity,
		likes:      likes,
		photocards: photocards,
		limits:     limits,
		log:        logger.With("handler", "feed"),
	}
}

func (h *FeedHandler) pageRequest(r *http.Request) (pagination.Request, error) {
	q := r.URL.Query()
	return h.limits.Parse(q.Get("cursor"), q.Get("limit"))
}

func (h *FeedHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	handleError(h.log, w, r, err, msgFeedUnavailable)
}

// Activity handles GET /api/activity.
func (h *FeedHandler) Activity(w http.ResponseWriter, r *http.Request) {
	req, err := h.pageRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	actorID, err := queryUUID(r, "actorId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.activity.List(r.Context(), actorID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toActivityItem))
}

// Likes handles GET /api/likes.
func (h *FeedHandler) Likes(w http.ResponseWriter, r *http.Request) {
	req, err := h.pageRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sort, err := likes.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.likes.Feed(r.Context(), sort, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toLikedPost))
}

// Like handles POST /api/posts/{postID}/like.
func (h *FeedHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.likes.Like)
}

// Unlike handles DELETE /api/posts/{postID}/like.
func (h *FeedHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.likes.Unlike)
}

func (h *FeedHandler) toggle(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (likes.ToggleResult, error)) {
	postID, err := pathUUID(r, "postID")
	if err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}

	res, err := fn(r.Context(), postID)
	if err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, toToggle(res))
}

// Photocards handles GET /api/photocards.
func (h *FeedHandler) Photocards(w http.ResponseWriter, r *http.Request) {
	req, err := h.pageRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	filter := domain.PhotocardFilter{
		GroupName: queryPtr(r, "group"),
		Member:    queryPtr(r, "member"),
	}
	page, err := h.photocards.Catalog(r.Context(), filter, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toPhotocard))
}

// Galmang handles GET /api/galmang-poca.
func (h *FeedHandler) Galmang(w http.ResponseWriter, r *http.Request) {
	req, err := h.pageRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	userID, err := queryUUID(r, "userId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.photocards.Galmang(r.Context(), userID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toGalmang))
}

type addGalmangRequest struct {
	PhotocardID uuid.UUID `json:"photocardId"`
	Note        *string   `json:"note"`
}

// AddGalmang handles POST /api/galmang-poca.
func (h *FeedHandler) AddGalmang(w http.ResponseWriter, r *http.Request) {
	var body addGalmangRequest
	if err := decodeBody(w, r, &body); err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}

	g, err := h.photocards.AddWanted(r.Context(), body.PhotocardID, body.Note)
	if err != nil {
		handleError(h.log, w, r, err, msgInternal)
		return
	}
	writeJSON(w, http.StatusCreated, toGalmang(*g))
}
