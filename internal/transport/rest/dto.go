package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/service/chat"
	"github.com/heartmarshall/pocamarket-backend/internal/service/likes"
)

type targetResponse struct {
	Type    string    `json:"type"`
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Excerpt string    `json:"excerpt"`
	Href    string    `json:"href"`
}

type activityItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	ActorID    uuid.UUID       `json:"actorId"`
	Action     string          `json:"action"`
	TargetType string          `json:"targetType"`
	TargetID   uuid.UUID       `json:"targetId"`
	CreatedAt  time.Time       `json:"createdAt"`
	Target     *targetResponse `json:"target"`
	TargetHref *string         `json:"targetHref"`
}

func toActivityItem(it domain.ResolvedFeedItem) activityItemResponse {
	out := activityItemResponse{
		ID:         it.ID,
		ActorID:    it.ActorID,
		Action:     it.Action.String(),
		TargetType: it.TargetType.String(),
		TargetID:   it.TargetID,
		CreatedAt:  it.CreatedAt,
		TargetHref: it.TargetHref,
	}
	if it.Target != nil {
		out.Target = &targetResponse{
			Type:    it.Target.Type.String(),
			ID:      it.Target.ID,
			Title:   it.Target.Title,
			Excerpt: it.Target.Excerpt,
			Href:    it.Target.Href,
		}
	}
	return out
}

type likedPostResponse struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"authorId"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	LikeCount int       `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
	LikedAt   time.Time `json:"likedAt"`
	Href      string    `json:"href"`
}

func toLikedPost(p domain.LikedPost) likedPostResponse {
	return likedPostResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Excerpt:   domain.Excerpt(p.Content, excerptRunes),
		LikeCount: p.LikeCount,
		CreatedAt: p.CreatedAt,
		LikedAt:   p.LikedAt,
		Href:      p.Href(),
	}
}

const excerptRunes = 140

type toggleResponse struct {
	PostID    uuid.UUID `json:"postId"`
	Liked     bool      `json:"liked"`
	LikeCount int       `json:"likeCount"`
}

func toToggle(r likes.ToggleResult) toggleResponse {
	return toggleResponse{PostID: r.PostID, Liked: r.Liked, LikeCount: r.LikeCount}
}

type photocardResponse struct {
	ID        uuid.UUID `json:"id"`
	Group     string    `json:"group"`
	Member    string    `json:"member"`
	Album     string    `json:"album"`
	Version   string    `json:"version"`
	ImageURL  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPhotocard(pc domain.Photocard) photocardResponse {
	return photocardResponse{
		ID:        pc.ID,
		Group:     pc.GroupName,
		Member:    pc.Member,
		Album:     pc.Album,
		Version:   pc.Version,
		ImageURL:  pc.ImageURL,
		CreatedAt: pc.CreatedAt,
	}
}

type galmangResponse struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"userId"`
	Note      *string           `json:"note"`
	CreatedAt time.Time         `json:"createdAt"`
	Photocard photocardResponse `json:"photocard"`
}

func toGalmang(g domain.GalmangPoca) galmangResponse {
	return galmangResponse{
		ID:        g.ID,
		UserID:    g.UserID,
		Note:      g.Note,
		CreatedAt: g.CreatedAt,
		Photocard: toPhotocard(g.Photocard),
	}
}

type senderResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	AvatarURL   *string   `json:"avatarUrl"`
}

type messageResponse struct {
	ID          uuid.UUID       `json:"id"`
	RoomID      uuid.UUID       `json:"roomId"`
	SenderID    uuid.UUID       `json:"senderId"`
	Content     string          `json:"content"`
	CreatedAt   time.Time       `json:"createdAt"`
	DeliveredAt *time.Time      `json:"deliveredAt"`
	Sender      *senderResponse `json:"sender,omitempty"`
}

func toMessage(m domain.ChatMessage) messageResponse {
	return messageResponse{
		ID:          m.ID,
		RoomID:      m.RoomID,
		SenderID:    m.SenderID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
		DeliveredAt: m.DeliveredAt,
	}
}

func toHistoryMessage(m chat.HistoryMessage) messageResponse {
	out := toMessage(m.ChatMessage)
	if m.Sender != nil {
		out.Sender = &senderResponse{
			ID:          m.Sender.ID,
			Username:    m.Sender.Username,
			DisplayName: m.Sender.DisplayName,
			AvatarURL:   m.Sender.AvatarURL,
		}
	}
	return out
}

type historyResponse struct {
	pageResponse[messageResponse]
	UnreadIndex *int `json:"unreadIndex"`
}

type markerResponse struct {
	RoomID            uuid.UUID  `json:"roomId"`
	LastReadMessageID *uuid.UUID `json:"lastReadMessageId"`
	LastReadAt        *time.Time `json:"lastReadAt"`
}

func toMarker(roomID uuid.UUID, m domain.ReadMarker) markerResponse {
	return markerResponse{
		RoomID:            roomID,
		LastReadMessageID: m.LastReadMessageID,
		LastReadAt:        m.LastReadAt,
	}
}
