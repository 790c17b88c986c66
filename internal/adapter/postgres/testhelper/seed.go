package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// SeedUser creates a user with a unique username.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	ts := now()
	user := domain.User{
		ID:          uuid.New(),
		Username:    "user_" + suffix,
		DisplayName: "User " + suffix,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, username, display_name, avatar_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.DisplayName, user.AvatarURL, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return user
}

// SeedPost creates a post by authorID.
func SeedPost(t *testing.T, pool *pgxpool.Pool, authorID uuid.UUID, title string) domain.Post {
	t.Helper()

	ts := now()
	post := domain.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     title,
		Content:   "content of " + title,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO posts (id, author_id, title, content, like_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		post.ID, post.AuthorID, post.Title, post.Content, post.LikeCount, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPost: %v", err)
	}
	return post
}

// SeedPhotocard creates a catalog photocard created at the given time.
func SeedPhotocard(t *testing.T, pool *pgxpool.Pool, group, member string, createdAt time.Time) domain.Photocard {
	t.Helper()

	pc := domain.Photocard{
		ID:        uuid.New(),
		GroupName: group,
		Member:    member,
		Album:     "Album " + uniqueSuffix(),
		Version:   "A",
		CreatedAt: createdAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO photocards (id, group_name, member, album, version, image_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		pc.ID, pc.GroupName, pc.Member, pc.Album, pc.Version, pc.ImageURL, pc.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPhotocard: %v", err)
	}
	return pc
}

// SeedMarket creates an open listing for a fresh photocard.
func SeedMarket(t *testing.T, pool *pgxpool.Pool, sellerID uuid.UUID, title string) domain.Market {
	t.Helper()

	pc := SeedPhotocard(t, pool, "IVE", "Wonyoung", now())
	ts := now()
	m := domain.Market{
		ID:          uuid.New(),
		SellerID:    sellerID,
		PhotocardID: pc.ID,
		Title:       title,
		Description: "description of " + title,
		Price:       15000,
		Status:      domain.MarketStatusOpen,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO markets (id, seller_id, photocard_id, title, description, price, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.SellerID, m.PhotocardID, m.Title, m.Description, m.Price, string(m.Status), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMarket: %v", err)
	}
	return m
}

// SeedTransaction creates a completed transaction on market.
func SeedTransaction(t *testing.T, pool *pgxpool.Pool, market domain.Market, buyerID uuid.UUID) domain.Transaction {
	t.Helper()

	ts := now()
	tx := domain.Transaction{
		ID:          uuid.New(),
		MarketID:    market.ID,
		BuyerID:     buyerID,
		SellerID:    market.SellerID,
		Status:      domain.TransactionStatusCompleted,
		Price:       market.Price,
		CreatedAt:   ts,
		CompletedAt: &ts,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO transactions (id, market_id, buyer_id, seller_id, status, price, created_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.MarketID, tx.BuyerID, tx.SellerID, string(tx.Status), tx.Price, tx.CreatedAt, tx.CompletedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTransaction: %v", err)
	}
	return tx
}

// SeedActivity records an activity entry at createdAt.
func SeedActivity(t *testing.T, pool *pgxpool.Pool, actorID uuid.UUID, action domain.ActivityAction, targetID uuid.UUID, createdAt time.Time) domain.ActivityEntry {
	t.Helper()

	e := domain.ActivityEntry{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		TargetType: action.TargetType(),
		TargetID:   targetID,
		CreatedAt:  createdAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO activity_entries (id, actor_id, action, target_type, target_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.ActorID, string(e.Action), string(e.TargetType), e.TargetID, e.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedActivity: %v", err)
	}
	return e
}

// SeedChatMessage stores a message in roomID at createdAt.
func SeedChatMessage(t *testing.T, pool *pgxpool.Pool, roomID, senderID uuid.UUID, content string, createdAt time.Time) domain.ChatMessage {
	t.Helper()

	ts := createdAt.UTC().Truncate(time.Microsecond)
	m := domain.ChatMessage{
		ID:        uuid.New(),
		RoomID:    roomID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO chat_messages (id, room_id, sender_id, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.RoomID, m.SenderID, m.Content, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedChatMessage: %v", err)
	}
	return m
}
