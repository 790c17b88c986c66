package domain

// TargetType is the kind of entity an activity entry points at.
type TargetType string

const (
	TargetTypePost        TargetType = "post"
	TargetTypeMarket      TargetType = "market"
	TargetTypeTransaction TargetType = "transaction"
)

func (t TargetType) String() string { return string(t) }

func (t TargetType) IsValid() bool {
	switch t {
	case TargetTypePost, TargetTypeMarket, TargetTypeTransaction:
		return true
	}
	return false
}

// ActivityAction is the domain action that produced an activity entry.
type ActivityAction string

const (
	ActivityPostCreated          ActivityAction = "post_created"
	ActivityPostLiked            ActivityAction = "post_liked"
	ActivityMarketOpened         ActivityAction = "market_opened"
	ActivityTransactionCompleted ActivityAction = "transaction_completed"
)

func (a ActivityAction) String() string { return string(a) }

func (a ActivityAction) IsValid() bool {
	switch a {
	case ActivityPostCreated, ActivityPostLiked, ActivityMarketOpened, ActivityTransactionCompleted:
		return true
	}
	return false
}

// TargetType returns the target kind an action refers to.
func (a ActivityAction) TargetType() TargetType {
	switch a {
	case ActivityMarketOpened:
		return TargetTypeMarket
	case ActivityTransactionCompleted:
		return TargetTypeTransaction
	default:
		return TargetTypePost
	}
}

// MarketStatus is the lifecycle state of a market listing.
type MarketStatus string

const (
	MarketStatusOpen     MarketStatus = "open"
	MarketStatusReserved MarketStatus = "reserved"
	MarketStatusSold     MarketStatus = "sold"
)

func (s MarketStatus) String() string { return string(s) }

func (s MarketStatus) IsValid() bool {
	switch s {
	case MarketStatusOpen, MarketStatusReserved, MarketStatusSold:
		return true
	}
	return false
}

// TransactionStatus is the state of a trade between two users.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

func (s TransactionStatus) String() string { return string(s) }

// LikeSort selects the ordering of the liked-posts feed.
type LikeSort string

const (
	LikeSortLikedAt LikeSort = "likedAt"
	LikeSortRecent  LikeSort = "recent"
	LikeSortPopular LikeSort = "popular"
)

func (s LikeSort) String() string { return string(s) }

func (s LikeSort) IsValid() bool {
	switch s {
	case LikeSortLikedAt, LikeSortRecent, LikeSortPopular:
		return true
	}
	return false
}
