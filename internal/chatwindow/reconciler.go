// Package chatwindow keeps a virtualized chat list consistent while history
// grows in both directions: live messages at the tail, older pages at the
// head.
//
// The Reconciler tracks FirstItemIndex, the logical offset of the first held
// message. Prepending d messages adds d to it, so VisualPosition of every
// message that was already held stays the same and the viewport does not
// jump.
package chatwindow

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/internal/domain"
	"github.com/heartmarshall/pocamarket-backend/internal/pagination"
)

var (
	// ErrFetchInFlight is returned when a fetch in the same direction is
	// already outstanding.
	ErrFetchInFlight = errors.New("fetch already in flight")
	// ErrNoOlder is returned when the start of the history has been reached.
	ErrNoOlder = errors.New("no older messages")
	// ErrStaleFetch is returned for results of a superseded fetch. Callers
	// drop them without telling the user.
	ErrStaleFetch = errors.New("stale fetch")
)

// FetchState is the state of the backward fetch.
type FetchState int

const (
	Idle FetchState = iota
	FetchingOlder
)

func (s FetchState) String() string {
	if s == FetchingOlder {
		return "fetching_older"
	}
	return "idle"
}

// MessageView is a chat message as held by the window.
type MessageView struct {
	ID          uuid.UUID
	Content     string
	CreatedAt   time.Time
	SenderID    uuid.UUID
	DeliveredAt *time.Time
}

// ViewOf converts a persisted message.
func ViewOf(m domain.ChatMessage) MessageView {
	return MessageView{
		ID:          m.ID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
		SenderID:    m.SenderID,
		DeliveredAt: m.DeliveredAt,
	}
}

type direction int

const (
	older direction = iota
	newer
)

// Ticket identifies one outstanding fetch. Results are applied only with the
// ticket that was issued for them.
type Ticket struct {
	dir        direction
	generation uint64
	seq        uint64
	cursor     *string
}

// Cursor is the cursor the fetch must be issued with. Nil means the newest
// page.
func (t Ticket) Cursor() *string { return t.cursor }

// SyncKind classifies a full-list refresh.
type SyncKind int

const (
	SyncNoop SyncKind = iota
	SyncAppend
	SyncPrepend
	SyncReplace
)

func (k SyncKind) String() string {
	switch k {
	case SyncAppend:
		return "append"
	case SyncPrepend:
		return "prepend"
	case SyncReplace:
		return "replace"
	}
	return "noop"
}

// Reconciler holds the rendered message list of one room.
// It is not safe for concurrent use; one render loop owns it.
type Reconciler struct {
	items          []MessageView
	pos            map[uuid.UUID]int
	firstItemIndex int

	state       FetchState
	generation  uint64
	seq         uint64
	olderSeq    uint64
	newerSeq    uint64
	newerActive bool

	hasOlder    bool
	olderCursor *string
	atBottom    bool
}

// New creates an empty window. The first BeginFetchOlder loads the newest
// page.
func New() *Reconciler {
	return &Reconciler{pos: make(map[uuid.UUID]int), hasOlder: true, atBottom: true}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (r *Reconciler) FirstItemIndex() int { return r.firstItemIndex }
func (r *Reconciler) State() FetchState   { return r.state }
func (r *Reconciler) HasOlder() bool      { return r.hasOlder }
func (r *Reconciler) Len() int            { return len(r.items) }

// Items returns a copy of the held messages, oldest first.
func (r *Reconciler) Items() []MessageView {
	return append([]MessageView(nil), r.items...)
}

// VisualPosition returns the list index of id minus FirstItemIndex.
func (r *Reconciler) VisualPosition(id uuid.UUID) (int, bool) {
	i, ok := r.pos[id]
	if !ok {
		return 0, false
	}
	return i - r.firstItemIndex, true
}

// SetAtBottom records whether the viewport is scrolled to the bottom.
func (r *Reconciler) SetAtBottom(atBottom bool) { r.atBottom = atBottom }

// ---------------------------------------------------------------------------
// Tail
// ---------------------------------------------------------------------------

// Append adds a live message at the tail, or updates it in place when the id
// is already held. It reports whether the viewport should follow the new
// message, which is only when it was at the bottom.
func (r *Reconciler) Append(msg MessageView) bool {
	if i, ok := r.pos[msg.ID]; ok {
		r.items[i] = msg
		return false
	}
	r.push(msg)
	return r.atBottom
}

// BeginFetchNewer starts a forward fetch. It is independent of the backward
// fetch.
func (r *Reconciler) BeginFetchNewer() (Ticket, error) {
	if r.newerActive {
		return Ticket{}, ErrFetchInFlight
	}
	r.seq++
	r.newerSeq = r.seq
	r.newerActive = true
	return Ticket{dir: newer, generation: r.generation, seq: r.seq}, nil
}

// ApplyNewer appends a forward page, oldest first, and returns how many
// messages were new.
func (r *Reconciler) ApplyNewer(t Ticket, page []MessageView) (int, error) {
	if t.dir != newer || !r.newerActive || t.generation != r.generation || t.seq != r.newerSeq {
		return 0, ErrStaleFetch
	}
	r.newerActive = false

	added := 0
	for _, m := range page {
		if i, ok := r.pos[m.ID]; ok {
			r.items[i] = m
			continue
		}
		r.push(m)
		added++
	}
	return added, nil
}

// ---------------------------------------------------------------------------
// Head
// ---------------------------------------------------------------------------

// BeginFetchOlder moves to FetchingOlder and returns the ticket for the
// backward fetch.
func (r *Reconciler) BeginFetchOlder() (Ticket, error) {
	if r.state == FetchingOlder {
		return Ticket{}, ErrFetchInFlight
	}
	if !r.hasOlder {
		return Ticket{}, ErrNoOlder
	}
	r.seq++
	r.olderSeq = r.seq
	r.state = FetchingOlder
	return Ticket{dir: older, generation: r.generation, seq: r.seq, cursor: r.olderCursor}, nil
}

// CancelFetchOlder abandons the backward fetch of t. Cancelling a ticket that
// is no longer current does nothing.
func (r *Reconciler) CancelFetchOlder(t Ticket) {
	if r.isCurrentOlder(t) {
		r.state = Idle
	}
}

// ApplyOlder prepends an older page and returns delta, the number of messages
// added. Page items are oldest first; messages already held are skipped.
// FirstItemIndex grows by delta.
func (r *Reconciler) ApplyOlder(t Ticket, page pagination.Page[MessageView]) (int, error) {
	if !r.isCurrentOlder(t) {
		return 0, ErrStaleFetch
	}

	fresh := make([]MessageView, 0, len(page.Items))
	for _, m := range page.Items {
		if _, ok := r.pos[m.ID]; !ok {
			fresh = append(fresh, m)
		}
	}

	r.prepend(fresh)
	r.hasOlder = page.HasMore
	r.olderCursor = page.NextCursor
	r.state = Idle
	return len(fresh), nil
}

func (r *Reconciler) isCurrentOlder(t Ticket) bool {
	return t.dir == older &&
		r.state == FetchingOlder &&
		t.generation == r.generation &&
		t.seq == r.olderSeq &&
		sameCursor(t.cursor, r.olderCursor)
}

// ---------------------------------------------------------------------------
// Whole-list updates
// ---------------------------------------------------------------------------

// Sync reconciles a full refreshed list, oldest first, against the held one.
// It treats the change as a prepend only while a backward fetch is
// outstanding and the held list reappears intact after the new head;
// anything else that keeps the head is an append or no-op, and the rest is
// a replace. A replace ends any outstanding fetch: its tickets become stale
// and the next backward fetch continues from the new head.
func (r *Reconciler) Sync(list []MessageView) SyncKind {
	if len(r.items) == 0 {
		if len(list) == 0 {
			return SyncNoop
		}
		r.resync(list)
		return SyncReplace
	}

	if len(list) > 0 && list[0].ID == r.items[0].ID {
		if !hasPrefix(list, r.items) {
			r.resync(list)
			return SyncReplace
		}
		copy(r.items, list[:len(r.items)])
		if len(list) == len(r.items) {
			return SyncNoop
		}
		for _, m := range list[len(r.items):] {
			r.push(m)
		}
		return SyncAppend
	}

	if r.state == FetchingOlder && len(list) > len(r.items) {
		if d, ok := r.headOffset(list); ok {
			tail := list[d+len(r.items):]
			copy(r.items, list[d:d+len(r.items)])
			r.prepend(list[:d])
			for _, m := range tail {
				r.push(m)
			}
			first := r.items[0]
			c := pagination.KeyOf(first.CreatedAt, first.ID).Encode()
			r.olderCursor = &c
			r.state = Idle
			return SyncPrepend
		}
	}

	r.resync(list)
	return SyncReplace
}

// Reset replaces the whole window, for example after navigating back into
// the room. Outstanding tickets become stale.
func (r *Reconciler) Reset(list []MessageView, hasOlder bool, olderCursor *string) {
	r.generation++
	r.state = Idle
	r.newerActive = false
	r.hasOlder = hasOlder
	r.olderCursor = olderCursor
	r.replace(list)
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (r *Reconciler) push(m MessageView) {
	r.pos[m.ID] = len(r.items)
	r.items = append(r.items, m)
}

func (r *Reconciler) prepend(head []MessageView) {
	if len(head) == 0 {
		return
	}
	d := len(head)
	items := make([]MessageView, 0, d+len(r.items))
	items = append(items, head...)
	items = append(items, r.items...)
	r.items = items
	r.reindex()
	r.firstItemIndex += d
}

// resync replaces the list from a refresh. The server's view of what lies
// before the new head is unknown, so older history is assumed to exist.
func (r *Reconciler) resync(list []MessageView) {
	r.generation++
	r.state = Idle
	r.newerActive = false
	r.hasOlder = true
	r.olderCursor = nil
	if len(list) > 0 {
		c := pagination.KeyOf(list[0].CreatedAt, list[0].ID).Encode()
		r.olderCursor = &c
	}
	r.replace(list)
}

func (r *Reconciler) replace(list []MessageView) {
	r.items = append([]MessageView(nil), list...)
	r.firstItemIndex = 0
	r.reindex()
}

func (r *Reconciler) reindex() {
	r.pos = make(map[uuid.UUID]int, len(r.items))
	for i, m := range r.items {
		r.pos[m.ID] = i
	}
}

// headOffset finds where the held list starts inside list.
func (r *Reconciler) headOffset(list []MessageView) (int, bool) {
	for d := 1; d+len(r.items) <= len(list); d++ {
		if list[d].ID == r.items[0].ID {
			return d, hasPrefix(list[d:], r.items)
		}
	}
	return 0, false
}

func hasPrefix(list, prefix []MessageView) bool {
	if len(list) < len(prefix) {
		return false
	}
	for i := range prefix {
		if list[i].ID != prefix[i].ID {
			return false
		}
	}
	return true
}

func sameCursor(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
