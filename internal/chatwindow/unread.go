package chatwindow

import "github.com/heartmarshall/pocamarket-backend/internal/domain"

// UnreadBoundary returns the index of the message after which the "read up
// to here" divider goes. It reports false when no divider is drawn.
//
// A message id marker wins over a timestamp. With an id, the divider follows
// that message. An id that is not in list, for example one older than the
// loaded window, draws no divider at all; LastReadAt is not consulted even
// when it is set. With only a timestamp, the divider sits between the first
// adjacent pair where the earlier message is at or before LastReadAt and the
// later one is after it.
func UnreadBoundary(list []MessageView, marker domain.ReadMarker) (int, bool) {
	switch {
	case marker.LastReadMessageID != nil:
		for i, m := range list {
			if m.ID == *marker.LastReadMessageID {
				return i, true
			}
		}
		return -1, false

	case marker.LastReadAt != nil:
		at := *marker.LastReadAt
		for i := 1; i < len(list); i++ {
			if !list[i-1].CreatedAt.After(at) && list[i].CreatedAt.After(at) {
				return i - 1, true
			}
		}
		return -1, false
	}
	return -1, false
}
