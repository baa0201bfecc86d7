// Package notify fans room snapshots out to transports beyond the websocket
// hub. Publishers are best-effort; a failing sink never blocks the engine.
package notify

import (
	"github.com/templegold/server/internal/game"
)

// Multi broadcasts every snapshot to each wrapped notifier in order.
type Multi []game.Notifier

// NewMulti builds a fan-out notifier, skipping nil entries.
func NewMulti(notifiers ...game.Notifier) Multi {
	out := make(Multi, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Publish implements game.Notifier.
func (m Multi) Publish(roomCode string, snapshot *game.RoomSnapshot) {
	for _, n := range m {
		n.Publish(roomCode, snapshot)
	}
}
