package notify

import (
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"

	"github.com/templegold/server/internal/game"
)

// NatsPublisher mirrors every room snapshot onto a NATS subject so external
// consumers (spectator views, analytics) can follow games without holding a
// websocket to this process. One subject per room: <prefix>.<CODE>.
type NatsPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *log.Logger
}

// NewNatsPublisher connects to the given NATS server.
func NewNatsPublisher(url, subjectPrefix string, logger *log.Logger) (*NatsPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("templegold-server"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &NatsPublisher{
		conn:   conn,
		prefix: subjectPrefix,
		logger: logger.WithPrefix("nats"),
	}, nil
}

// Publish implements game.Notifier. Errors are logged and dropped; room state
// already changed and there is nothing to roll back.
func (p *NatsPublisher) Publish(roomCode string, snapshot *game.RoomSnapshot) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		p.logger.Error("failed to encode snapshot", "room", roomCode, "error", err)
		return
	}
	subject := p.prefix + "." + roomCode
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Error("publish failed", "subject", subject, "error", err)
	}
}

// Close flushes pending messages and drops the connection.
func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
