package gateway

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"filematch/internal/matchmaker"
)

// outboundBuffer bounds the per-session emit queue. A peer that cannot
// drain its socket loses frames instead of wedging the matchmaker.
const outboundBuffer = 32

// session is the transport handle handed to the matchmaker for one
// connected peer. The gateway owns it; core entities only borrow it
// through the Emitter interface.
type session struct {
	id     int64
	conn   *websocket.Conn
	logger *logrus.Logger
	out    chan outEnvelope
	done   chan struct{}
	once   sync.Once
}

var _ matchmaker.Emitter = (*session)(nil)

func newSession(id int64, conn *websocket.Conn, logger *logrus.Logger) *session {
	return &session{
		id:     id,
		conn:   conn,
		logger: logger,
		out:    make(chan outEnvelope, outboundBuffer),
		done:   make(chan struct{}),
	}
}

// Emit queues an event for delivery. It never blocks the caller: a full
// buffer drops the frame with a warning, a closed session swallows it.
func (s *session) Emit(event string, payload any) {
	select {
	case <-s.done:
	case s.out <- outEnvelope{Event: event, Data: payload}:
	default:
		s.logger.Warnf("peer %d outbound buffer full, dropping %s", s.id, event)
	}
}

// writePump drains the outbound queue onto the socket until the session
// closes or a write fails.
func (s *session) writePump() {
	for {
		select {
		case <-s.done:
			return
		case env := <-s.out:
			if err := s.conn.WriteJSON(env); err != nil {
				s.logger.Debugf("peer %d write failed: %v", s.id, err)
				return
			}
		}
	}
}

func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}
