// Package gateway is the websocket front door: it assigns session
// identities, decodes inbound events, and routes them to the
// matchmaker.
package gateway

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"filematch/internal/matchmaker"
	"filematch/internal/stats"
)

// SessionLog records session lifecycle for bookkeeping. A nil log
// disables recording.
type SessionLog interface {
	SessionOpened(peerID int64, remoteAddr string)
	SessionClosed(peerID int64)
}

// TotalsReporter is optionally implemented by a SessionLog that keeps
// history; its counts are folded into the stats snapshot.
type TotalsReporter interface {
	Totals() stats.Totals
}

type Gateway struct {
	matchmaker *matchmaker.Matchmaker
	logger     *logrus.Logger
	sessions   SessionLog
	upgrader   websocket.Upgrader
	nextID     atomic.Int64
}

func New(m *matchmaker.Matchmaker, logger *logrus.Logger, sessions SessionLog) *Gateway {
	if logger == nil {
		logger = logrus.New()
	}
	return &Gateway{
		matchmaker: m,
		logger:     logger,
		sessions:   sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Routes returns the gateway's HTTP surface: the websocket endpoint and
// a diagnostics snapshot.
func (g *Gateway) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.HandleWS)
	mux.HandleFunc("/stats", g.HandleStats)
	return mux
}

// HandleWS upgrades the connection, assigns the peer its identity, and
// pumps inbound events until the socket dies. Teardown removes the peer
// from the pools and tears down its connection (betrayal path).
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warnf("websocket upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	id := g.nextID.Add(1)
	sess := newSession(id, conn, g.logger)
	go sess.writePump()

	g.logger.Infof("peer %d connected from %s", id, r.RemoteAddr)
	sess.Emit(matchmaker.EventSetID, matchmaker.SetIDPayload{ID: id})
	if g.sessions != nil {
		g.sessions.SessionOpened(id, r.RemoteAddr)
	}

	defer func() {
		g.matchmaker.Disconnect(id)
		if g.sessions != nil {
			g.sessions.SessionClosed(id)
		}
		sess.close()
		g.logger.Infof("peer %d disconnected", id)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.logger.Debugf("peer %d read failed: %v", id, err)
			}
			return
		}
		g.dispatch(sess, r.RemoteAddr, data)
	}
}

// dispatch decodes one inbound frame and routes it. Malformed frames
// and unknown events are logged and ignored; missing payload fields
// stay unset.
func (g *Gateway) dispatch(sess *session, remoteAddr string, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		g.logger.Warnf("peer %d sent an unreadable frame: %v", sess.id, err)
		return
	}

	switch env.Event {
	case eventPairToSend:
		var req pairRequest
		decode(env.Data, &req)
		g.matchmaker.RequestSend(&matchmaker.Peer{
			ID:      sess.id,
			Session: sess,
			Addr:    remoteAddr,
			Geo:     req.Geo,
			File:    req.FileInfo,
		})
	case eventPairToReceive:
		var req pairRequest
		decode(env.Data, &req)
		g.matchmaker.RequestReceive(&matchmaker.Peer{
			ID:      sess.id,
			Session: sess,
			Addr:    remoteAddr,
			Geo:     req.Geo,
		})
	case eventConfirm:
		var req confirmRequest
		decode(env.Data, &req)
		g.checkClaim(sess, env.Event, req.MyID)
		g.matchmaker.Confirm(sess.id)
	case eventConfirmFailed:
		var req peerRequest
		decode(env.Data, &req)
		g.checkClaim(sess, env.Event, req.MyID)
		g.matchmaker.Abandon(sess.id)
	case eventTransferDone:
		var req peerRequest
		decode(env.Data, &req)
		g.checkClaim(sess, env.Event, req.MyID)
		g.matchmaker.Done(sess.id)
	default:
		g.logger.Warnf("peer %d sent unknown event %q", sess.id, env.Event)
	}
}

// decode fills v from raw when a payload is present. Absent or broken
// payloads leave v zeroed: optional fields are optional, not validated.
func decode(raw json.RawMessage, v any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, v)
}

// checkClaim flags a payload identity that contradicts the session.
// The session identity is authoritative; the payload field is kept on
// the wire for compatibility only.
func (g *Gateway) checkClaim(sess *session, event string, claimed int64) {
	if claimed != 0 && claimed != sess.id {
		g.logger.Warnf("peer %d claimed identity %d in %s, ignoring", sess.id, claimed, event)
	}
}

type statsSnapshot struct {
	WaitingSenders    []int64       `json:"waitingSenders"`
	WaitingReceivers  []int64       `json:"waitingReceivers"`
	ActiveConnections int           `json:"activeConnections"`
	Totals            *stats.Totals `json:"totals,omitempty"`
}

// HandleStats reports the live matchmaking state plus stored totals
// when the session log keeps history.
func (g *Gateway) HandleStats(w http.ResponseWriter, r *http.Request) {
	snapshot := statsSnapshot{
		WaitingSenders:    g.matchmaker.WaitingSenders(),
		WaitingReceivers:  g.matchmaker.WaitingReceivers(),
		ActiveConnections: g.matchmaker.ActiveConnections(),
	}
	if reporter, ok := g.sessions.(TotalsReporter); ok {
		totals := reporter.Totals()
		snapshot.Totals = &totals
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		g.logger.Warnf("failed to write stats response: %v", err)
	}
}
