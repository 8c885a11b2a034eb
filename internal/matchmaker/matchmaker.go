package matchmaker

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPairTimeout is how long a peer waits in a pool before it is
// told pairing failed.
const DefaultPairTimeout = 1500 * time.Millisecond

// Recorder receives matchmaking milestones for bookkeeping. A nil
// recorder disables recording.
type Recorder interface {
	PeerPaired(senderID, receiverID int64, file FileInfo)
	TransferStarted(senderID, receiverID int64)
	TransferAbandoned(abandonerID, survivorID int64)
	TransferDone(senderID, receiverID int64)
}

type Config struct {
	// PairTimeout overrides DefaultPairTimeout when positive.
	PairTimeout time.Duration
	Logger      *logrus.Logger
	Recorder    Recorder
}

// Matchmaker owns the two waiting pools and the connection registry.
// A single mutex serializes every mutation, including expiry timer
// fires, so pool and registry state never interleaves.
type Matchmaker struct {
	mu        sync.Mutex
	senders   *WaitingPool
	receivers *WaitingPool
	registry  *ConnectionRegistry
	timeout   time.Duration
	logger    *logrus.Logger
	recorder  Recorder
}

func New(cfg Config) *Matchmaker {
	timeout := cfg.PairTimeout
	if timeout <= 0 {
		timeout = DefaultPairTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}
	return &Matchmaker{
		senders:   NewWaitingPool(),
		receivers: NewWaitingPool(),
		registry:  NewConnectionRegistry(),
		timeout:   timeout,
		logger:    log,
		recorder:  cfg.Recorder,
	}
}

// Confirm records a peer's acknowledgment of its pending connection,
// resolved through the participant index. When this completes the
// handshake both sides are told to start. Confirming with no active
// connection is a silent no-op: the partner may already be gone.
func (m *Matchmaker) Confirm(peerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.registry.ByPeer(peerID)
	if !ok {
		m.logger.Debugf("confirm from peer %d with no active connection", peerID)
		return
	}
	if !m.registry.Confirm(conn.ID, peerID) {
		return
	}

	m.logger.Infof("connection %d confirmed by both sides, sender %d -> receiver %d",
		conn.ID, conn.Sender.ID, conn.Receiver.ID)
	start := StartPayload{SenderID: conn.Sender.ID, ReceiverID: conn.Receiver.ID}
	conn.Sender.Session.Emit(EventStartSending, start)
	conn.Receiver.Session.Emit(EventStartSending, start)
	if m.recorder != nil {
		m.recorder.TransferStarted(conn.Sender.ID, conn.Receiver.ID)
	}
}

// Abandon tears down peerID's connection before the transfer started
// and notifies the surviving participant it was betrayed.
func (m *Matchmaker) Abandon(peerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.betray(peerID)
}

// Done clears peerID's connection after a completed transfer. No
// notification is sent; both sides already know.
func (m *Matchmaker) Done(peerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.registry.ByPeer(peerID)
	if !ok {
		return
	}
	m.logger.Infof("connection %d finished, sender %d -> receiver %d",
		conn.ID, conn.Sender.ID, conn.Receiver.ID)
	m.registry.Clear(conn.ID)
	if m.recorder != nil {
		m.recorder.TransferDone(conn.Sender.ID, conn.Receiver.ID)
	}
}

// Disconnect removes every trace of peerID: waiting pool entries are
// dropped with their timers, and an active connection is torn down with
// a betrayal notification to the partner.
func (m *Matchmaker) Disconnect(peerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.senders.Remove(peerID)
	m.receivers.Remove(peerID)
	m.betray(peerID)
}

// betray clears peerID's connection, if any, notifying the partner.
// The event name carries the abandoning side's role. Callers hold m.mu.
func (m *Matchmaker) betray(peerID int64) {
	conn, ok := m.registry.ByPeer(peerID)
	if !ok {
		return
	}
	other := conn.Partner(peerID)
	event := EventBetrayedSending
	if peerID == conn.Receiver.ID {
		event = EventBetrayedReceiving
	}
	m.logger.Infof("peer %d abandoned connection %d, notifying peer %d", peerID, conn.ID, other.ID)
	other.Session.Emit(event, BetrayedPayload{PartnerID: peerID})
	m.registry.Clear(conn.ID)
	if m.recorder != nil {
		m.recorder.TransferAbandoned(peerID, other.ID)
	}
}

// WaitingSenders snapshots the identities waiting to send.
func (m *Matchmaker) WaitingSenders() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.senders.Identities()
}

// WaitingReceivers snapshots the identities waiting to receive.
func (m *Matchmaker) WaitingReceivers() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receivers.Identities()
}

// ActiveConnections reports the number of live connections.
func (m *Matchmaker) ActiveConnections() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.Len()
}
