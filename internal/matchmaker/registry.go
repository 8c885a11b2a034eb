package matchmaker

// Status tracks where a connection is in its handshake.
type Status int

const (
	// StatusInit is the state between pairing and double confirmation.
	StatusInit Status = iota
	// StatusSending is entered exactly once, when both sides have
	// confirmed. There is no transition out; connections end by Clear.
	StatusSending
)

func (s Status) String() string {
	switch s {
	case StatusInit:
		return "INIT"
	case StatusSending:
		return "SENDING"
	default:
		return "UNKNOWN"
	}
}

// Connection is the tracked relationship between a matched sender and
// receiver while the confirmation handshake runs.
type Connection struct {
	ID                int64
	Sender            *Peer
	Receiver          *Peer
	SenderConfirmed   bool
	ReceiverConfirmed bool
	Status            Status
}

// Partner returns the participant opposite to peerID, or nil when
// peerID is not part of the connection.
func (c *Connection) Partner(peerID int64) *Peer {
	switch peerID {
	case c.Sender.ID:
		return c.Receiver
	case c.Receiver.ID:
		return c.Sender
	default:
		return nil
	}
}

// ConnectionRegistry owns all paired-but-not-yet-done connections. The
// primary store maps connection id to Connection; a secondary index maps
// each participant identity to its connection id and is kept consistent
// with the primary store on every add and clear. Like WaitingPool, the
// registry relies on the owning Matchmaker for serialization.
type ConnectionRegistry struct {
	nextID int64
	conns  map[int64]*Connection
	byPeer map[int64]int64
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		conns:  make(map[int64]*Connection),
		byPeer: make(map[int64]int64),
	}
}

// Add creates a connection for the pair, first clearing any connection
// either participant is already in: a peer is in at most one active
// connection at a time. Connection ids increase monotonically.
func (r *ConnectionRegistry) Add(sender, receiver *Peer) *Connection {
	if id, ok := r.byPeer[sender.ID]; ok {
		r.Clear(id)
	}
	if id, ok := r.byPeer[receiver.ID]; ok {
		r.Clear(id)
	}

	r.nextID++
	conn := &Connection{
		ID:       r.nextID,
		Sender:   sender,
		Receiver: receiver,
		Status:   StatusInit,
	}
	r.conns[conn.ID] = conn
	r.byPeer[sender.ID] = conn.ID
	r.byPeer[receiver.ID] = conn.ID
	return conn
}

// Confirm records peerID's acknowledgment on the connection and reports
// whether this call completed the handshake. The INIT to SENDING
// transition happens here, exactly once: repeated confirms after the
// transition return false, as do confirms for unknown connections or
// for identities outside the pair.
func (r *ConnectionRegistry) Confirm(connID, peerID int64) bool {
	conn, ok := r.conns[connID]
	if !ok {
		return false
	}
	switch peerID {
	case conn.Sender.ID:
		conn.SenderConfirmed = true
	case conn.Receiver.ID:
		conn.ReceiverConfirmed = true
	default:
		return false
	}
	if conn.SenderConfirmed && conn.ReceiverConfirmed && conn.Status == StatusInit {
		conn.Status = StatusSending
		return true
	}
	return false
}

// Get returns the connection by id.
func (r *ConnectionRegistry) Get(connID int64) (*Connection, bool) {
	conn, ok := r.conns[connID]
	return conn, ok
}

// ByPeer resolves a participant identity to its connection.
func (r *ConnectionRegistry) ByPeer(peerID int64) (*Connection, bool) {
	id, ok := r.byPeer[peerID]
	if !ok {
		return nil, false
	}
	return r.Get(id)
}

// Clear removes the connection and both secondary-index entries.
// Clearing an unknown id is a no-op.
func (r *ConnectionRegistry) Clear(connID int64) {
	conn, ok := r.conns[connID]
	if !ok {
		return
	}
	delete(r.byPeer, conn.Sender.ID)
	delete(r.byPeer, conn.Receiver.ID)
	delete(r.conns, connID)
}

// Len reports the number of active connections.
func (r *ConnectionRegistry) Len() int {
	return len(r.conns)
}
