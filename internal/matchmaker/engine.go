package matchmaker

// RequestSend registers peer's intent to send a file. If a receiver is
// already waiting the two are paired immediately; otherwise peer waits
// in the send pool until a receiver arrives or the timeout fires.
func (m *Matchmaker) RequestSend(peer *Peer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearWaiting(peer.ID)
	receiver, ok := m.receivers.PickAny()
	if !ok {
		m.logger.Debugf("no receiver waiting, queueing sender %d", peer.ID)
		m.enqueue(m.senders, peer)
		return
	}
	m.receivers.Remove(receiver.ID)
	m.pair(peer, receiver)
}

// RequestReceive registers peer's intent to receive a file. Symmetric
// to RequestSend against the send pool.
func (m *Matchmaker) RequestReceive(peer *Peer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearWaiting(peer.ID)
	sender, ok := m.senders.PickAny()
	if !ok {
		m.logger.Debugf("no sender waiting, queueing receiver %d", peer.ID)
		m.enqueue(m.receivers, peer)
		return
	}
	m.senders.Remove(sender.ID)
	m.pair(sender, peer)
}

// clearWaiting drops any stale waiting entry for identity in both
// pools. A peer retrying its role must not be counted twice. Callers
// hold m.mu.
func (m *Matchmaker) clearWaiting(identity int64) {
	m.senders.Remove(identity)
	m.receivers.Remove(identity)
}

// enqueue inserts peer into pool with the pairing timeout. The expiry
// callback re-enters the matchmaker lock and checks the entry is still
// live before emitting, so a peer that was matched or replaced in the
// meantime never hears pairFailed. Callers hold m.mu.
func (m *Matchmaker) enqueue(pool *WaitingPool, peer *Peer) {
	identity := peer.ID
	pool.Insert(peer, m.timeout, func(token uint64) {
		m.mu.Lock()
		expired, ok := pool.Expire(identity, token)
		m.mu.Unlock()
		if !ok {
			return
		}
		m.logger.Infof("pairing timed out for peer %d", identity)
		expired.Session.Emit(EventPairFailed, struct{}{})
	})
}

// pair removes nothing: both peers are already out of the pools. It
// creates the connection and tells each side who it got and what file
// is on offer. Callers hold m.mu.
func (m *Matchmaker) pair(sender, receiver *Peer) {
	conn := m.registry.Add(sender, receiver)

	var file FileInfo
	if sender.File != nil {
		file = *sender.File
	}
	m.logger.Infof("paired sender %d with receiver %d on connection %d (%s, %d bytes)",
		sender.ID, receiver.ID, conn.ID, file.Name, file.Size)

	sender.Session.Emit(EventConfirmSend, MatchPayload{
		PartnerID: receiver.ID,
		FileName:  file.Name,
		FileSize:  file.Size,
	})
	receiver.Session.Emit(EventConfirmReceive, MatchPayload{
		PartnerID: sender.ID,
		FileName:  file.Name,
		FileSize:  file.Size,
	})
	if m.recorder != nil {
		m.recorder.PeerPaired(sender.ID, receiver.ID, file)
	}
}
