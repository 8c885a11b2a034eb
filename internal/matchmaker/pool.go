package matchmaker

import "time"

// WaitingPool holds peers that requested a role and have not yet been
// matched. The pool does no locking of its own: the owning Matchmaker
// serializes every mutation, including expiry fires, behind one mutex.
type WaitingPool struct {
	entries map[int64]*waitingEntry
	gen     uint64
}

type waitingEntry struct {
	peer  *Peer
	timer *time.Timer
	token uint64
}

func NewWaitingPool() *WaitingPool {
	return &WaitingPool{entries: make(map[int64]*waitingEntry)}
}

// Insert stores peer keyed by its identity, replacing any prior entry
// for that identity, and schedules onExpire to run after timeout unless
// the entry is removed first. onExpire receives a token that must be
// handed back to Expire; a fire whose token no longer matches the live
// entry is a no-op, so a replaced or removed entry never expires.
func (p *WaitingPool) Insert(peer *Peer, timeout time.Duration, onExpire func(token uint64)) {
	p.Remove(peer.ID)
	p.gen++
	e := &waitingEntry{peer: peer, token: p.gen}
	e.timer = time.AfterFunc(timeout, func() { onExpire(e.token) })
	p.entries[peer.ID] = e
}

// Remove drops the entry for identity if present and cancels its pending
// expiry. Removing an absent identity is a no-op.
func (p *WaitingPool) Remove(identity int64) {
	e, ok := p.entries[identity]
	if !ok {
		return
	}
	e.timer.Stop()
	delete(p.entries, identity)
}

// Expire removes and returns the peer for identity, but only while the
// entry still carries token. A re-inserted identity holds a fresh token,
// so a stale timer fire finds nothing to do.
func (p *WaitingPool) Expire(identity int64, token uint64) (*Peer, bool) {
	e, ok := p.entries[identity]
	if !ok || e.token != token {
		return nil, false
	}
	delete(p.entries, identity)
	return e.peer, true
}

// PickAny returns some waiting peer without removing it, or false if the
// pool is empty. First available wins; no ordering is guaranteed.
func (p *WaitingPool) PickAny() (*Peer, bool) {
	for _, e := range p.entries {
		return e.peer, true
	}
	return nil, false
}

// Identities returns a snapshot of all waiting identities.
func (p *WaitingPool) Identities() []int64 {
	ids := make([]int64, 0, len(p.entries))
	for id := range p.entries {
		ids = append(ids, id)
	}
	return ids
}

// Len reports the number of waiting peers.
func (p *WaitingPool) Len() int {
	return len(p.entries)
}
