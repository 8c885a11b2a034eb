package matchmaker

import (
	"testing"
	"time"
)

func testPeer(id int64) *Peer {
	return &Peer{ID: id, Session: &fakeSession{}}
}

func TestPoolInsertAndPickAny(t *testing.T) {
	pool := NewWaitingPool()

	pool.Insert(testPeer(1), time.Minute, func(uint64) {})

	peer, ok := pool.PickAny()
	if !ok {
		t.Fatal("expected a waiting peer")
	}
	if peer.ID != 1 {
		t.Errorf("expected peer 1, got %d", peer.ID)
	}
	if pool.Len() != 1 {
		t.Errorf("expected pool length 1, got %d", pool.Len())
	}
}

func TestPoolPickAnyEmpty(t *testing.T) {
	pool := NewWaitingPool()

	if _, ok := pool.PickAny(); ok {
		t.Error("expected no peer from empty pool")
	}
}

func TestPoolPickAnyDoesNotMutate(t *testing.T) {
	pool := NewWaitingPool()
	pool.Insert(testPeer(1), time.Minute, func(uint64) {})

	_, _ = pool.PickAny()
	_, _ = pool.PickAny()

	if pool.Len() != 1 {
		t.Errorf("expected pool length 1 after picks, got %d", pool.Len())
	}
}

func TestPoolRemoveCancelsExpiry(t *testing.T) {
	pool := NewWaitingPool()
	fired := make(chan uint64, 1)

	pool.Insert(testPeer(1), 20*time.Millisecond, func(tok uint64) { fired <- tok })
	pool.Remove(1)

	select {
	case <-fired:
		t.Error("expiry fired for a removed entry")
	case <-time.After(100 * time.Millisecond):
	}
	if pool.Len() != 0 {
		t.Errorf("expected empty pool, got %d entries", pool.Len())
	}
}

func TestPoolRemoveAbsentIsNoOp(t *testing.T) {
	pool := NewWaitingPool()
	pool.Remove(42)
}

func TestPoolReinsertReplacesEntry(t *testing.T) {
	pool := NewWaitingPool()
	pool.Insert(testPeer(1), time.Minute, func(uint64) {})
	pool.Insert(testPeer(1), time.Minute, func(uint64) {})

	if pool.Len() != 1 {
		t.Errorf("expected a single entry after re-insert, got %d", pool.Len())
	}
}

func TestPoolExpireStaleTokenIsNoOp(t *testing.T) {
	pool := NewWaitingPool()
	tokens := make(chan uint64, 2)

	pool.Insert(testPeer(1), 10*time.Millisecond, func(tok uint64) { tokens <- tok })
	stale := <-tokens

	// Re-insert before consuming the stale fire: the old token must no
	// longer expire the fresh entry.
	pool.Insert(testPeer(1), time.Minute, func(tok uint64) { tokens <- tok })

	if _, ok := pool.Expire(1, stale); ok {
		t.Error("stale token expired a re-inserted entry")
	}
	if pool.Len() != 1 {
		t.Errorf("expected the fresh entry to survive, got %d entries", pool.Len())
	}
}

func TestPoolExpireLiveToken(t *testing.T) {
	pool := NewWaitingPool()
	fired := make(chan uint64, 1)

	pool.Insert(testPeer(7), 10*time.Millisecond, func(tok uint64) { fired <- tok })

	var tok uint64
	select {
	case tok = <-fired:
	case <-time.After(time.Second):
		t.Fatal("expiry never fired")
	}

	peer, ok := pool.Expire(7, tok)
	if !ok {
		t.Fatal("expected live token to expire the entry")
	}
	if peer.ID != 7 {
		t.Errorf("expected peer 7, got %d", peer.ID)
	}
	if pool.Len() != 0 {
		t.Errorf("expected empty pool after expire, got %d", pool.Len())
	}
}

func TestPoolIdentities(t *testing.T) {
	pool := NewWaitingPool()
	pool.Insert(testPeer(1), time.Minute, func(uint64) {})
	pool.Insert(testPeer(2), time.Minute, func(uint64) {})

	ids := pool.Identities()
	if len(ids) != 2 {
		t.Fatalf("expected 2 identities, got %d", len(ids))
	}
	seen := map[int64]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[1] || !seen[2] {
		t.Errorf("expected identities 1 and 2, got %v", ids)
	}
}
