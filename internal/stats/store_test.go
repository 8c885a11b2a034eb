package stats_test

import (
	"testing"

	"filematch/internal/matchmaker"
	"filematch/internal/stats"
)

func setupTestStore(t *testing.T) *stats.Store {
	t.Helper()
	db, err := stats.NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return stats.NewStore(db)
}

func TestSessionLifecycle(t *testing.T) {
	s := setupTestStore(t)

	s.SessionOpened(1, "192.168.1.1:5000")
	s.SessionOpened(2, "192.168.1.2:5001")

	if got := s.CountSessions(); got != 2 {
		t.Errorf("expected 2 sessions, got %d", got)
	}
	if got := s.OpenSessions(); got != 2 {
		t.Errorf("expected 2 open sessions, got %d", got)
	}

	s.SessionClosed(1)

	if got := s.OpenSessions(); got != 1 {
		t.Errorf("expected 1 open session after close, got %d", got)
	}
}

func TestSessionClosedUnknownIsNoOp(t *testing.T) {
	s := setupTestStore(t)
	s.SessionClosed(42)
}

func TestPeerPairedCreatesTransfer(t *testing.T) {
	s := setupTestStore(t)

	s.PeerPaired(10, 20, matchmaker.FileInfo{Name: "a.txt", Size: 100})

	if got := s.CountTransfers(stats.StatusPaired); got != 1 {
		t.Errorf("expected 1 paired transfer, got %d", got)
	}

	var tr stats.Transfer
	if err := s.DB.First(&tr).Error; err != nil {
		t.Fatalf("failed to load transfer: %v", err)
	}
	if tr.Key == "" {
		t.Error("expected a non-empty transfer key")
	}
	if tr.FileName != "a.txt" || tr.FileSize != 100 {
		t.Errorf("unexpected file metadata: %+v", tr)
	}
}

func TestTransferStatusProgression(t *testing.T) {
	s := setupTestStore(t)

	s.PeerPaired(10, 20, matchmaker.FileInfo{Name: "a.txt", Size: 100})
	s.TransferStarted(10, 20)

	if got := s.CountTransfers(stats.StatusSending); got != 1 {
		t.Errorf("expected 1 sending transfer, got %d", got)
	}

	s.TransferDone(10, 20)

	if got := s.CountTransfers(stats.StatusDone); got != 1 {
		t.Errorf("expected 1 done transfer, got %d", got)
	}
	if got := s.CountTransfers(stats.StatusSending); got != 0 {
		t.Errorf("expected no sending transfers, got %d", got)
	}
}

func TestTransferAbandonedEitherRoleOrder(t *testing.T) {
	s := setupTestStore(t)

	s.PeerPaired(10, 20, matchmaker.FileInfo{Name: "a.txt", Size: 100})
	// Abandoner is the receiver: ids arrive swapped relative to the row.
	s.TransferAbandoned(20, 10)

	if got := s.CountTransfers(stats.StatusAbandoned); got != 1 {
		t.Errorf("expected 1 abandoned transfer, got %d", got)
	}
}

func TestTerminalTransferIsNotRewritten(t *testing.T) {
	s := setupTestStore(t)

	s.PeerPaired(10, 20, matchmaker.FileInfo{Name: "a.txt", Size: 100})
	s.TransferDone(10, 20)
	s.TransferAbandoned(10, 20)

	if got := s.CountTransfers(stats.StatusDone); got != 1 {
		t.Errorf("expected the done record to survive, got %d done", got)
	}
	if got := s.CountTransfers(stats.StatusAbandoned); got != 0 {
		t.Errorf("expected no abandoned records, got %d", got)
	}
}

func TestTotalsSummary(t *testing.T) {
	s := setupTestStore(t)

	s.SessionOpened(1, "192.168.1.1:5000")
	s.SessionOpened(2, "192.168.1.2:5001")
	s.SessionClosed(2)

	s.PeerPaired(1, 2, matchmaker.FileInfo{Name: "a.txt", Size: 100})
	s.TransferStarted(1, 2)
	s.PeerPaired(1, 3, matchmaker.FileInfo{Name: "b.txt", Size: 200})
	s.TransferAbandoned(3, 1)

	totals := s.Totals()
	if totals.Sessions != 2 || totals.OpenSessions != 1 {
		t.Errorf("unexpected session totals: %+v", totals)
	}
	if totals.TransfersStarted != 1 || totals.TransfersAbandoned != 1 || totals.TransfersDone != 0 {
		t.Errorf("unexpected transfer totals: %+v", totals)
	}
}

func TestRepeatedPairingsKeepHistory(t *testing.T) {
	s := setupTestStore(t)

	s.PeerPaired(10, 20, matchmaker.FileInfo{Name: "a.txt", Size: 100})
	s.TransferAbandoned(10, 20)
	s.PeerPaired(10, 30, matchmaker.FileInfo{Name: "b.txt", Size: 200})
	s.TransferStarted(10, 30)

	if got := s.CountTransfers(stats.StatusAbandoned); got != 1 {
		t.Errorf("expected 1 abandoned transfer, got %d", got)
	}
	if got := s.CountTransfers(stats.StatusSending); got != 1 {
		t.Errorf("expected 1 sending transfer, got %d", got)
	}
}
