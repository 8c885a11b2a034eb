package stats

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"filematch/internal/matchmaker"
)

// Store writes session and transfer records. It satisfies the
// matchmaker's Recorder and the gateway's SessionLog; write failures
// are swallowed since bookkeeping must never disturb matchmaking.
type Store struct {
	DB *gorm.DB
}

var _ matchmaker.Recorder = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) SessionOpened(peerID int64, remoteAddr string) {
	s.DB.Create(&Session{
		PeerID:      peerID,
		RemoteAddr:  remoteAddr,
		ConnectedAt: time.Now().Unix(),
	})
}

func (s *Store) SessionClosed(peerID int64) {
	s.DB.Model(&Session{}).
		Where("peer_id = ? AND disconnected_at = 0", peerID).
		Update("disconnected_at", time.Now().Unix())
}

func (s *Store) PeerPaired(senderID, receiverID int64, file matchmaker.FileInfo) {
	s.DB.Create(&Transfer{
		Key:        uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		FileName:   file.Name,
		FileSize:   file.Size,
		Status:     StatusPaired,
		CreatedAt:  time.Now().Unix(),
	})
}

func (s *Store) TransferStarted(senderID, receiverID int64) {
	s.setStatus(senderID, receiverID, StatusSending)
}

func (s *Store) TransferAbandoned(abandonerID, survivorID int64) {
	s.setStatus(abandonerID, survivorID, StatusAbandoned)
}

func (s *Store) TransferDone(senderID, receiverID int64) {
	s.setStatus(senderID, receiverID, StatusDone)
}

// setStatus advances the pair's live transfer record. The two ids may
// arrive in either role order; terminal records are never rewritten.
func (s *Store) setStatus(a, b int64, status string) {
	s.DB.Model(&Transfer{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Where("status IN ?", []string{StatusPaired, StatusSending}).
		Update("status", status)
}

// CountSessions reports all sessions ever opened.
func (s *Store) CountSessions() int64 {
	var n int64
	s.DB.Model(&Session{}).Count(&n)
	return n
}

// CountTransfers reports transfers in the given status.
func (s *Store) CountTransfers(status string) int64 {
	var n int64
	s.DB.Model(&Transfer{}).Where("status = ?", status).Count(&n)
	return n
}

// OpenSessions reports sessions without a disconnect timestamp.
func (s *Store) OpenSessions() int64 {
	var n int64
	s.DB.Model(&Session{}).Where("disconnected_at = 0").Count(&n)
	return n
}

// Totals is a summary of stored history, for diagnostics.
type Totals struct {
	Sessions           int64 `json:"sessions"`
	OpenSessions       int64 `json:"openSessions"`
	TransfersStarted   int64 `json:"transfersStarted"`
	TransfersDone      int64 `json:"transfersDone"`
	TransfersAbandoned int64 `json:"transfersAbandoned"`
}

// Totals snapshots the stored counts.
func (s *Store) Totals() Totals {
	return Totals{
		Sessions:           s.CountSessions(),
		OpenSessions:       s.OpenSessions(),
		TransfersStarted:   s.CountTransfers(StatusSending),
		TransfersDone:      s.CountTransfers(StatusDone),
		TransfersAbandoned: s.CountTransfers(StatusAbandoned),
	}
}
