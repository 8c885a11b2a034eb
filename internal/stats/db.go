// Package stats persists session and transfer history. Matchmaking
// state itself is never persisted; these records are bookkeeping only.
package stats

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Session is one peer's connection to the gateway.
type Session struct {
	ID             uint `gorm:"primaryKey"`
	PeerID         int64
	RemoteAddr     string
	ConnectedAt    int64
	DisconnectedAt int64
}

// Transfer is one pairing and its outcome.
type Transfer struct {
	ID         uint   `gorm:"primaryKey"`
	Key        string `gorm:"uniqueIndex"`
	SenderID   int64
	ReceiverID int64
	FileName   string
	FileSize   int64
	Status     string
	CreatedAt  int64
}

// Transfer status values.
const (
	StatusPaired    = "paired"
	StatusSending   = "sending"
	StatusAbandoned = "abandoned"
	StatusDone      = "done"
)

func NewDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Session{}, &Transfer{}); err != nil {
		return nil, err
	}
	return db, nil
}
