// Package matchmaker pairs anonymous sending and receiving peers and
// tracks each resulting connection through its confirmation handshake.
package matchmaker

// Emitter delivers a named event with a JSON-shaped payload to a remote
// peer. Implementations are owned by the session gateway; the matchmaker
// only ever borrows them. Sends are fire-and-forget.
type Emitter interface {
	Emit(event string, payload any)
}

// Geolocation is an optional, all-or-nothing position report from a peer.
// It is carried for diagnostics only; pairing does not consult it.
type Geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// FileInfo describes the file a sending peer intends to transfer.
// A nil FileInfo marks a receive-only peer.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Peer is one endpoint of a potential transfer. A Peer is built fresh
// for every pairing attempt and lives only while a waiting pool entry or
// a connection references it.
type Peer struct {
	ID      int64
	Session Emitter
	Addr    string
	Geo     *Geolocation
	File    *FileInfo
}
