package gateway

import (
	"encoding/json"

	"filematch/internal/matchmaker"
)

// Inbound event names accepted from peers.
const (
	eventPairToSend    = "pairToSend"
	eventPairToReceive = "pairToReceive"
	eventConfirm       = "confirm"
	eventConfirmFailed = "confirmFailed"
	eventTransferDone  = "transferDone"
)

// Envelope frames every inbound websocket message: a named event plus
// an optional JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outEnvelope is the outbound counterpart; Data is marshaled in place.
type outEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type pairRequest struct {
	ID       int64                   `json:"id"`
	Geo      *matchmaker.Geolocation `json:"geo,omitempty"`
	FileInfo *matchmaker.FileInfo    `json:"fileInfo,omitempty"`
}

type confirmRequest struct {
	MyID      int64 `json:"myID"`
	PartnerID int64 `json:"partnerID"`
}

type peerRequest struct {
	MyID int64 `json:"myID"`
}
