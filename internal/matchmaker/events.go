package matchmaker

// Outbound event names. The gateway forwards these verbatim to peers.
const (
	EventSetID             = "setID"
	EventConfirmSend       = "confirmSend"
	EventConfirmReceive    = "confirmReceive"
	EventPairFailed        = "pairFailed"
	EventStartSending      = "startSending"
	EventBetrayedSending   = "betrayedSending"
	EventBetrayedReceiving = "betrayedReceiving"
)

// SetIDPayload tells a freshly connected peer its session identity.
type SetIDPayload struct {
	ID int64 `json:"id"`
}

// MatchPayload announces a successful pairing to both sides. The
// receiver learns what it is about to receive, the sender learns who
// accepted.
type MatchPayload struct {
	PartnerID int64  `json:"partnerID"`
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
}

// StartPayload is sent to both sides once both have confirmed.
type StartPayload struct {
	SenderID   int64 `json:"senderID"`
	ReceiverID int64 `json:"receiverID"`
}

// BetrayedPayload notifies the surviving participant that its partner
// abandoned the connection.
type BetrayedPayload struct {
	PartnerID int64 `json:"partnerID"`
}
