package signaling

import "encoding/json"

// Event names accepted from clients.
const (
	EventJoinRoom         = "join-room"
	EventOffer            = "offer"
	EventAnswer           = "answer"
	EventICECandidate     = "ice-candidate"
	EventStartScreenShare = "start-screen-share"
	EventStopScreenShare  = "stop-screen-share"
	EventLeaveRoom        = "leave-room"
)

// Event names sent to clients.
const (
	EventUserConnected      = "user-connected"
	EventUserDisconnected   = "user-disconnected"
	EventScreenShareStarted = "screen-share-started"
	EventScreenShareStopped = "screen-share-stopped"
)

// Envelope is the inbound wire frame: an event name plus a data object
// that is decoded per event type.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Message is the outbound wire frame.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Inbound payloads. Offer, answer and candidate bodies are relayed as
// opaque JSON and never inspected.

type JoinRoomData struct {
	RoomID      string `json:"roomId"`
	DisplayName string `json:"displayName"`
}

type OfferData struct {
	Offer json.RawMessage `json:"offer"`
	To    string          `json:"to"`
}

type AnswerData struct {
	Answer json.RawMessage `json:"answer"`
	To     string          `json:"to"`
}

type ICECandidateData struct {
	Candidate json.RawMessage `json:"candidate"`
	To        string          `json:"to"`
}

type ScreenShareData struct {
	RoomID string `json:"roomId"`
}

// Outbound payloads.

type UserConnectedData struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type UserDisconnectedData struct {
	UserID string `json:"userId"`
}

type OfferForward struct {
	Offer    json.RawMessage `json:"offer"`
	From     string          `json:"from"`
	Username string          `json:"username"`
}

type AnswerForward struct {
	Answer   json.RawMessage `json:"answer"`
	From     string          `json:"from"`
	Username string          `json:"username"`
}

type ICECandidateForward struct {
	Candidate json.RawMessage `json:"candidate"`
	From      string          `json:"from"`
}

type ScreenShareStartedData struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type ScreenShareStoppedData struct {
	UserID string `json:"userId"`
}
