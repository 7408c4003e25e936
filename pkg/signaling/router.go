package signaling

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"roomrelay/pkg/util"
)

// Router relays point-to-point signaling messages and room-wide
// screen-share notifications. It keeps no state of its own; the
// registry is consulted only to resolve the sender's display name.
// Target ids and room ids are trusted as supplied: the payloads are
// opaque and useless without a peer actively negotiating.
type Router struct {
	registry  *Registry
	transport Transport
	log       *logrus.Entry
}

// NewRouter wires the relay to its registry and transport.
func NewRouter(registry *Registry, transport Transport) *Router {
	return &Router{
		registry:  registry,
		transport: transport,
		log:       util.Component("router"),
	}
}

// RelayOffer forwards a session offer to the target connection, tagged
// with the sender's id and display name. Offers from connections that
// never joined a room (or already left) are dropped.
func (r *Router) RelayOffer(fromID, toID string, offer json.RawMessage) {
	sender, ok := r.registry.GetPeer(fromID)
	if !ok {
		r.log.WithField("conn_id", fromID).Debug("dropping offer from unknown sender")
		return
	}
	r.transport.SendTo(toID, EventOffer, OfferForward{
		Offer:    offer,
		From:     fromID,
		Username: sender.DisplayName,
	})
}

// RelayAnswer forwards a session answer the same way RelayOffer does.
func (r *Router) RelayAnswer(fromID, toID string, answer json.RawMessage) {
	sender, ok := r.registry.GetPeer(fromID)
	if !ok {
		r.log.WithField("conn_id", fromID).Debug("dropping answer from unknown sender")
		return
	}
	r.transport.SendTo(toID, EventAnswer, AnswerForward{
		Answer:   answer,
		From:     fromID,
		Username: sender.DisplayName,
	})
}

// RelayICECandidate forwards a network-path candidate unconditionally.
// No sender lookup happens here: candidates trickle in during teardown
// races and carry no name to resolve.
func (r *Router) RelayICECandidate(fromID, toID string, candidate json.RawMessage) {
	r.transport.SendTo(toID, EventICECandidate, ICECandidateForward{
		Candidate: candidate,
		From:      fromID,
	})
}

// BroadcastScreenShareStart tells every other member of the room that
// the sender started sharing its screen. Unknown senders are a no-op.
func (r *Router) BroadcastScreenShareStart(fromID, roomID string) {
	sender, ok := r.registry.GetPeer(fromID)
	if !ok {
		return
	}
	r.transport.BroadcastToRoom(roomID, fromID, EventScreenShareStarted, ScreenShareStartedData{
		UserID:   fromID,
		Username: sender.DisplayName,
	})
}

// BroadcastScreenShareStop tells every other member of the room that
// the sender stopped sharing. Unknown senders are a no-op.
func (r *Router) BroadcastScreenShareStop(fromID, roomID string) {
	if _, ok := r.registry.GetPeer(fromID); !ok {
		return
	}
	r.transport.BroadcastToRoom(roomID, fromID, EventScreenShareStopped, ScreenShareStoppedData{
		UserID: fromID,
	})
}
