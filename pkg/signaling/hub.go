package signaling

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"roomrelay/pkg/util"
)

// event is one inbound wire frame attributed to its connection.
type event struct {
	client *Client
	name   string
	data   json.RawMessage
}

// Hub owns the connection table and the membership registry and runs
// the single event loop that serializes every mutation. Client read
// pumps and the HTTP layer talk to it over channels only, so the
// registry needs no locking and compound operations are atomic with
// respect to each other.
//
// The hub is also the Transport used by the lifecycle handler and the
// router: unicasts resolve the connection table, room broadcasts
// resolve the registry's member sets.
type Hub struct {
	registry  *Registry
	lifecycle *Lifecycle
	router    *Router

	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	events     chan event
	statsReq   chan chan Stats

	log *logrus.Entry
}

// NewHub creates a hub with an empty registry. Run must be started
// before any client is registered.
func NewHub() *Hub {
	h := &Hub{
		registry:   NewRegistry(),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan event),
		statsReq:   make(chan chan Stats),
		log:        util.Component("hub"),
	}
	h.lifecycle = NewLifecycle(h.registry, h)
	h.router = NewRouter(h.registry, h)
	return h
}

// Run is the hub's main loop. Everything that touches the connection
// table or the registry happens here, one event at a time.
func (h *Hub) Run() {
	h.log.Info("hub running")
	for {
		select {
		case c := <-h.register:
			h.clients[c.ID] = c
			h.log.WithField("conn_id", c.ID).Info("connection registered")

		case c := <-h.unregister:
			if _, ok := h.clients[c.ID]; !ok {
				continue
			}
			delete(h.clients, c.ID)
			h.lifecycle.OnLeaveOrDisconnect(c.ID)
			close(c.send)
			h.log.WithField("conn_id", c.ID).Info("connection unregistered")

		case ev := <-h.events:
			h.dispatch(ev)

		case reply := <-h.statsReq:
			reply <- h.registry.Stats()
		}
	}
}

// Stats snapshots the registry through the event loop, so the health
// endpoint never races in-flight membership changes.
func (h *Hub) Stats() Stats {
	reply := make(chan Stats, 1)
	h.statsReq <- reply
	return <-reply
}

// dispatch decodes and handles one client event. A bad event is logged
// and skipped; it must never take down the loop, so handler panics are
// recovered here.
func (h *Hub) dispatch(ev event) {
	defer func() {
		if r := recover(); r != nil {
			h.log.WithFields(logrus.Fields{
				"conn_id": ev.client.ID,
				"event":   ev.name,
				"panic":   r,
			}).Error("recovered from event handler panic")
		}
	}()

	switch ev.name {
	case EventJoinRoom:
		var d JoinRoomData
		if !h.decode(ev, &d) {
			return
		}
		h.lifecycle.OnJoinRoom(ev.client.ID, d.RoomID, d.DisplayName)

	case EventOffer:
		var d OfferData
		if !h.decode(ev, &d) {
			return
		}
		h.router.RelayOffer(ev.client.ID, d.To, d.Offer)

	case EventAnswer:
		var d AnswerData
		if !h.decode(ev, &d) {
			return
		}
		h.router.RelayAnswer(ev.client.ID, d.To, d.Answer)

	case EventICECandidate:
		var d ICECandidateData
		if !h.decode(ev, &d) {
			return
		}
		h.router.RelayICECandidate(ev.client.ID, d.To, d.Candidate)

	case EventStartScreenShare:
		var d ScreenShareData
		if !h.decode(ev, &d) {
			return
		}
		h.router.BroadcastScreenShareStart(ev.client.ID, d.RoomID)

	case EventStopScreenShare:
		var d ScreenShareData
		if !h.decode(ev, &d) {
			return
		}
		h.router.BroadcastScreenShareStop(ev.client.ID, d.RoomID)

	case EventLeaveRoom:
		h.lifecycle.OnLeaveOrDisconnect(ev.client.ID)

	default:
		h.log.WithFields(logrus.Fields{
			"conn_id": ev.client.ID,
			"event":   ev.name,
		}).Warn("ignoring unknown event")
	}
}

func (h *Hub) decode(ev event, into any) bool {
	if err := json.Unmarshal(ev.data, into); err != nil {
		h.log.WithFields(logrus.Fields{
			"conn_id": ev.client.ID,
			"event":   ev.name,
		}).WithError(err).Warn("ignoring malformed event payload")
		return false
	}
	return true
}

// SendTo implements Transport. A target without a live connection
// means zero recipients, not an error.
func (h *Hub) SendTo(connID, event string, payload any) {
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	c.enqueue(&Message{Event: event, Data: payload})
}

// BroadcastToRoom implements Transport over the registry's member set.
func (h *Hub) BroadcastToRoom(roomID, excludeID, event string, payload any) {
	for connID := range h.registry.MembersOf(roomID) {
		if connID == excludeID {
			continue
		}
		h.SendTo(connID, event, payload)
	}
}
