package signaling

import (
	"github.com/sirupsen/logrus"

	"roomrelay/pkg/util"
)

// Lifecycle reacts to peers arriving in and departing from rooms. It
// mutates the registry and emits the discovery notifications that let
// room members find each other.
type Lifecycle struct {
	registry  *Registry
	transport Transport
	log       *logrus.Entry
}

// NewLifecycle wires the handler to its registry and transport.
func NewLifecycle(registry *Registry, transport Transport) *Lifecycle {
	return &Lifecycle{
		registry:  registry,
		transport: transport,
		log:       util.Component("lifecycle"),
	}
}

// OnJoinRoom introduces the arriving connection to every existing
// member of the room and vice versa, then registers the new peer. A
// previously empty room produces no notifications. A repeated join
// overwrites the peer profile but leaves the prior room's member-set
// entry in place until the connection leaves or drops.
func (l *Lifecycle) OnJoinRoom(connID, roomID, displayName string) {
	for memberID := range l.registry.MembersOf(roomID) {
		member, ok := l.registry.GetPeer(memberID)
		if !ok {
			continue
		}
		l.transport.SendTo(connID, EventUserConnected, UserConnectedData{
			UserID:   memberID,
			Username: member.DisplayName,
		})
		l.transport.SendTo(memberID, EventUserConnected, UserConnectedData{
			UserID:   connID,
			Username: displayName,
		})
	}

	l.registry.AddPeer(connID, displayName, roomID)
	l.log.WithFields(logrus.Fields{
		"conn_id":      connID,
		"room_id":      roomID,
		"display_name": displayName,
	}).Info("peer joined room")
}

// OnLeaveOrDisconnect removes the peer and tells the remaining members
// of its room that it is gone. Unknown connections are a silent no-op,
// which makes a double disconnect harmless.
func (l *Lifecycle) OnLeaveOrDisconnect(connID string) {
	peer, ok := l.registry.RemovePeer(connID)
	if !ok {
		return
	}

	l.transport.BroadcastToRoom(peer.RoomID, connID, EventUserDisconnected, UserDisconnectedData{
		UserID: connID,
	})
	l.log.WithFields(logrus.Fields{
		"conn_id": connID,
		"room_id": peer.RoomID,
	}).Info("peer left room")
}
