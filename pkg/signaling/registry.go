package signaling

import "iter"

// Peer is a connection's registered profile while it participates in a
// room. The profile is fixed once set; changing rooms means the client
// leaves and joins again.
type Peer struct {
	ConnectionID string
	DisplayName  string
	RoomID       string
}

// Stats is the snapshot exposed to the health endpoint. TotalPeers is
// the sum of member-set sizes across all rooms.
type Stats struct {
	Rooms      int
	TotalPeers int
}

// Registry owns the room membership tables: room id to member set and
// connection id to peer profile. All mutation funnels through its
// methods. It is not safe for concurrent use; the hub serializes every
// call onto its event loop.
type Registry struct {
	peers map[string]Peer
	rooms map[string]map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		peers: make(map[string]Peer),
		rooms: make(map[string]map[string]struct{}),
	}
}

// AddPeer records a peer profile and inserts the connection into the
// room's member set, creating the room if needed. Re-adding the same
// connection simply overwrites the prior profile.
func (r *Registry) AddPeer(connID, displayName, roomID string) {
	r.peers[connID] = Peer{
		ConnectionID: connID,
		DisplayName:  displayName,
		RoomID:       roomID,
	}

	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		r.rooms[roomID] = members
	}
	members[connID] = struct{}{}
}

// RemovePeer deletes the peer entry and its membership in the room the
// profile points at, dropping the room when its member set becomes
// empty. It returns the removed profile so callers can notify the
// remaining members. Removing an unknown connection is a no-op.
func (r *Registry) RemovePeer(connID string) (Peer, bool) {
	peer, ok := r.peers[connID]
	if !ok {
		return Peer{}, false
	}

	if members, ok := r.rooms[peer.RoomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, peer.RoomID)
		}
	}
	delete(r.peers, connID)
	return peer, true
}

// GetPeer looks up a peer profile by connection id.
func (r *Registry) GetPeer(connID string) (Peer, bool) {
	peer, ok := r.peers[connID]
	return peer, ok
}

// MembersOf yields the connection ids currently in the room, in no
// particular order. An absent room yields nothing. The sequence reads
// the live member set, so callers must not mutate the registry while
// ranging over it.
func (r *Registry) MembersOf(roomID string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for connID := range r.rooms[roomID] {
			if !yield(connID) {
				return
			}
		}
	}
}

// Stats reports the room count and total membership.
func (r *Registry) Stats() Stats {
	s := Stats{Rooms: len(r.rooms)}
	for _, members := range r.rooms {
		s.TotalPeers += len(members)
	}
	return s
}
