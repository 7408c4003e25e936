package signaling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMsg struct {
	to      string
	event   string
	payload any
}

type roomBroadcast struct {
	roomID    string
	excludeID string
	event     string
	payload   any
}

// fakeTransport records every directive the core issues.
type fakeTransport struct {
	sent       []sentMsg
	broadcasts []roomBroadcast
}

func (f *fakeTransport) SendTo(connID, event string, payload any) {
	f.sent = append(f.sent, sentMsg{to: connID, event: event, payload: payload})
}

func (f *fakeTransport) BroadcastToRoom(roomID, excludeID, event string, payload any) {
	f.broadcasts = append(f.broadcasts, roomBroadcast{
		roomID:    roomID,
		excludeID: excludeID,
		event:     event,
		payload:   payload,
	})
}

func (f *fakeTransport) sentTo(connID string) []sentMsg {
	var msgs []sentMsg
	for _, m := range f.sent {
		if m.to == connID {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

func newLifecycleUnderTest() (*Lifecycle, *Registry, *fakeTransport) {
	registry := NewRegistry()
	transport := &fakeTransport{}
	return NewLifecycle(registry, transport), registry, transport
}

func TestJoinEmptyRoomSendsNothing(t *testing.T) {
	lc, registry, transport := newLifecycleUnderTest()

	lc.OnJoinRoom("conn-a", "room-1", "Alice")

	assert.Empty(t, transport.sent)
	assert.Empty(t, transport.broadcasts)
	_, ok := registry.GetPeer("conn-a")
	assert.True(t, ok)
}

func TestJoinIntroducesBothSides(t *testing.T) {
	lc, _, transport := newLifecycleUnderTest()
	lc.OnJoinRoom("conn-a", "room-1", "Alice")

	lc.OnJoinRoom("conn-b", "room-1", "Bob")

	toB := transport.sentTo("conn-b")
	require.Len(t, toB, 1, "joiner should learn about each existing member exactly once")
	assert.Equal(t, EventUserConnected, toB[0].event)
	assert.Equal(t, UserConnectedData{UserID: "conn-a", Username: "Alice"}, toB[0].payload)

	toA := transport.sentTo("conn-a")
	require.Len(t, toA, 1, "each existing member should learn about the joiner exactly once")
	assert.Equal(t, EventUserConnected, toA[0].event)
	assert.Equal(t, UserConnectedData{UserID: "conn-b", Username: "Bob"}, toA[0].payload)
}

func TestJoinDoesNotNotifyOtherRooms(t *testing.T) {
	lc, _, transport := newLifecycleUnderTest()
	lc.OnJoinRoom("conn-a", "room-1", "Alice")
	lc.OnJoinRoom("conn-c", "room-2", "Carol")

	lc.OnJoinRoom("conn-b", "room-1", "Bob")

	assert.Empty(t, transport.sentTo("conn-c"), "peers in unrelated rooms must not be notified")
	for _, m := range transport.sentTo("conn-b") {
		assert.NotEqual(t, "conn-c", m.payload.(UserConnectedData).UserID)
	}
}

func TestLeaveBroadcastsUserDisconnected(t *testing.T) {
	lc, registry, transport := newLifecycleUnderTest()
	lc.OnJoinRoom("conn-a", "room-1", "Alice")
	lc.OnJoinRoom("conn-b", "room-1", "Bob")

	lc.OnLeaveOrDisconnect("conn-a")

	require.Len(t, transport.broadcasts, 1)
	b := transport.broadcasts[0]
	assert.Equal(t, "room-1", b.roomID)
	assert.Equal(t, "conn-a", b.excludeID)
	assert.Equal(t, EventUserDisconnected, b.event)
	assert.Equal(t, UserDisconnectedData{UserID: "conn-a"}, b.payload)

	var remaining []string
	for id := range registry.MembersOf("room-1") {
		remaining = append(remaining, id)
	}
	assert.Equal(t, []string{"conn-b"}, remaining)
}

func TestDoubleDisconnectIsNoOp(t *testing.T) {
	lc, registry, transport := newLifecycleUnderTest()
	lc.OnJoinRoom("conn-a", "room-1", "Alice")

	lc.OnLeaveOrDisconnect("conn-a")
	broadcasts := len(transport.broadcasts)
	statsAfter := registry.Stats()

	lc.OnLeaveOrDisconnect("conn-a")

	assert.Len(t, transport.broadcasts, broadcasts, "second disconnect must not notify anyone")
	assert.Equal(t, statsAfter, registry.Stats())
}

func TestLastLeaveTearsDownRoom(t *testing.T) {
	lc, registry, _ := newLifecycleUnderTest()
	lc.OnJoinRoom("conn-a", "room-2", "Alice")

	lc.OnLeaveOrDisconnect("conn-a")

	assert.Equal(t, Stats{}, registry.Stats())
}

func TestRejoinKeepsPriorRoomEntry(t *testing.T) {
	lc, registry, _ := newLifecycleUnderTest()
	lc.OnJoinRoom("conn-a", "room-1", "Alice")

	lc.OnJoinRoom("conn-a", "room-2", "Alice")

	peer, ok := registry.GetPeer("conn-a")
	require.True(t, ok)
	assert.Equal(t, "room-2", peer.RoomID)

	var room1 []string
	for id := range registry.MembersOf("room-1") {
		room1 = append(room1, id)
	}
	assert.Contains(t, room1, "conn-a")
}
