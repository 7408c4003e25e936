package signaling

// Transport is the send capability the core uses. The core never does
// network I/O itself; it only decides who receives what. Sends are
// fire-and-forget: delivery to a gone or saturated connection is
// dropped by the implementation, not surfaced as an error.
type Transport interface {
	// SendTo unicasts an event to one connection id.
	SendTo(connID, event string, payload any)

	// BroadcastToRoom sends an event to every member of the room,
	// skipping excludeID. An empty excludeID skips nobody.
	BroadcastToRoom(roomID, excludeID, event string, payload any)
}
