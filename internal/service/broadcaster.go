package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToAdmins(msgType string, payload interface{})
}

// Admin feed message types
const (
	MsgLeadCreated = "lead_created"
)
