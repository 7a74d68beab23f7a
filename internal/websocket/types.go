package websocket

// DashboardRoom is the room every connected dashboard browser joins.
// Realtime events fan out to it; per-session rooms are created on demand.
const DashboardRoom = "dashboard"

// Event types carried in WSMessage content.
const (
	EventNewPrechatSubmission = "NEW_PRECHAT_SUBMISSION"
	EventNewChatMessage       = "NEW_CHAT_MESSAGE"
)

type Room struct {
	Id      string               `json:"id"`
	Clients map[string]*WSClient `json:"clients"`
}

type WSMessage struct {
	Content   string `json:"content"`
	RoomID    string `json:"roomId"`
	Timestamp int64  `json:"timestamp"`
}

// Event is the JSON envelope published to a room. Payload shape depends
// on Type.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type RoomRes struct {
	ID string `json:"id"`
}
