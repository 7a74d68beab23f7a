package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
)

// Handler owns the hub and the Redis connection used for cross-server
// fan-out. Both are injected; this package holds no process-wide state.
type Handler struct {
	hub         *Hub
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewHandler(h *Hub, redisClient *redis.Client) *Handler {
	return &Handler{
		hub:         h,
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *Handler) subscribeToRoomChannel(roomID string) {
	if _, exists := h.hub.Rooms[roomID]; !exists {
		log.Printf("Room %s not found for subscription", roomID)
		return
	}

	subscriber := h.redisClient.Subscribe(context.Background(), roomID)
	defer subscriber.Close()

	ch := subscriber.Channel()
	for msg := range ch {
		h.hub.Broadcast <- &WSMessage{
			Content:   msg.Payload,
			RoomID:    roomID,
			Timestamp: time.Now().Unix(),
		}
	}
	log.Printf("Unsubscribed from Redis channel: %s", roomID)
}

func (h *Handler) CreateRoom(id string) {
	if _, exists := h.hub.Rooms[id]; exists {
		return
	}

	room := &Room{
		Id:      id,
		Clients: make(map[string]*WSClient),
	}

	h.hub.Rooms[id] = room
	setRooms(len(h.hub.Rooms))

	// One Redis subscription per room, started once.
	go h.subscribeToRoomChannel(id)
}

func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request, roomId, userId string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if conn == nil {
		http.Error(w, "Error conn", http.StatusBadRequest)
		return
	}

	cl := &WSClient{
		Conn:     conn,
		Message:  make(chan *WSMessage, 10),
		ID:       userId,
		RoomID:   roomId,
		done:     make(chan struct{}),
		isClosed: false,
	}

	h.hub.Register <- cl

	go cl.keepAlive()
	go cl.writeMessage()
	go cl.readMessage(h.hub)
}

func (h *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	rooms := make([]RoomRes, 0)

	for _, room := range h.hub.Rooms {
		rooms = append(rooms, RoomRes{
			ID: room.Id,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(rooms)
}
