package main

import (
	"log"

	"chat-dashboard-backend/internal/api"
	"chat-dashboard-backend/internal/api/router"
	"chat-dashboard-backend/internal/database"
	"chat-dashboard-backend/internal/env"
	"chat-dashboard-backend/internal/queue"
	"chat-dashboard-backend/internal/websocket"

	"github.com/go-redis/redis/v8"
)

func main() {
	env.Validate(env.UserSecretKey, env.ChatRedisURL)

	queueManager := queue.NewRequestQueueManager(10, 10)
	db, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("db init failed: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     env.Get(env.ChatRedisURL),
		Password: env.Get(env.ChatRedisPass),
		DB:       0,
	})

	hub := websocket.NewHub()
	go hub.Run()
	handler := websocket.NewHandler(hub, redisClient)

	// The dashboard room exists for the life of the process so events
	// published before the first client connects are not lost.
	handler.CreateRoom(websocket.DashboardRoom)

	server := api.NewAPIServer(
		":83",
		queueManager,
		db,
		handler,
		router.UtilsRoutes("/api/ws/v1"),
		router.DashboardWebsocketRoutes("/api/ws/v1"),
	)

	server.Run()
}
