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
	env.Validate(env.ChatRedisURL)

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
	handler := websocket.NewHandler(websocket.NewHub(), redisClient)

	server := api.NewAPIServer(
		":82",
		queueManager,
		db,
		handler,
		router.UtilsRoutes("/api/public/v1"),
		router.PrechatPublicRoutes("/api/public/v1"),
		router.OfficeHoursPublicRoutes("/api/public/v1"),
	)

	server.Run()
}
