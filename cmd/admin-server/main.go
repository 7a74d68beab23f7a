package main

import (
	"log"

	"chat-dashboard-backend/internal/api"
	"chat-dashboard-backend/internal/api/middleware"
	"chat-dashboard-backend/internal/api/router"
	"chat-dashboard-backend/internal/database"
	"chat-dashboard-backend/internal/env"
	"chat-dashboard-backend/internal/queue"
	"chat-dashboard-backend/internal/websocket"

	"github.com/go-redis/redis/v8"
)

func main() {
	env.Validate(env.AdminAPIKeyHash, env.UserSecretKey, env.ChatRedisURL)

	queueManager := queue.NewRequestQueueManager(10, 10)
	db, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("db init failed: %v", err)
	}

	// The admin server only publishes events; it never accepts websocket
	// clients, so no hub goroutine is started.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     env.Get(env.ChatRedisURL),
		Password: env.Get(env.ChatRedisPass),
		DB:       0,
	})
	handler := websocket.NewHandler(websocket.NewHub(), redisClient)

	auth := middleware.ValidateAPIKeyMiddleware(env.Get(env.AdminAPIKeyHash))

	server := api.NewAPIServer(
		":81",
		queueManager,
		db,
		handler,
		router.UtilsRoutes("/api/admin/v1"),
		router.TokenRoutes("/api/admin/v1", auth),
		router.PrechatAdminRoutes("/api/admin/v1", auth),
		router.DashboardRoutes("/api/admin/v1", auth),
		router.OfficeHoursAdminRoutes("/api/admin/v1", auth),
	)

	server.Run()
}
