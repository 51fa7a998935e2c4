package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"discipline/internal/config"
	"discipline/internal/queue"
	"discipline/internal/store"
)

// Worker consumes complaint events and drops the cached dashboard summaries
// so admins see new complaints without waiting for the cache TTL.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, queue.DefaultKey)
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for complaint events...")
	for msg := range messages {
		if msg.Type != "complaint" {
			continue
		}

		id := string(msg.Body)
		if err := redisClient.InvalidateStats(ctx); err != nil {
			log.Printf("stats invalidate failed for %s: %v", id, err)
			continue
		}
		log.Printf("stats cache dropped after complaint %s", id)
	}

	log.Println("worker stopped")
}
