package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-platform/internal/config"
	"github.com/iliyamo/blog-platform/internal/database"
	"github.com/iliyamo/blog-platform/internal/handler"
	"github.com/iliyamo/blog-platform/internal/queue"
	"github.com/iliyamo/blog-platform/internal/repository"
	"github.com/iliyamo/blog-platform/internal/router"
)

func main() {
	_ = godotenv.Load() // populate env from .env when present
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; caching and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	posts := repository.NewPostRepo(db)

	e := echo.New()
	router.Register(e, cfg, rdb,
		handler.NewAuthHandler(cfg, users),
		handler.NewPostHandler(cfg, posts),
		handler.NewProfileHandler(cfg, users),
	)

	// Background consumer mirrors published posts into logs/posts.log.
	go func() {
		if err := queue.StartPostConsumer(); err != nil {
			log.Printf("post consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
