package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"twitter-clone/cache"
	"twitter-clone/config"
	"twitter-clone/config/db"
	"twitter-clone/controller"
	"twitter-clone/middleware"
	"twitter-clone/repository"
	"twitter-clone/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo failed")
	}
	defer database.Client().Disconnect(ctx)

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes failed")
	}

	var suggestionCache *cache.SuggestionCache
	if cfg.Redis.Addr != "" {
		redisClient := redisv9.NewClient(&redisv9.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("ping redis failed")
		}
		defer redisClient.Close()
		suggestionCache = cache.NewSuggestionCache(
			redisClient,
			time.Duration(cfg.Redis.SuggestionTTLSeconds)*time.Second,
		)
	}

	users := repository.NewUserRepository(db.Users(database))
	tweets := repository.NewTweetRepository(db.Tweets(database))
	expander := repository.NewExpander(users, tweets)

	auth := middleware.NewAuth(users, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute)
	upload := middleware.NewUpload(cfg.Upload.Dir, cfg.Upload.MaxSizeMB)

	r := router.New(router.Deps{
		Auth:             auth,
		Upload:           upload,
		AuthController:   controller.NewAuthController(users, auth),
		TweetController:  controller.NewTweetController(tweets, expander),
		UserController:   controller.NewUserController(users, suggestionCache),
		SearchController: controller.NewSearchController(users, tweets, expander),
		UploadDir:        cfg.Upload.Dir,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	waitForShutdown(server)
}

func waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
