package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/business-card-api/config"
	"github.com/oksasatya/business-card-api/internal/container"
	"github.com/oksasatya/business-card-api/internal/infrastructure/mongodb"
	"github.com/oksasatya/business-card-api/internal/router"
	"github.com/oksasatya/business-card-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// A failed connection is logged and the server still starts; store
	// calls then answer 500 "database unavailable".
	var db *mongodb.Database
	if cfg.DBTarget != config.TargetMemory {
		db = connectMongo(ctx, cfg, logger)
	} else {
		logger.Warn("DB_TARGET=memory: users are kept in process memory only")
	}

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			helpers.LogError(logger, "redis ping failed; logins and token checks fail until it recovers, rate limits fail open", err, logrus.Fields{"addr": cfg.RedisAddr})
		}
	}

	var pub *helpers.RabbitPublisher
	if cfg.RabbitMQURL != "" {
		p, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
		if err != nil {
			helpers.LogError(logger, "rabbitmq unavailable; user events disabled", err, nil)
		} else {
			pub = p
		}
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		helpers.LogError(logger, "elasticsearch unavailable; user search disabled", err, nil)
		es = nil
	}

	ctr := container.New(cfg, logger, container.Infra{Mongo: db, Redis: rdb, Events: pub, ES: es})
	r := router.NewEngine(ctr)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	ctr.Close(ctxShutdown)
	logger.Info("server exited properly")
}

func connectMongo(ctx context.Context, cfg *config.Config, logger *logrus.Logger) *mongodb.Database {
	uri, err := cfg.MongoURI()
	if err != nil {
		helpers.LogError(logger, "invalid database configuration", err, logrus.Fields{"target": cfg.DBTarget})
		return nil
	}
	db, err := mongodb.Connect(ctx, mongodb.Options{
		Target:         cfg.DBTarget,
		URI:            uri,
		Database:       cfg.DBName,
		ConnectTimeout: cfg.DBOpTimeout,
	})
	if err != nil {
		helpers.LogError(logger, "could not connect to mongodb", err, logrus.Fields{"target": cfg.DBTarget})
		return nil
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		helpers.LogError(logger, "ensure indexes failed", err, nil)
	}
	helpers.LogInfo(logger, "connected to mongodb", logrus.Fields{"target": cfg.DBTarget, "database": cfg.DBName})
	return db
}
