// Package container holds the components built once at startup. main owns
// the connections and hands them to New; routes get everything from here.
package container

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/business-card-api/config"
	userapp "github.com/oksasatya/business-card-api/internal/application"
	"github.com/oksasatya/business-card-api/internal/domain/repository"
	"github.com/oksasatya/business-card-api/internal/infrastructure/memory"
	"github.com/oksasatya/business-card-api/internal/infrastructure/mongodb"
	"github.com/oksasatya/business-card-api/internal/infrastructure/redisstore"
	"github.com/oksasatya/business-card-api/internal/infrastructure/search"
	"github.com/oksasatya/business-card-api/pkg/helpers"
)

// Infra is the set of external connections. Any of them may be nil when the
// matching feature is not configured or the connection failed at boot.
type Infra struct {
	Mongo  *mongodb.Database
	Redis  *redis.Client
	Events *helpers.RabbitPublisher
	ES     *elasticsearch.Client
}

type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Infra

	JWT      *helpers.JWTManager
	Users    repository.UserRepository
	Sessions *redisstore.SessionStore
	Index    *search.UserIndex
	Service  *userapp.Service
}

func New(cfg *config.Config, logger *logrus.Logger, infra Infra) *Container {
	c := &Container{
		Config: cfg,
		Logger: logger,
		Infra:  infra,
		JWT:    helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL),
	}

	if cfg.DBTarget == config.TargetMemory {
		c.Users = memory.NewUserRepository()
	} else {
		c.Users = mongodb.NewUserRepository(infra.Mongo, cfg.DBOpTimeout)
	}
	c.Sessions = redisstore.NewSessionStore(infra.Redis, cfg.AccessTTL)
	c.Index = search.NewUserIndex(infra.ES, cfg.ESUsersIndex)

	// Unset collaborators are passed as untyped nil so the service skips them.
	var (
		sessions userapp.SessionStore
		events   userapp.EventPublisher
		index    userapp.UserIndexer
	)
	if c.Sessions != nil {
		sessions = c.Sessions
	}
	if infra.Events != nil {
		events = infra.Events
	}
	if c.Index != nil {
		index = c.Index
	}
	c.Service = userapp.NewService(c.Users, c.JWT, sessions, events, index, logger)
	return c
}

// PingDB reports store reachability for health checks. The memory store is
// always up.
func (c *Container) PingDB(ctx context.Context) error {
	if c.Config.DBTarget == config.TargetMemory {
		return nil
	}
	return c.Mongo.Ping(ctx)
}

// Close releases the connections owned by the container.
func (c *Container) Close(ctx context.Context) {
	if err := c.Mongo.Close(ctx); err != nil {
		helpers.LogError(c.Logger, "mongodb disconnect failed", err, nil)
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	c.Events.Close()
}
