package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/business-card-api/config"
	"github.com/oksasatya/business-card-api/internal/domain/entity"
	"github.com/oksasatya/business-card-api/internal/infrastructure/mongodb"
	"github.com/oksasatya/business-card-api/pkg/apperror"
	"github.com/oksasatya/business-card-api/pkg/helpers"
)

// seed creates an admin account, or promotes the existing account with the
// same email. Credentials come from SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.DBTarget == config.TargetMemory {
		log.Fatal("seed needs a real database; DB_TARGET=memory")
	}

	email := strings.ToLower(strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uri, err := cfg.MongoURI()
	if err != nil {
		log.Fatalf("database config: %v", err)
	}
	db, err := mongodb.Connect(ctx, mongodb.Options{Target: cfg.DBTarget, URI: uri, Database: cfg.DBName, ConnectTimeout: cfg.DBOpTimeout})
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer func() { _ = db.Close(context.Background()) }()
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db, cfg.DBOpTimeout)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if _, err := users.SetAdmin(ctx, existing.ID, true); err != nil {
			log.Fatalf("failed to promote user: %v", err)
		}
		log.Printf("promoted existing user to admin: id=%s email=%s", existing.ID, existing.Email)
		return
	case apperror.KindOf(err) != apperror.KindNotFound:
		log.Fatalf("lookup failed: %v", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	admin := entity.Normalize(entity.User{
		Name:     entity.Name{First: "Site", Last: "Admin"},
		Phone:    "0500000000",
		Email:    email,
		Password: hash,
		Address:  entity.Address{Country: "Israel", City: "Tel Aviv", Street: "Main", HouseNumber: 1},
		IsAdmin:  true,
	})
	if err := users.Create(ctx, &admin); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	log.Printf("seeded admin: id=%s email=%s", admin.ID, admin.Email)
}
