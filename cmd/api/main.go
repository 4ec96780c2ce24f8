package main

import (
	"flag"
	"log"

	"github.com/authcore-io/authcore/internal/api"
	"github.com/authcore-io/authcore/internal/auth"
	"github.com/authcore-io/authcore/internal/config"
	"github.com/authcore-io/authcore/internal/database"
	"github.com/authcore-io/authcore/internal/store"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting authcore API v%s with config: %s", version, *configPath)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	users, tokens, err := buildStores(cfg)
	if err != nil {
		log.Fatal(err)
	}

	svc := auth.NewService(
		users,
		tokens,
		auth.NewHasher(cfg.Auth.BcryptCost),
		auth.RandomTokenGenerator{},
		auth.Config{TokenTTL: cfg.TokenTTL()},
	)

	if err := api.NewApi(*cfg, svc).Serve(); err != nil {
		log.Fatal(err)
	}
}

func buildStores(cfg *config.Config) (auth.UserStore, auth.TokenStore, error) {
	if cfg.Database.Type == "memory" {
		log.Println("Using in-memory stores; data will not survive a restart")
		return store.NewMemoryUsers(), store.NewMemoryTokens(), nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	dialect := store.DialectSQLite
	if cfg.Database.Type == "postgres" {
		dialect = store.DialectPostgres
	}
	return store.NewUsers(db, dialect), store.NewTokens(db, dialect), nil
}
