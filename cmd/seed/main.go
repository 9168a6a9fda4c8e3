// Command seed loads catalog content from a YAML file into an empty catalog
// and can mint a development bearer token. Loading is single-shot: a failed
// run leaves a partial catalog, so recreate the database before retrying.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lessonforge/lessonforge/internal/auth"
	"github.com/lessonforge/lessonforge/internal/config"
	"github.com/lessonforge/lessonforge/internal/db"
	"github.com/lessonforge/lessonforge/internal/logger"
	"github.com/lessonforge/lessonforge/internal/models"
	"github.com/lessonforge/lessonforge/internal/repository/sqlite"
	"github.com/lessonforge/lessonforge/internal/seed"
)

func main() {
	file := flag.String("file", "", "YAML content file to load")
	token := flag.String("token", "", "mint a development token for this user id (\"new\" for a random one)")
	name := flag.String("name", "dev", "display name carried in the minted token")
	ttl := flag.Duration("ttl", 24*time.Hour, "lifetime of the minted token")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)), logger.WithColors(true))
	logger.SetDefault(log)

	if *file == "" && *token == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *file != "" {
		if err := load(cfg, *file); err != nil {
			log.Error("seed failed: %v", err)
			os.Exit(1)
		}
	}

	if *token != "" {
		if len(cfg.JWTSecret) < 16 {
			log.Error("JWT_SECRET must be set to mint tokens")
			os.Exit(1)
		}
		id := uuid.New()
		if *token != "new" {
			parsed, err := uuid.Parse(*token)
			if err != nil {
				log.Error("invalid user id %q: %v", *token, err)
				os.Exit(1)
			}
			id = parsed
		}
		signed, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer).
			Issue(auth.Identity{UserID: id, Name: *name, Role: models.RoleUser}, *ttl, time.Now())
		if err != nil {
			log.Error("failed to sign token: %v", err)
			os.Exit(1)
		}
		log.Info("minted token for user %s", id)
		fmt.Println(signed)
	}
}

func load(cfg config.Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	content, err := seed.Parse(f)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	sum, err := seed.Apply(context.Background(), seed.Stores{
		Content: sqlite.NewContentRepository(database.DB),
		Badges:  sqlite.NewBadgeRepository(database.DB),
	}, content)
	if err != nil {
		return err
	}
	logger.Info("seeded %d badges, %d modules, %d lessons, %d questions",
		sum.Badges, sum.Modules, sum.Lessons, sum.Questions)
	return nil
}
