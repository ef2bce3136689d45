package main

import (
	"academyhub/internal/config"
	"academyhub/internal/logger"
	"academyhub/internal/repository"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	force := flag.Bool("force", false, "replace the current catalog with the defaults")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "error", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("failed to create indexes", "error", err)
	}

	questions := repository.NewQuestionRepo(db)
	rules := repository.NewRuleRepo(db)

	existing, err := questions.LoadQuestions(ctx)
	if err != nil {
		log.Fatal("failed to read questions", "error", err)
	}
	if len(existing) > 0 && !*force {
		log.Info("catalog already seeded, use -force to replace it with the defaults", "questions", len(existing))
		return
	}

	removed, err := seedCatalog(ctx, questions, rules, *force)
	if err != nil {
		log.Fatal("failed to seed catalog", "removed", removed, "error", err)
	}
	if removed > 0 {
		log.Warn("existing catalog replaced", "removed", removed)
	}

	log.Info("catalog seeded", "questions", len(defaultQuestions()), "rules", len(defaultRules()), "db", cfg.MongoDB)
}
