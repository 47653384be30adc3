package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"gamewatch/internal/scraper"
	"gamewatch/internal/store"
	"gamewatch/pkg/database"
	"gamewatch/pkg/httpclient"
	"gamewatch/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := utils.LoadScraperConfig()

	titles, err := readGameList(cfg.ListPath)
	if err != nil {
		log.Fatalf("read game list: %v", err)
	}
	if len(titles) == 0 {
		log.Fatalf("game list %s is empty", cfg.ListPath)
	}

	client := httpclient.New(cfg.RequestTimeout)

	var st store.Store
	if cfg.FirebaseURL != "" {
		st = store.NewFirebase(client, cfg.FirebaseURL, cfg.FirebaseAuth)
		log.Printf("[scraper] using Firebase store at %s", cfg.FirebaseURL)
	} else {
		db := database.MustOpen(database.DefaultConfig())
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		st = store.NewSQLite(db)
		log.Printf("[scraper] no Firebase URL set, using local sqlite store")
	}

	runner := &scraper.Runner{
		Agg: scraper.NewAggregator(
			scraper.DefaultPriceSources(client),
			scraper.NewHLTBSource(client),
		),
		Store:       st,
		BatchSize:   cfg.BatchSize,
		Concurrency: cfg.Concurrency,
		Cooldown:    cfg.Cooldown,
	}

	log.Printf("[scraper] run %s: %d games", uuid.NewString(), len(titles))
	runner.Run(context.Background(), titles)
}

// readGameList reads one title per line; blank lines are skipped, order is
// preserved.
func readGameList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var titles []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		titles = append(titles, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return titles, nil
}
