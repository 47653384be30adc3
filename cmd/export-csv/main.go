package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gamewatch/internal/store"
	"gamewatch/pkg/database"
	"gamewatch/pkg/models"
)

// Dumps the stored game records to a flat CSV, one row per game.
func main() {
	var out = flag.String("out", "data/games.csv", "output CSV path")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportGames(ctx, store.NewSQLite(db), *out); err != nil {
		log.Fatalf("export games failed: %v", err)
	}

	log.Printf("exported games to %s", *out)
}

func exportGames(ctx context.Context, s *store.SQLite, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "title", "steam", "amazon", "playstation", "how_long_to_beat", "on_sale"}); err != nil {
		return err
	}

	entries, err := s.List(ctx)
	if err != nil {
		return err
	}

	for _, e := range entries {
		rec := e.Record

		onSale := ""
		if rec.OnSale != nil {
			if *rec.OnSale {
				onSale = "true"
			} else {
				onSale = "false"
			}
		}

		if err := w.Write([]string{
			e.ID,
			rec.Title,
			priceCell(rec.Prices["steam"].Precio),
			priceCell(rec.Prices["amazon"].Precio),
			priceCell(rec.Prices["playstation"].Precio),
			playtimeCell(rec.Playtime),
			onSale,
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func priceCell(p models.Price) string {
	switch p.State {
	case models.PriceAmount:
		return strconv.FormatFloat(p.Amount, 'f', -1, 64)
	case models.PriceFree:
		return "Free"
	default:
		return ""
	}
}

func playtimeCell(p models.Playtime) string {
	if !p.Known {
		return ""
	}
	return strconv.FormatFloat(p.Hours, 'f', -1, 64)
}
