package scraper

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"gamewatch/internal/store"
	"gamewatch/pkg/models"
)

// Runner drives the whole job: the title list is split into contiguous
// batches, games within a batch run concurrently through a bounded pool,
// and batches run strictly one after another with a cooldown in between so
// the remote hosts never see more than Concurrency outstanding games at a
// time.
type Runner struct {
	Agg         *Aggregator
	Store       store.Store
	BatchSize   int
	Concurrency int
	Cooldown    time.Duration
}

// Run processes every title and returns once all batches have settled.
// Individual game failures are logged and skipped; they never abort a
// batch or the run.
func (r *Runner) Run(ctx context.Context, titles []string) {
	start := time.Now()
	batches := chunk(titles, r.BatchSize)
	log.Printf("[scraper] processing %d games in %d batches of up to %d", len(titles), len(batches), r.BatchSize)

	for i, batch := range batches {
		log.Printf("[scraper] batch %d/%d (%d games)", i+1, len(batches), len(batch))
		batchStart := time.Now()

		var g errgroup.Group
		g.SetLimit(r.Concurrency)
		for _, title := range batch {
			g.Go(func() error {
				if err := r.processGame(ctx, title); err != nil {
					log.Printf("[scraper] error processing %q: %v", title, err)
				}
				return nil
			})
		}
		_ = g.Wait()

		log.Printf("[scraper] batch %d/%d done in %.2fs", i+1, len(batches), time.Since(batchStart).Seconds())

		// breathe between batches to avoid rate limits
		if i < len(batches)-1 {
			time.Sleep(r.Cooldown)
		}
	}

	log.Printf("[scraper] total elapsed: %.2fs", time.Since(start).Seconds())
}

// processGame is the per-game pipeline: read the stored record, observe all
// sources, merge, write back. The read-merge-write sequence is not guarded
// against a concurrent external writer on the same key.
func (r *Runner) processGame(ctx context.Context, title string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	key := models.Slug(title)

	prior, err := r.Store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}

	obs := r.Agg.Observe(ctx, title)
	rec, op := MergeRecord(obs, prior)

	switch op {
	case OpCreate:
		if err := r.Store.Set(ctx, key, rec); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		log.Printf("[scraper] -> %q added (no sale flag yet)", title)
	default:
		if err := r.Store.Update(ctx, key, rec); err != nil {
			return fmt.Errorf("update %s: %w", key, err)
		}
		log.Printf("[scraper] - %q updated", title)
	}
	return nil
}

// chunk splits titles into contiguous batches of at most size; the last
// batch may be shorter.
func chunk(titles []string, size int) [][]string {
	if size <= 0 {
		size = len(titles)
	}
	var out [][]string
	for i := 0; i < len(titles); i += size {
		end := i + size
		if end > len(titles) {
			end = len(titles)
		}
		out = append(out, titles[i:end])
	}
	return out
}
