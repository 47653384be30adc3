package scraper

import (
	"context"
	"log"
	"sync"

	"gamewatch/pkg/models"
)

// Aggregator coordinates all sources for a single game. Every source runs
// on its own goroutine and every source settles before the observation is
// returned; a failing or even panicking source only costs its own entry.
type Aggregator struct {
	Prices   []PriceSource
	Playtime PlaytimeSource
}

func NewAggregator(prices []PriceSource, playtime PlaytimeSource) *Aggregator {
	return &Aggregator{Prices: prices, Playtime: playtime}
}

// Observe fetches all sources for title concurrently and assembles the
// observation. The result always carries one entry per configured price
// source: unknown is an explicit value, never a missing key.
func (a *Aggregator) Observe(ctx context.Context, title string) models.Observation {
	obs := models.Observation{
		Title:    title,
		Prices:   make(map[string]models.Price, len(a.Prices)),
		Playtime: models.UnknownPlaytime(),
	}
	for _, src := range a.Prices {
		obs.Prices[src.Name()] = models.UnknownPrice()
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, src := range a.Prices {
		wg.Add(1)
		go func(src PriceSource) {
			defer wg.Done()
			price := safeFetchPrice(ctx, src, title)
			mu.Lock()
			obs.Prices[src.Name()] = price
			mu.Unlock()
		}(src)
	}
	if a.Playtime != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pt := safeFetchPlaytime(ctx, a.Playtime, title)
			mu.Lock()
			obs.Playtime = pt
			mu.Unlock()
		}()
	}
	wg.Wait()

	return obs
}

// safeFetchPrice absorbs both returned errors and panics: one flaky source
// must not poison the game's record.
func safeFetchPrice(ctx context.Context, src PriceSource, title string) (price models.Price) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[scraper] %s: panic fetching %q: %v", src.Name(), title, r)
			price = models.UnknownPrice()
		}
	}()

	p, err := src.FetchPrice(ctx, title)
	if err != nil {
		log.Printf("[scraper] %s: %q: %v", src.Name(), title, err)
		return models.UnknownPrice()
	}
	return p
}

func safeFetchPlaytime(ctx context.Context, src PlaytimeSource, title string) (pt models.Playtime) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[scraper] %s: panic fetching %q: %v", src.Name(), title, r)
			pt = models.UnknownPlaytime()
		}
	}()

	p, err := src.FetchPlaytime(ctx, title)
	if err != nil {
		log.Printf("[scraper] %s: %q: %v", src.Name(), title, err)
		return models.UnknownPlaytime()
	}
	return p
}
