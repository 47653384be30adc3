package scraper

import (
	"sort"

	"gamewatch/pkg/models"
)

// StoreOp tells the caller how the merged record should be written.
type StoreOp int

const (
	OpCreate StoreOp = iota // full write, first time this slug is seen
	OpUpdate                // top-level merge over the existing record
)

// MergeRecord reconciles a fresh observation with the previously stored
// record for the same slug.
//
// With no prior record the observation becomes the record as-is and the
// sale flag stays unset — there is nothing to compare against yet.
//
// With a prior record, prices and playtime are overwritten unconditionally
// (a null observation still replaces an old value), the stored title is
// kept, and en_oferta is set: true as soon as any source has a numeric
// price on both sides with the new one strictly lower, false otherwise.
// "Free" and unknown never trigger the flag.
func MergeRecord(obs models.Observation, prior *models.GameRecord) (models.GameRecord, StoreOp) {
	rec := models.GameRecord{
		Title:    obs.Title,
		Prices:   make(map[string]models.PriceEntry, len(obs.Prices)),
		Playtime: obs.Playtime,
	}
	for name, p := range obs.Prices {
		rec.Prices[name] = models.PriceEntry{Precio: p}
	}

	if prior == nil {
		return rec, OpCreate
	}

	// display name: first write wins
	if prior.Title != "" {
		rec.Title = prior.Title
	}

	onSale := false
	for _, name := range sortedSources(obs.Prices) {
		cur := obs.Prices[name]
		if cur.State != models.PriceAmount {
			continue
		}
		prev, ok := prior.Prices[name]
		if !ok || prev.Precio.State != models.PriceAmount {
			continue
		}
		if cur.Amount < prev.Precio.Amount {
			onSale = true
			break
		}
	}
	rec.OnSale = &onSale

	return rec, OpUpdate
}

func sortedSources(prices map[string]models.Price) []string {
	names := make([]string, 0, len(prices))
	for name := range prices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
