package scraper

import (
	"testing"

	"gamewatch/pkg/models"
)

func obsWithPrices(title string, prices map[string]models.Price) models.Observation {
	return models.Observation{
		Title:    title,
		Prices:   prices,
		Playtime: models.Hours(10),
	}
}

func TestMergeRecord_noPriorRecord(t *testing.T) {
	obs := obsWithPrices("Hollow Knight", map[string]models.Price{
		SourceSteam:       models.Amount(14.99),
		SourceAmazon:      models.UnknownPrice(),
		SourcePlaystation: models.Amount(19.99),
	})

	rec, op := MergeRecord(obs, nil)

	if op != OpCreate {
		t.Fatalf("op = %v, want OpCreate", op)
	}
	if rec.OnSale != nil {
		t.Errorf("fresh record must not carry a sale flag")
	}
	if rec.Title != "Hollow Knight" {
		t.Errorf("Title = %q", rec.Title)
	}
	if len(rec.Prices) != 3 {
		t.Errorf("expected all three sources present, got %v", rec.Prices)
	}
	if rec.Prices[SourceAmazon].Precio.State != models.PriceUnknown {
		t.Errorf("failed source must be stored as unknown, got %+v", rec.Prices[SourceAmazon])
	}
}

func TestMergeRecord_saleDetection(t *testing.T) {
	cases := []struct {
		name     string
		prior    models.Price
		current  models.Price
		wantSale bool
	}{
		{"price dropped", models.Amount(60.00), models.Amount(45.00), true},
		{"price unchanged", models.Amount(45.00), models.Amount(45.00), false},
		{"price raised", models.Amount(45.00), models.Amount(60.00), false},
		{"null prior never triggers", models.UnknownPrice(), models.Amount(45.00), false},
		{"null current never triggers", models.Amount(60.00), models.UnknownPrice(), false},
		{"free is not a numeric drop", models.Amount(60.00), models.FreePrice(), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prior := &models.GameRecord{
				Title:  "Hollow Knight",
				Prices: map[string]models.PriceEntry{SourceSteam: {Precio: c.prior}},
			}
			obs := obsWithPrices("Hollow Knight", map[string]models.Price{SourceSteam: c.current})

			rec, op := MergeRecord(obs, prior)

			if op != OpUpdate {
				t.Fatalf("op = %v, want OpUpdate", op)
			}
			if rec.OnSale == nil {
				t.Fatalf("updated record must carry a sale flag")
			}
			if *rec.OnSale != c.wantSale {
				t.Errorf("OnSale = %v, want %v", *rec.OnSale, c.wantSale)
			}
		})
	}
}

func TestMergeRecord_anySourceTriggers(t *testing.T) {
	prior := &models.GameRecord{
		Title: "Hollow Knight",
		Prices: map[string]models.PriceEntry{
			SourceSteam:       {Precio: models.Amount(15)},
			SourceAmazon:      {Precio: models.Amount(20)},
			SourcePlaystation: {Precio: models.Amount(25)},
		},
	}
	obs := obsWithPrices("Hollow Knight", map[string]models.Price{
		SourceSteam:       models.Amount(15),
		SourceAmazon:      models.Amount(20),
		SourcePlaystation: models.Amount(12), // only this one dropped
	})

	rec, _ := MergeRecord(obs, prior)
	if rec.OnSale == nil || !*rec.OnSale {
		t.Errorf("a drop on any single source should set the flag")
	}
}

func TestMergeRecord_repeatIdenticalIsNotASale(t *testing.T) {
	obs := obsWithPrices("Celeste", map[string]models.Price{
		SourceSteam:  models.Amount(19.99),
		SourceAmazon: models.Amount(24.99),
	})

	first, op := MergeRecord(obs, nil)
	if op != OpCreate {
		t.Fatalf("first merge op = %v, want OpCreate", op)
	}

	second, op := MergeRecord(obs, &first)
	if op != OpUpdate {
		t.Fatalf("second merge op = %v, want OpUpdate", op)
	}
	if second.OnSale == nil || *second.OnSale {
		t.Errorf("identical repeat observation must yield OnSale = false")
	}
}

func TestMergeRecord_overwritesValuesAndKeepsTitle(t *testing.T) {
	prior := &models.GameRecord{
		Title: "Hollow Knight", // display name from the first run
		Prices: map[string]models.PriceEntry{
			SourceSteam: {Precio: models.Amount(14.99)},
		},
		Playtime: models.Hours(27),
	}
	obs := models.Observation{
		Title: "hollow knight", // later runs may spell it differently
		Prices: map[string]models.Price{
			SourceSteam: models.UnknownPrice(), // source failed this run
		},
		Playtime: models.UnknownPlaytime(),
	}

	rec, _ := MergeRecord(obs, prior)

	if rec.Title != "Hollow Knight" {
		t.Errorf("Title = %q, first write should win", rec.Title)
	}
	if rec.Prices[SourceSteam].Precio.State != models.PriceUnknown {
		t.Errorf("new null must overwrite the old price, got %+v", rec.Prices[SourceSteam])
	}
	if rec.Playtime.Known {
		t.Errorf("new unknown playtime must overwrite the old value")
	}
}
