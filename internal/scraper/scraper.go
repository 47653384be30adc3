package scraper

import (
	"context"
	"net/http"

	"gamewatch/pkg/models"
)

// Source names, also the keys of Observation.Prices and of the stored
// record's price map.
const (
	SourceSteam       = "steam"
	SourceAmazon      = "amazon"
	SourcePlaystation = "playstation"
	SourceHLTB        = "hltb"
)

// PriceSource is implemented by each external storefront. Each source is
// responsible for its own fetching and parsing and maps whatever it finds
// into a Price.
//
// A fetch that simply finds no price is not an error: the source returns an
// unknown Price and a nil error. The returned error is the inspectable
// failure reason (timeout, bad status, unparsable page); callers absorb it
// into the unknown sentinel rather than letting it travel upward.
type PriceSource interface {
	Name() string
	FetchPrice(ctx context.Context, title string) (models.Price, error)
}

// PlaytimeSource estimates how long a game takes to beat.
type PlaytimeSource interface {
	Name() string
	FetchPlaytime(ctx context.Context, title string) (models.Playtime, error)
}

// DefaultPriceSources builds the three storefront adapters over the shared
// client, in the order their results are compared for the sale flag.
func DefaultPriceSources(client *http.Client) []PriceSource {
	return []PriceSource{
		NewSteamSource(client),
		NewAmazonSource(client),
		NewPlaystationSource(client),
	}
}
