package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"gamewatch/pkg/models"
)

// SteamSource reads prices from Steam's storefront API: a name search first,
// then the details endpoint for the first hit.
type SteamSource struct {
	Client  *http.Client
	BaseURL string
}

func NewSteamSource(client *http.Client) *SteamSource {
	return &SteamSource{
		Client:  client,
		BaseURL: "https://store.steampowered.com",
	}
}

func (s *SteamSource) Name() string { return SourceSteam }

type steamSearchResponse struct {
	Total int `json:"total"`
	Items []struct {
		ID int64 `json:"id"`
	} `json:"items"`
}

type steamAppDetails struct {
	Success bool `json:"success"`
	Data    struct {
		IsFree        bool `json:"is_free"`
		PriceOverview *struct {
			FinalFormatted string `json:"final_formatted"`
		} `json:"price_overview"`
	} `json:"data"`
}

func (s *SteamSource) FetchPrice(ctx context.Context, title string) (models.Price, error) {
	q := url.Values{}
	q.Set("term", title)
	q.Set("cc", "us")
	q.Set("l", "english")

	var search steamSearchResponse
	searchURL := s.BaseURL + "/api/storesearch/?" + q.Encode()
	if err := getJSON(ctx, s.Client, searchURL, &search); err != nil {
		return models.UnknownPrice(), fmt.Errorf("search: %w", err)
	}
	if search.Total == 0 || len(search.Items) == 0 {
		return models.UnknownPrice(), nil
	}
	appID := strconv.FormatInt(search.Items[0].ID, 10)

	q = url.Values{}
	q.Set("appids", appID)
	q.Set("cc", "us")
	q.Set("l", "english")

	var details map[string]steamAppDetails
	detailURL := s.BaseURL + "/api/appdetails?" + q.Encode()
	if err := getJSON(ctx, s.Client, detailURL, &details); err != nil {
		return models.UnknownPrice(), fmt.Errorf("appdetails %s: %w", appID, err)
	}

	entry, ok := details[appID]
	if !ok || !entry.Success {
		return models.UnknownPrice(), nil
	}
	if po := entry.Data.PriceOverview; po != nil {
		if v, ok := models.ParseAmount(po.FinalFormatted); ok {
			return models.Amount(v), nil
		}
		return models.UnknownPrice(), nil
	}
	if entry.Data.IsFree {
		return models.FreePrice(), nil
	}
	return models.UnknownPrice(), nil
}
