package scraper

import (
	"context"
	"net/http"
	"net/url"
	"regexp"

	"gamewatch/pkg/models"
)

// PlaystationSource scrapes the PlayStation Store search page. The page is
// rendered client-side, so there is no stable markup to select on; prices
// are pulled straight out of the raw body with a currency regex.
type PlaystationSource struct {
	Client  *http.Client
	BaseURL string
}

func NewPlaystationSource(client *http.Client) *PlaystationSource {
	return &PlaystationSource{
		Client:  client,
		BaseURL: "https://store.playstation.com",
	}
}

func (p *PlaystationSource) Name() string { return SourcePlaystation }

var psPriceRe = regexp.MustCompile(`\$\s*\d+(?:\.\d{2})`)

func (p *PlaystationSource) FetchPrice(ctx context.Context, title string) (models.Price, error) {
	searchURL := p.BaseURL + "/en-us/search/" + url.PathEscape(title)
	body, err := getBody(ctx, p.Client, searchURL)
	if err != nil {
		return models.UnknownPrice(), err
	}

	m := psPriceRe.FindString(body)
	if m == "" {
		return models.UnknownPrice(), nil
	}
	if v, ok := models.ParseAmount(m); ok {
		return models.Amount(v), nil
	}
	return models.UnknownPrice(), nil
}
