package scraper

import (
	"context"
	"net/http"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"gamewatch/pkg/models"
)

// AmazonSource scrapes a search-results page. Amazon's markup shifts a lot,
// so extraction is an ordered chain of strategies: the standard price
// selector, a more generic one, then a raw currency regex over the whole
// page. First hit wins.
type AmazonSource struct {
	Client  *http.Client
	BaseURL string
}

func NewAmazonSource(client *http.Client) *AmazonSource {
	return &AmazonSource{
		Client:  client,
		BaseURL: "https://www.amazon.com",
	}
}

func (a *AmazonSource) Name() string { return SourceAmazon }

// matches "$59.99", "$1,299.99"
var amazonPriceRe = regexp.MustCompile(`\$\s*\d{1,3}(?:,\d{3})*(?:\.\d{2})`)

var amazonStrategies = []func(*goquery.Document) (float64, bool){
	amazonStandardSelector,
	amazonOffscreenSelector,
	amazonTextScan,
}

func (a *AmazonSource) FetchPrice(ctx context.Context, title string) (models.Price, error) {
	// search works better when narrowed to the category
	searchURL := a.BaseURL + "/s?k=" + url.QueryEscape(title+" video game")
	doc, err := getDocument(ctx, a.Client, searchURL)
	if err != nil {
		return models.UnknownPrice(), err
	}

	for _, extract := range amazonStrategies {
		if v, ok := extract(doc); ok {
			return models.Amount(v), nil
		}
	}
	return models.UnknownPrice(), nil
}

func amazonStandardSelector(doc *goquery.Document) (float64, bool) {
	return amountFromSelection(doc.Find("span.a-price > span.a-offscreen").First())
}

func amazonOffscreenSelector(doc *goquery.Document) (float64, bool) {
	return amountFromSelection(doc.Find("span.a-offscreen").First())
}

func amazonTextScan(doc *goquery.Document) (float64, bool) {
	m := amazonPriceRe.FindString(doc.Text())
	if m == "" {
		return 0, false
	}
	return models.ParseAmount(m)
}

func amountFromSelection(sel *goquery.Selection) (float64, bool) {
	if sel.Length() == 0 {
		return 0, false
	}
	return models.ParseAmount(sel.Text())
}
