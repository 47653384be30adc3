package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamewatch/pkg/models"
)

func newAmazonTestSource(html string, status int) (*AmazonSource, *httptest.Server) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Write([]byte(html))
	}))
	return &AmazonSource{Client: srv.Client(), BaseURL: srv.URL}, srv
}

func TestAmazonSource_standardSelector(t *testing.T) {
	html := `<html><body>
		<span class="a-price"><span class="a-offscreen">$39.99</span></span>
		<span class="a-offscreen">$99.99</span>
	</body></html>`
	src, srv := newAmazonTestSource(html, http.StatusOK)
	defer srv.Close()

	price, err := src.FetchPrice(context.Background(), "Elden Ring")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != models.Amount(39.99) {
		t.Errorf("price = %+v, want 39.99 (the standard selector must win)", price)
	}
}

func TestAmazonSource_offscreenFallback(t *testing.T) {
	html := `<html><body><span class="a-offscreen">$24.99</span></body></html>`
	src, srv := newAmazonTestSource(html, http.StatusOK)
	defer srv.Close()

	price, err := src.FetchPrice(context.Background(), "Celeste")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != models.Amount(24.99) {
		t.Errorf("price = %+v, want 24.99", price)
	}
}

func TestAmazonSource_regexFallback(t *testing.T) {
	html := `<html><body><div>Buy now for only $1,299.99 while stocks last</div></body></html>`
	src, srv := newAmazonTestSource(html, http.StatusOK)
	defer srv.Close()

	price, err := src.FetchPrice(context.Background(), "Collector Edition")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != models.Amount(1299.99) {
		t.Errorf("price = %+v, want 1299.99", price)
	}
}

func TestAmazonSource_noPriceAnywhere(t *testing.T) {
	html := `<html><body><div>No results for your search.</div></body></html>`
	src, srv := newAmazonTestSource(html, http.StatusOK)
	defer srv.Close()

	price, err := src.FetchPrice(context.Background(), "Obscure Game")
	if err != nil {
		t.Fatalf("no match is not an error, got: %v", err)
	}
	if price.State != models.PriceUnknown {
		t.Errorf("price = %+v, want unknown", price)
	}
}

func TestAmazonSource_badStatusReturnsError(t *testing.T) {
	src, srv := newAmazonTestSource("", http.StatusForbidden)
	defer srv.Close()

	price, err := src.FetchPrice(context.Background(), "Elden Ring")
	if err == nil {
		t.Fatalf("expected an inspectable error")
	}
	if price.State != models.PriceUnknown {
		t.Errorf("price = %+v, want unknown", price)
	}
}
