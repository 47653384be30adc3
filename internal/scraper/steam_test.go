package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamewatch/pkg/models"
)

func newSteamTestSource(handler http.Handler) (*SteamSource, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return &SteamSource{Client: srv.Client(), BaseURL: srv.URL}, srv
}

func TestSteamSource_paidGame(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/storesearch/", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("term"); got != "Hollow Knight" {
			t.Errorf("term = %q", got)
		}
		w.Write([]byte(`{"total": 1, "items": [{"id": 367520, "name": "Hollow Knight"}]}`))
	})
	mux.HandleFunc("/api/appdetails", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("appids"); got != "367520" {
			t.Errorf("appids = %q", got)
		}
		w.Write([]byte(`{"367520": {"success": true, "data": {"is_free": false, "price_overview": {"final_formatted": "$14.99"}}}}`))
	})

	src, srv := newSteamTestSource(mux)
	defer srv.Close()

	price, err := src.FetchPrice(context.Background(), "Hollow Knight")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != models.Amount(14.99) {
		t.Errorf("price = %+v, want 14.99", price)
	}
}

func TestSteamSource_freeGame(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/storesearch/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 1, "items": [{"id": 570}]}`))
	})
	mux.HandleFunc("/api/appdetails", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"570": {"success": true, "data": {"is_free": true}}}`))
	})

	src, srv := newSteamTestSource(mux)
	defer srv.Close()

	price, err := src.FetchPrice(context.Background(), "Dota 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price.State != models.PriceFree {
		t.Errorf("price = %+v, want Free", price)
	}
}

func TestSteamSource_noResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/storesearch/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 0, "items": []}`))
	})

	src, srv := newSteamTestSource(mux)
	defer srv.Close()

	price, err := src.FetchPrice(context.Background(), "No Such Game")
	if err != nil {
		t.Fatalf("no match is not an error, got: %v", err)
	}
	if price.State != models.PriceUnknown {
		t.Errorf("price = %+v, want unknown", price)
	}
}

func TestSteamSource_detailsWithoutPriceOrFree(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/storesearch/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 1, "items": [{"id": 1}]}`))
	})
	mux.HandleFunc("/api/appdetails", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"1": {"success": true, "data": {"is_free": false}}}`))
	})

	src, srv := newSteamTestSource(mux)
	defer srv.Close()

	price, err := src.FetchPrice(context.Background(), "Unpriced")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price.State != models.PriceUnknown {
		t.Errorf("price = %+v, want unknown", price)
	}
}

func TestSteamSource_serverErrorReturnsError(t *testing.T) {
	src, srv := newSteamTestSource(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	price, err := src.FetchPrice(context.Background(), "Hollow Knight")
	if err == nil {
		t.Fatalf("expected an inspectable error")
	}
	if price.State != models.PriceUnknown {
		t.Errorf("price = %+v, want unknown", price)
	}
}
