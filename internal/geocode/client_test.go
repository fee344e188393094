package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "100 Main St, Phoenix, AZ" {
			t.Errorf("unexpected address param: %q", got)
		}
		if got := r.URL.Query().Get("benchmark"); got != "Public_AR_Current" {
			t.Errorf("unexpected benchmark: %q", got)
		}
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"addressMatches":[
            {"matchedAddress":"100 MAIN ST, PHOENIX, AZ, 85001",
             "coordinates":{"x":-112.074,"y":33.448}}]}}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, HTTP: srv.Client()}
	res, err := c.Geocode(context.Background(), "100 Main St, Phoenix, AZ")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if res.Lng != -112.074 || res.Lat != 33.448 {
		t.Fatalf("bad coordinates: %+v", res)
	}
	if res.MatchedAddress == "" {
		t.Fatal("expected matched address")
	}
}

func TestGeocodeNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"addressMatches":[]}}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, HTTP: srv.Client()}
	if _, err := c.Geocode(context.Background(), "nowhere"); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestGeocodeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, HTTP: srv.Client()}
	if _, err := c.Geocode(context.Background(), "100 Main St"); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestGeocodeEmptyAddress(t *testing.T) {
	c := NewClient()
	if _, err := c.Geocode(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty address")
	}
}
