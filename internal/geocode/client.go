// Package geocode resolves one-line street addresses to coordinates through
// the U.S. Census geocoder REST API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Greggwolin/landscape-sub008/internal/logger"
	"github.com/Greggwolin/landscape-sub008/internal/metrics"
)

const defaultBaseURL = "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress"

var ErrNoMatch = errors.New("no address match")

// Result is one geocoder match, trimmed to what the map panels need.
type Result struct {
	MatchedAddress string  `json:"matched_address"`
	Lng            float64 `json:"lng"`
	Lat            float64 `json:"lat"`
}

// Client calls the geocoder. The zero BaseURL uses the public endpoint;
// tests point it at an httptest server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient() *Client {
	return &Client{HTTP: &http.Client{Timeout: 5 * time.Second}}
}

// wire format of the census response; only the fields read here
type censusResponse struct {
	Result struct {
		AddressMatches []struct {
			MatchedAddress string `json:"matchedAddress"`
			Coordinates    struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
			} `json:"coordinates"`
		} `json:"addressMatches"`
	} `json:"result"`
}

// Geocode resolves address to its best match. Service errors and empty match
// lists come back as errors; there is no retry, the caller decides whether to
// try again.
func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	if address == "" {
		return nil, errors.New("missing address")
	}
	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	q := url.Values{}
	q.Set("address", address)
	q.Set("benchmark", "Public_AR_Current")
	q.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	t0 := time.Now()
	metrics.GeocodeRequestsTotal.Inc()
	logger.L().Debug("geocode_req", "address", address)
	resp, err := hc.Do(req)
	if err != nil {
		metrics.GeocodeFailTotal.Inc()
		logger.L().Error("geocode_http_error", "err", err)
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeFailTotal.Inc()
		return nil, fmt.Errorf("geocoder status %d", resp.StatusCode)
	}
	var cr censusResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		metrics.GeocodeFailTotal.Inc()
		logger.L().Error("geocode_decode_error", "err", err)
		return nil, err
	}
	metrics.GeocodeDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	if len(cr.Result.AddressMatches) == 0 {
		return nil, ErrNoMatch
	}
	m := cr.Result.AddressMatches[0]
	logger.L().Debug("geocode_resp", "address", address, "matched", m.MatchedAddress,
		"duration_ms", time.Since(t0).Milliseconds())
	return &Result{
		MatchedAddress: m.MatchedAddress,
		Lng:            m.Coordinates.X,
		Lat:            m.Coordinates.Y,
	}, nil
}
