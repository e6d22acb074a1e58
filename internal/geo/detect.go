// Package geo picks a configured city from the caller's public IP location.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// DefaultURL is the ip-api.com endpoint. It is free and requires no API key.
const DefaultURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,regionName,country,timezone"

// Location holds geographic data detected from the user's IP.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	City       string  `json:"city"`
	RegionName string  `json:"regionName"`
	Country    string  `json:"country"`
	Timezone   string  `json:"timezone"`
}

// Detector queries the geolocation service.
type Detector struct {
	URL        string
	httpClient *http.Client
}

// NewDetector creates a Detector for DefaultURL.
func NewDetector() *Detector {
	return &Detector{
		URL:        DefaultURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Detect returns the location of the caller's public IP address.
func (d *Detector) Detect(ctx context.Context) (*Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geolocation request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	return &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Region:    result.RegionName,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}, nil
}

// Match returns the configured city for loc. The detected city name is tried
// first, then the region, since Turkish provinces share their name with the
// city the timings are queried for.
func Match(loc *Location, cities []prayer.City) (prayer.City, bool) {
	if loc == nil {
		return prayer.City{}, false
	}
	for _, name := range []string{loc.City, loc.Region} {
		if name == "" {
			continue
		}
		if c, ok := prayer.FindCity(cities, name); ok {
			return c, true
		}
	}
	return prayer.City{}, false
}

// Resolve detects the caller's location and matches it against cities.
func (d *Detector) Resolve(ctx context.Context, cities []prayer.City) (prayer.City, error) {
	loc, err := d.Detect(ctx)
	if err != nil {
		return prayer.City{}, err
	}
	c, ok := Match(loc, cities)
	if !ok {
		return prayer.City{}, fmt.Errorf("detected location %s (%s) is not a configured city", loc.City, loc.Region)
	}
	return c, nil
}
