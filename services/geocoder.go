package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// ErrAddressNotFound is returned by a Geocoder when the query yields no result.
var ErrAddressNotFound = errors.New("address not found")

// Geocoder resolves a street address to coordinates. The workflow engine
// only depends on this contract; the HTTP implementation below is the
// default collaborator.
type Geocoder interface {
	Resolve(address string) (lat, lng float64, err error)
}

// NominatimGeocoder resolves addresses against a Nominatim-compatible
// endpoint (GEOCODER_URL, defaults to the public OSM instance).
type NominatimGeocoder struct {
	BaseURL string
	Client  *http.Client
}

func NewNominatimGeocoder() *NominatimGeocoder {
	base := os.Getenv("GEOCODER_URL")
	if base == "" {
		base = "https://nominatim.openstreetmap.org"
	}
	return &NominatimGeocoder{
		BaseURL: base,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *NominatimGeocoder) Resolve(address string) (float64, float64, error) {
	endpoint := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", g.BaseURL, url.QueryEscape(address))

	resp, err := g.Client.Get(endpoint)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, err
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}
