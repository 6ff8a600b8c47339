package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/salon/internal/config"
)

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// UpstreamError reports a non-OK top-level status from the distance service.
type UpstreamError struct {
	Status string
}

func (e *UpstreamError) Error() string {
	return "Google API error: " + e.Status
}

// DistanceCalculator returns one distance in meters per destination, math.Inf(1) for
// destinations that cannot be reached.
type DistanceCalculator interface {
	Distances(ctx context.Context, origin Coordinate, destinations []Coordinate) ([]float64, error)
}

// DistanceMatrixClient queries the Google Distance Matrix API.
type DistanceMatrixClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewDistanceMatrixClient constructs a DistanceMatrixClient.
func NewDistanceMatrixClient(cfg *config.Config) *DistanceMatrixClient {
	return &DistanceMatrixClient{
		baseURL: cfg.DistanceMatrixURL,
		apiKey:  cfg.GoogleMapsAPIKey,
		client:  &http.Client{Timeout: cfg.DistanceMatrixTimeout},
	}
}

type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// Distances batches every destination into a single request.
func (c *DistanceMatrixClient) Distances(ctx context.Context, origin Coordinate, destinations []Coordinate) ([]float64, error) {
	if len(destinations) == 0 {
		return nil, nil
	}

	dests := make([]string, len(destinations))
	for i, d := range destinations {
		dests[i] = d.String()
	}
	query := url.Values{}
	query.Set("origins", origin.String())
	query.Set("destinations", strings.Join(dests, "|"))
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("distance matrix request build: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		distanceRequests.WithLabelValues("TRANSPORT_ERROR").Inc()
		return nil, fmt.Errorf("distance matrix request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("distance matrix read: %w", err)
	}

	var parsed distanceMatrixResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		distanceRequests.WithLabelValues("INVALID_RESPONSE").Inc()
		return nil, fmt.Errorf("distance matrix unmarshal: status %d: %w", resp.StatusCode, err)
	}
	distanceRequests.WithLabelValues(parsed.Status).Inc()
	if parsed.Status != "OK" {
		return nil, &UpstreamError{Status: parsed.Status}
	}

	distances := make([]float64, len(destinations))
	for i := range distances {
		distances[i] = math.Inf(1)
	}
	if len(parsed.Rows) > 0 {
		for i, el := range parsed.Rows[0].Elements {
			if i >= len(distances) {
				break
			}
			if el.Status == "OK" {
				distances[i] = el.Distance.Value
			}
		}
	}
	return distances, nil
}
