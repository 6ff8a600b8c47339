package services

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/salon/internal/config"
	"github.com/example/salon/internal/models"
)

func newDistanceServer(t *testing.T, body string, calls *int32, check func(*http.Request)) *DistanceMatrixClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return NewDistanceMatrixClient(&config.Config{
		DistanceMatrixURL:     srv.URL,
		GoogleMapsAPIKey:      "maps-key",
		DistanceMatrixTimeout: 5 * time.Second,
	})
}

func TestDistanceMatrixClient(t *testing.T) {
	var calls int32
	body := `{"status":"OK","rows":[{"elements":[
		{"status":"OK","distance":{"value":500}},
		{"status":"ZERO_RESULTS"},
		{"status":"OK","distance":{"value":50}}
	]}]}`
	client := newDistanceServer(t, body, &calls, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "12.5,77.25", q.Get("origins"))
		assert.Equal(t, "1,2|3,4|5,6", q.Get("destinations"))
		assert.Equal(t, "maps-key", q.Get("key"))
	})

	got, err := client.Distances(context.Background(), Coordinate{12.5, 77.25}, []Coordinate{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 500.0, got[0])
	assert.True(t, math.IsInf(got[1], 1))
	assert.Equal(t, 50.0, got[2])
	assert.Equal(t, int32(1), calls)
}

func TestDistanceMatrixClientTopLevelFailure(t *testing.T) {
	var calls int32
	client := newDistanceServer(t, `{"status":"REQUEST_DENIED","rows":[]}`, &calls, nil)

	_, err := client.Distances(context.Background(), Coordinate{1, 1}, []Coordinate{{2, 2}})
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "REQUEST_DENIED", upstream.Status)
	assert.Equal(t, "Google API error: REQUEST_DENIED", err.Error())
}

func TestDistanceMatrixClientSkipsEmptyBatch(t *testing.T) {
	var calls int32
	client := newDistanceServer(t, `{"status":"OK"}`, &calls, nil)

	got, err := client.Distances(context.Background(), Coordinate{1, 1}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, calls)
}

type staticDistances struct {
	distances []float64
	err       error
	calls     int
	batch     []Coordinate
}

func (s *staticDistances) Distances(_ context.Context, _ Coordinate, destinations []Coordinate) ([]float64, error) {
	s.calls++
	s.batch = destinations
	return s.distances, s.err
}

type staticShops []models.Shop

func (s staticShops) ListActive(context.Context) ([]models.Shop, error) { return s, nil }

func shopAt(id uint, lat, lon float64) models.Shop {
	shop := models.Shop{Name: "shop", Latitude: &lat, Longitude: &lon, IsActive: true}
	shop.ID = id
	return shop
}

func TestRankOrdersByDistance(t *testing.T) {
	shops := []models.Shop{shopAt(1, 1, 1), shopAt(2, 2, 2), shopAt(3, 3, 3), shopAt(4, 4, 4)}
	calc := &staticDistances{distances: []float64{500, 50, math.Inf(1), 200}}
	ranker := NewShopRanker(staticShops(shops), calc)

	ranked, err := ranker.Nearest(context.Background(), Coordinate{0, 0})
	require.NoError(t, err)

	var ids []uint
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uint{2, 4, 1, 3}, ids)
	assert.Equal(t, 1, calc.calls)
	require.NotNil(t, ranked[0].Distance)
	assert.Equal(t, 50.0, *ranked[0].Distance)
	assert.Nil(t, ranked[3].Distance)
}

func TestRankShopsWithoutCoordinatesSortLast(t *testing.T) {
	noCoords := models.Shop{Name: "nowhere", IsActive: true}
	noCoords.ID = 9
	shops := []models.Shop{noCoords, shopAt(1, 1, 1), shopAt(2, 2, 2)}
	calc := &staticDistances{distances: []float64{300, 100}}

	ranked, err := NewShopRanker(nil, calc).Rank(context.Background(), Coordinate{0, 0}, shops)
	require.NoError(t, err)

	require.Len(t, calc.batch, 2, "only shops with coordinates are sent")
	assert.Equal(t, []uint{2, 1, 9}, []uint{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}

func TestRankEmptySkipsCall(t *testing.T) {
	calc := &staticDistances{}
	ranked, err := NewShopRanker(nil, calc).Rank(context.Background(), Coordinate{0, 0}, nil)
	require.NoError(t, err)
	assert.Empty(t, ranked)
	assert.Zero(t, calc.calls)
}

func TestRankPropagatesUpstreamError(t *testing.T) {
	calc := &staticDistances{err: &UpstreamError{Status: "OVER_QUERY_LIMIT"}}
	_, err := NewShopRanker(nil, calc).Rank(context.Background(), Coordinate{0, 0}, []models.Shop{shopAt(1, 1, 1)})
	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
}
