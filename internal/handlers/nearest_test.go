package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/salon/internal/config"
	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/services"
)

type staticShops []models.Shop

func (s staticShops) ListActive(context.Context) ([]models.Shop, error) {
	return s, nil
}

func float(v float64) *float64 { return &v }

func nearestApp(t *testing.T, upstream string) *fiber.App {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, upstream)
	}))
	t.Cleanup(srv.Close)

	shops := staticShops{
		{BaseModel: models.BaseModel{ID: 1}, Name: "Far", Latitude: float(1), Longitude: float(1)},
		{BaseModel: models.BaseModel{ID: 2}, Name: "Near", Latitude: float(2), Longitude: float(2)},
		{BaseModel: models.BaseModel{ID: 3}, Name: "Nowhere"},
	}
	client := services.NewDistanceMatrixClient(&config.Config{
		DistanceMatrixURL:     srv.URL,
		DistanceMatrixTimeout: 5 * time.Second,
	})
	handler := NewNearestShopHandler(services.NewShopRanker(shops, client))

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/service/nearest-shops", handler.Nearest)
	return app
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestNearestShops(t *testing.T) {
	app := nearestApp(t, `{"status":"OK","rows":[{"elements":[
		{"status":"OK","distance":{"value":900}},
		{"status":"OK","distance":{"value":120}}
	]}]}`)

	status, body := getJSON(t, app, "/service/nearest-shops?latitude=12.9&longitude=77.6")
	require.Equal(t, http.StatusOK, status)

	data := body["data"].([]interface{})
	require.Len(t, data, 3)

	var names []string
	for _, item := range data {
		names = append(names, item.(map[string]interface{})["name"].(string))
	}
	assert.Equal(t, []string{"Near", "Far", "Nowhere"}, names)
	assert.Equal(t, 120.0, data[0].(map[string]interface{})["distance"])
	assert.Nil(t, data[2].(map[string]interface{})["distance"])
}

func TestNearestShopsBadInput(t *testing.T) {
	app := nearestApp(t, `{"status":"OK","rows":[]}`)

	for _, path := range []string{
		"/service/nearest-shops",
		"/service/nearest-shops?latitude=12.9",
		"/service/nearest-shops?latitude=abc&longitude=77.6",
		"/service/nearest-shops?latitude=NaN&longitude=77.6",
		"/service/nearest-shops?latitude=12.9&longitude=Inf",
		"/service/nearest-shops?latitude=91&longitude=77.6",
		"/service/nearest-shops?latitude=12.9&longitude=-180.5",
	} {
		status, body := getJSON(t, app, path)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, "Please provide latitude and longitude", body["error"])
	}
}

func TestNearestShopsUpstreamFailure(t *testing.T) {
	app := nearestApp(t, `{"status":"REQUEST_DENIED","rows":[]}`)

	status, body := getJSON(t, app, "/service/nearest-shops?latitude=12.9&longitude=77.6")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Google API error: REQUEST_DENIED", body["error"])
}
