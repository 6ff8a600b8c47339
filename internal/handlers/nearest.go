package handlers

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/example/salon/internal/services"
)

// NearestShopHandler ranks active shops by distance from the caller.
type NearestShopHandler struct {
	ranker *services.ShopRanker
}

// NewNearestShopHandler constructs a NearestShopHandler.
func NewNearestShopHandler(ranker *services.ShopRanker) *NearestShopHandler {
	return &NearestShopHandler{ranker: ranker}
}

// Nearest expects latitude and longitude query parameters.
func (h *NearestShopHandler) Nearest(c *fiber.Ctx) error {
	lat, latOK := coordinate(c.Query("latitude"), 90)
	lon, lonOK := coordinate(c.Query("longitude"), 180)
	if !latOK || !lonOK {
		return fiber.NewError(fiber.StatusBadRequest, "Please provide latitude and longitude")
	}

	ranked, err := h.ranker.Nearest(c.UserContext(), services.Coordinate{Latitude: lat, Longitude: lon})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": ranked})
}

// coordinate parses a finite value within [-limit, limit].
func coordinate(raw string, limit float64) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > limit {
		return 0, false
	}
	return v, true
}
