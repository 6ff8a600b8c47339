package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/salon/internal/models"
)

// ShopRepository exposes the shops considered by the distance ranker.
type ShopRepository interface {
	ListActive(ctx context.Context) ([]models.Shop, error)
}

// Catalog groups the stores behind the /service resources.
type Catalog struct {
	Categories       *Store[models.Category]
	Shops            *Store[models.Shop]
	Services         *Store[models.Service]
	Coupons          *Store[models.Coupon]
	TimeSlots        *Store[models.TimeSlot]
	ServiceAddresses *Store[models.ServiceAddress]
	Reviews          *Store[models.ServiceReview]

	db *gorm.DB
}

// NewCatalog wires a store per catalog table.
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{
		Categories:       NewStore[models.Category](db),
		Shops:            NewStore[models.Shop](db),
		Services:         NewStore[models.Service](db, "Shop"),
		Coupons:          NewStore[models.Coupon](db),
		TimeSlots:        NewStore[models.TimeSlot](db),
		ServiceAddresses: NewStore[models.ServiceAddress](db, "Categories"),
		Reviews:          NewStore[models.ServiceReview](db),
		db:               db,
	}
}

// ListActive returns every active shop in insertion order.
func (c *Catalog) ListActive(ctx context.Context) ([]models.Shop, error) {
	var shops []models.Shop
	if err := c.db.WithContext(ctx).Scopes(ActiveShops).Order("id asc").Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

type reviewStats struct {
	ServiceID uint
	Total     int64
	Average   float64
}

// AttachReviewStats fills TotalReviews and AverageRating for services in one query.
// Services without reviews keep zero values.
func (c *Catalog) AttachReviewStats(ctx context.Context, services []models.Service) error {
	if len(services) == 0 {
		return nil
	}
	ids := make([]uint, len(services))
	for i := range services {
		ids[i] = services[i].ID
	}

	var stats []reviewStats
	err := c.db.WithContext(ctx).Model(&models.ServiceReview{}).
		Select("service_id, COUNT(*) AS total, COALESCE(AVG(rating), 0) AS average").
		Where("service_id IN ?", ids).
		Group("service_id").
		Scan(&stats).Error
	if err != nil {
		return err
	}

	byService := make(map[uint]reviewStats, len(stats))
	for _, s := range stats {
		byService[s.ServiceID] = s
	}
	for i := range services {
		if s, ok := byService[services[i].ID]; ok {
			services[i].TotalReviews = s.Total
			services[i].AverageRating = s.Average
		}
	}
	return nil
}

// ActiveShops keeps shops with is_active set.
func ActiveShops(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// ByShop keeps services of one shop.
func ByShop(shopID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("shop_id = ?", shopID)
	}
}

// ByService keeps rows (time slots, reviews) attached to one service.
func ByService(serviceID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("service_id = ?", serviceID)
	}
}

// ByExpired keeps coupons with the given expiry flag.
func ByExpired(expired bool) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_expired = ?", expired)
	}
}
