package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/salon/internal/middleware"
	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/repositories"
	"github.com/example/salon/internal/utils"
)

// Table is the persistence a Resource needs. repositories.Store satisfies it.
type Table[T any] interface {
	List(ctx context.Context, pg utils.Pagination, scopes ...repositories.Scope) ([]T, int64, error)
	Get(ctx context.Context, id uint, scopes ...repositories.Scope) (*T, error)
	Create(ctx context.Context, item *T) error
	Save(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
}

// Resource serves list/get/create/update/delete for one catalog table.
type Resource[T any] struct {
	store Table[T]
	label string

	// defaults fills values a create request may leave out; the body overrides them.
	defaults func(item *T)

	// filters turns query parameters into scopes for list and get.
	filters func(c *fiber.Ctx) ([]repositories.Scope, error)
	// prepare runs before the first insert only.
	prepare func(item *T)
	// check runs on create and update after struct validation.
	check func(ctx context.Context, item *T) error
	// enrich fills computed fields before a response is written.
	enrich func(ctx context.Context, items []T) error
}

func (r *Resource[T]) scopes(c *fiber.Ctx) ([]repositories.Scope, error) {
	if r.filters == nil {
		return nil, nil
	}
	return r.filters(c)
}

func (r *Resource[T]) respond(ctx context.Context, items []T) error {
	if r.enrich == nil {
		return nil
	}
	return r.enrich(ctx, items)
}

// List returns a page of items.
func (r *Resource[T]) List(c *fiber.Ctx) error {
	scopes, err := r.scopes(c)
	if err != nil {
		return err
	}
	pg := utils.ParsePagination(c)

	items, total, err := r.store.List(c.UserContext(), pg, scopes...)
	if err != nil {
		return err
	}
	if err := r.respond(c.UserContext(), items); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       items,
		"pagination": pg.Meta(total),
	})
}

// Get returns a single item by ID.
func (r *Resource[T]) Get(c *fiber.Ctx) error {
	item, err := r.load(c)
	if err != nil {
		return err
	}
	return r.single(c, fiber.StatusOK, item)
}

// Create persists a new item.
func (r *Resource[T]) Create(c *fiber.Ctx) error {
	var item T
	if r.defaults != nil {
		r.defaults(&item)
	}
	if err := parseBody(c, &item); err != nil {
		return err
	}
	resetIdentity(&item)
	if r.prepare != nil {
		r.prepare(&item)
	}
	if err := r.validate(c.UserContext(), &item); err != nil {
		return err
	}

	if err := r.store.Create(c.UserContext(), &item); err != nil {
		return err
	}
	fresh, err := r.store.Get(c.UserContext(), identityOf(&item))
	if err != nil {
		return err
	}
	return r.single(c, fiber.StatusCreated, fresh)
}

// Update applies the body on top of the stored item. Fields missing from the body keep
// their value, so PUT and PATCH behave the same. Slugs are never recomputed.
func (r *Resource[T]) Update(c *fiber.Ctx) error {
	item, err := r.load(c)
	if err != nil {
		return err
	}
	base := *baseOf(item)

	if err := parseBody(c, item); err != nil {
		return err
	}
	*baseOf(item) = base
	if err := r.validate(c.UserContext(), item); err != nil {
		return err
	}

	if err := r.store.Save(c.UserContext(), item); err != nil {
		return err
	}
	fresh, err := r.store.Get(c.UserContext(), base.ID)
	if err != nil {
		return err
	}
	return r.single(c, fiber.StatusOK, fresh)
}

// Delete removes an item by ID.
func (r *Resource[T]) Delete(c *fiber.Ctx) error {
	item, err := r.load(c)
	if err != nil {
		return err
	}
	if err := r.store.Delete(c.UserContext(), identityOf(item)); err != nil {
		return r.notFound(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (r *Resource[T]) load(c *fiber.Ctx) (*T, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, r.label+" not found")
	}
	scopes, err := r.scopes(c)
	if err != nil {
		return nil, err
	}
	item, err := r.store.Get(c.UserContext(), uint(id), scopes...)
	if err != nil {
		return nil, r.notFound(err)
	}
	return item, nil
}

func (r *Resource[T]) validate(ctx context.Context, item *T) error {
	if err := validateStruct(item); err != nil {
		return err
	}
	if r.check != nil {
		return r.check(ctx, item)
	}
	return nil
}

func (r *Resource[T]) single(c *fiber.Ctx, status int, item *T) error {
	items := []T{*item}
	if err := r.respond(c.UserContext(), items); err != nil {
		return err
	}
	return c.Status(status).JSON(fiber.Map{"success": true, "data": items[0]})
}

func (r *Resource[T]) notFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, r.label+" not found")
	}
	return err
}

// based is satisfied by every catalog model through the embedded BaseModel.
type based interface {
	Base() *models.BaseModel
}

func baseOf[T any](item *T) *models.BaseModel {
	return any(item).(based).Base()
}

func identityOf[T any](item *T) uint {
	return baseOf(item).ID
}

func resetIdentity[T any](item *T) {
	*baseOf(item) = models.BaseModel{}
}

// CatalogHandler serves the /service resources.
type CatalogHandler struct {
	catalog *repositories.Catalog

	Categories       *Resource[models.Category]
	Shops            *Resource[models.Shop]
	Services         *Resource[models.Service]
	Coupons          *Resource[models.Coupon]
	TimeSlots        *Resource[models.TimeSlot]
	ServiceAddresses *Resource[models.ServiceAddress]
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *repositories.Catalog) *CatalogHandler {
	return &CatalogHandler{
		catalog:          catalog,
		Categories:       newCategoryResource(catalog.Categories),
		Shops:            newShopResource(catalog.Shops),
		Services:         newServiceResource(catalog.Services, catalog.Shops, catalog.AttachReviewStats),
		Coupons:          newCouponResource(catalog.Coupons),
		TimeSlots:        newTimeSlotResource(catalog.TimeSlots, catalog.Services),
		ServiceAddresses: &Resource[models.ServiceAddress]{store: catalog.ServiceAddresses, label: "service address"},
	}
}

func newCategoryResource(categories Table[models.Category]) *Resource[models.Category] {
	return &Resource[models.Category]{
		store: categories,
		label: "category",
		defaults: func(item *models.Category) {
			item.IsPublish = true
		},
		prepare: func(item *models.Category) {
			item.Slug = slugFor(item.Slug, item.CategoryName)
		},
	}
}

func newShopResource(shops Table[models.Shop]) *Resource[models.Shop] {
	return &Resource[models.Shop]{
		store: shops,
		label: "shop",
		filters: func(*fiber.Ctx) ([]repositories.Scope, error) {
			return []repositories.Scope{repositories.ActiveShops}, nil
		},
		defaults: func(item *models.Shop) {
			item.IsActive = true
		},
		prepare: func(item *models.Shop) {
			item.Slug = slugFor(item.Slug, item.Name)
		},
	}
}

func newServiceResource(
	services Table[models.Service],
	shops Table[models.Shop],
	enrich func(ctx context.Context, items []models.Service) error,
) *Resource[models.Service] {
	return &Resource[models.Service]{
		store: services,
		label: "service",
		filters: func(c *fiber.Ctx) ([]repositories.Scope, error) {
			shopID, ok, err := queryID(c, "shop_id")
			if err != nil || !ok {
				return nil, err
			}
			return []repositories.Scope{repositories.ByShop(shopID)}, nil
		},
		prepare: func(item *models.Service) {
			item.Slug = slugFor(item.Slug, item.ServiceName)
		},
		check: func(ctx context.Context, item *models.Service) error {
			item.Shop = nil
			if _, err := shops.Get(ctx, item.ShopID); err != nil {
				return missingReference(err, "shop_id", "Invalid shop.")
			}
			return nil
		},
		enrich: enrich,
	}
}

func newCouponResource(coupons Table[models.Coupon]) *Resource[models.Coupon] {
	return &Resource[models.Coupon]{
		store: coupons,
		label: "coupon",
		filters: func(c *fiber.Ctx) ([]repositories.Scope, error) {
			raw := c.Query("is_expired")
			if raw == "" {
				return nil, nil
			}
			return []repositories.Scope{repositories.ByExpired(strings.ToLower(raw) == "true")}, nil
		},
		defaults: couponDefaults,
	}
}

func newTimeSlotResource(slots Table[models.TimeSlot], services Table[models.Service]) *Resource[models.TimeSlot] {
	return &Resource[models.TimeSlot]{
		store: slots,
		label: "time slot",
		filters: func(c *fiber.Ctx) ([]repositories.Scope, error) {
			serviceID, ok, err := queryID(c, "service_id")
			if err != nil || !ok {
				return nil, err
			}
			return []repositories.Scope{repositories.ByService(serviceID)}, nil
		},
		check: func(ctx context.Context, item *models.TimeSlot) error {
			verr := &models.ValidationError{}
			if !validClock(item.StartTime) {
				verr.Add("start_time", "Time has wrong format. Use hh:mm[:ss].")
			}
			if !validClock(item.EndTime) {
				verr.Add("end_time", "Time has wrong format. Use hh:mm[:ss].")
			}
			if err := verr.OrNil(); err != nil {
				return err
			}
			if _, err := services.Get(ctx, item.ServiceID); err != nil {
				return missingReference(err, "service_id", "Invalid service.")
			}
			return nil
		},
	}
}

func couponDefaults(item *models.Coupon) {
	item.DiscountPrice = models.DefaultDiscountPrice
	item.MinimumAmount = models.DefaultMinimumAmount
}

// queryID parses an optional numeric query parameter.
func queryID(c *fiber.Ctx, key string) (uint, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, models.NewFieldError(key, "A valid integer is required.")
	}
	return uint(id), true, nil
}

// ValidateCoupon runs the coupon's cross-field rule without saving anything.
func (h *CatalogHandler) ValidateCoupon(c *fiber.Ctx) error {
	var coupon models.Coupon
	couponDefaults(&coupon)
	if err := parseBody(c, &coupon); err != nil {
		return err
	}
	if err := validateStruct(&coupon); err != nil {
		return err
	}
	if err := coupon.Clean(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "valid": true})
}

// ListReviews returns the reviews of one service.
func (h *CatalogHandler) ListReviews(c *fiber.Ctx) error {
	serviceID, err := h.serviceID(c)
	if err != nil {
		return err
	}
	pg := utils.ParsePagination(c)

	reviews, total, err := h.catalog.Reviews.List(c.UserContext(), pg, repositories.ByService(serviceID))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       reviews,
		"pagination": pg.Meta(total),
	})
}

type reviewRequest struct {
	Rating  int16  `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"max=200"`
}

// CreateReview stores a review by the authenticated user.
func (h *CatalogHandler) CreateReview(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	serviceID, err := h.serviceID(c)
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	review := models.ServiceReview{
		UserID:    userID,
		ServiceID: &serviceID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.catalog.Reviews.Create(c.UserContext(), &review); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": review})
}

func (h *CatalogHandler) serviceID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusNotFound, "service not found")
	}
	if _, err := h.catalog.Services.Get(c.UserContext(), uint(id)); err != nil {
		return 0, h.Services.notFound(err)
	}
	return uint(id), nil
}

func slugFor(current *string, name string) *string {
	if current != nil && *current != "" {
		return current
	}
	slug := utils.Slugify(name)
	if slug == "" {
		return nil
	}
	return &slug
}

func missingReference(err error, field, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return models.NewFieldError(field, message)
	}
	return err
}

func validClock(value string) bool {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
