package models

import "github.com/google/uuid"

type Category struct {
	BaseModel
	CategoryName  string  `gorm:"size:100;not null" json:"category_name" validate:"required,max=100"`
	Slug          *string `gorm:"uniqueIndex" json:"slug"`
	IsPublish     bool    `json:"is_publish"`
	CategoryImage string  `json:"category_image"`
}

type Shop struct {
	BaseModel
	Name          string   `gorm:"size:200;not null" json:"name" validate:"required,max=200"`
	Slug          *string  `gorm:"uniqueIndex" json:"slug"`
	Owner         string   `gorm:"size:100" json:"owner" validate:"max=100"`
	Address       string   `json:"address"`
	ContactNumber *string  `gorm:"size:15" json:"contact_number" validate:"omitempty,max=15"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	IsActive      bool     `gorm:"index" json:"is_active"`
	Image         *string  `json:"image"`
	Latitude      *float64 `gorm:"type:decimal(9,6)" json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64 `gorm:"type:decimal(9,6)" json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (s *Shop) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// Service is an offering of a shop. TotalReviews and AverageRating are derived from
// reviews when the service is loaded and never stored.
type Service struct {
	BaseModel
	ShopID             uint     `gorm:"index;not null" json:"shop_id" validate:"required"`
	Shop               *Shop    `gorm:"constraint:OnDelete:CASCADE;" json:"shop,omitempty"`
	ServiceName        string   `gorm:"size:100;not null" json:"service_name" validate:"required,max=100"`
	MRPPrice           *float64 `gorm:"type:decimal(12,2)" json:"mrp_price"`
	DisPrice           *float64 `gorm:"type:decimal(12,2)" json:"dis_price"`
	ProductDescription string   `json:"product_description"`
	IsPublish          bool     `gorm:"default:false" json:"is_publish"`
	Slug               *string  `gorm:"size:200;uniqueIndex" json:"slug"`
	FakeReview         *int     `json:"fake_review"`
	FakeRating         *float64 `gorm:"type:decimal(5,2)" json:"fake_rating"`
	Image              *string  `json:"image"`
	TotalReviews       int64    `gorm:"-" json:"total_reviews"`
	AverageRating      float64  `gorm:"-" json:"average_rating"`
}

type TimeSlot struct {
	BaseModel
	ServiceID uint     `gorm:"index;not null" json:"service_id" validate:"required"`
	Service   *Service `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	StartTime string   `gorm:"size:8;not null" json:"start_time" validate:"required"`
	EndTime   string   `gorm:"size:8;not null" json:"end_time" validate:"required"`
}

// ServiceAddress is a city in which a set of categories is offered.
type ServiceAddress struct {
	BaseModel
	CityName   string     `gorm:"size:180;uniqueIndex;not null" json:"city_name"`
	Categories []Category `gorm:"many2many:service_address_categories;" json:"category"`
}

// Coupon amounts used when a request leaves them out.
const (
	DefaultDiscountPrice = 100
	DefaultMinimumAmount = 500
)

type Coupon struct {
	BaseModel
	CouponCode    string `gorm:"size:10;not null" json:"coupon_code" validate:"required,max=10"`
	IsExpired     bool   `gorm:"index" json:"is_expired"`
	DiscountPrice int    `json:"discount_price" validate:"gte=0"`
	MinimumAmount int    `json:"minimum_amount" validate:"gte=0"`
}

// Clean checks the cross-field rule for coupons. It is only run by the explicit
// validation path; saving a coupon does not call it.
func (c *Coupon) Clean() error {
	if c.DiscountPrice >= c.MinimumAmount {
		return NewNonFieldError("Discount price must be less than the minimum amount.")
	}
	return nil
}

// ServiceReview keeps its row when the service is deleted; ServiceID becomes null.
type ServiceReview struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	ServiceID *uint     `gorm:"index" json:"service"`
	Service   *Service  `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	Rating    int16     `gorm:"default:0" json:"rating" validate:"min=1,max=5"`
	Comment   string    `gorm:"size:200" json:"comment" validate:"max=200"`
}
