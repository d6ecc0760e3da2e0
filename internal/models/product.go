package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Variant struct {
	Size  string `json:"size,omitempty"  bson:"size,omitempty"`
	Color string `json:"color,omitempty" bson:"color,omitempty"`
	Stock int    `json:"stock"           bson:"stock"`
}

type Product struct {
	ID          uuid.UUID  `gorm:"primaryKey"     json:"id"                   bson:"_id"`
	Name        string     `gorm:"not null;index" json:"name"                 bson:"name"`
	Description string     `json:"description"    bson:"description"`
	Category    string     `gorm:"index"          json:"category"             bson:"category"`
	CategoryID  *uuid.UUID `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
	Collection  string     `json:"collection"     bson:"collection"`

	Price         float64  `gorm:"not null" json:"price"                   bson:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	MRP           *float64 `json:"mrp,omitempty"           bson:"mrp,omitempty"`
	Stock         int      `json:"stock"    bson:"stock"`

	Images   []string  `gorm:"type:text;serializer:json" json:"images"   bson:"images"`
	Variants []Variant `gorm:"type:text;serializer:json" json:"variants" bson:"variants"`
	Sizes    []string  `gorm:"type:text;serializer:json" json:"sizes"    bson:"sizes"`
	Colors   []string  `gorm:"type:text;serializer:json" json:"colors"   bson:"colors"`

	IsNew        bool  `json:"isNew"               bson:"isNew"`
	IsBestSeller bool  `json:"isBestSeller"        bson:"isBestSeller"`
	IsLimited    *bool `json:"isLimited,omitempty" bson:"isLimited,omitempty"`

	DropDate              *time.Time        `json:"dropDate,omitempty"    bson:"dropDate,omitempty"`
	ReleaseDate           *time.Time        `json:"releaseDate,omitempty" bson:"releaseDate,omitempty"`
	ProductSpecifications map[string]string `gorm:"type:text;serializer:json" json:"productSpecifications" bson:"productSpecifications"`

	Rating      float64 `json:"rating"      bson:"rating"`
	ReviewCount int     `json:"reviewCount" bson:"reviewCount"`

	ViewCount        int     `json:"viewCount"        bson:"viewCount"`
	AddedToCartCount int     `json:"addedToCartCount" bson:"addedToCartCount"`
	TrendingScore    float64 `json:"trendingScore"    bson:"trendingScore"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Counter names an engagement counter that is bumped in place.
type Counter int

const (
	CounterViews Counter = iota
	CounterAddToCart
)

type Category struct {
	ID        uuid.UUID `gorm:"primaryKey"           json:"id"       bson:"_id"`
	Name      string    `gorm:"not null"             json:"name"     bson:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"     bson:"slug"`
	IsActive  bool      `json:"isActive"  bson:"isActive"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Review struct {
	ID        uuid.UUID `gorm:"primaryKey"     json:"id"        bson:"_id"`
	UserID    uuid.UUID `gorm:"index;not null" json:"user"      bson:"userId"`
	ProductID uuid.UUID `gorm:"index;not null" json:"productId" bson:"productId"`
	Rating    int       `gorm:"not null"       json:"rating"    bson:"rating"`
	Title     string    `json:"title"     bson:"title"`
	Body      string    `json:"body"      bson:"body"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
