package models

import "github.com/google/uuid"

// ProductCategory groups products in the catalog.
type ProductCategory struct {
	BaseModel
	Name        string    `gorm:"uniqueIndex" json:"name"`
	Description string    `json:"description"`
	Products    []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// Product is a catalog item. StripePriceID is assigned lazily the first
// time the product is saved without one.
type Product struct {
	BaseModel
	Name          string           `gorm:"uniqueIndex" json:"name"`
	Description   string           `json:"description"`
	Price         float64          `json:"price"`
	Quantity      int              `json:"quantity"`
	Image         string           `json:"image"`
	CategoryID    *uuid.UUID       `gorm:"type:uuid;index" json:"category_id"`
	Category      *ProductCategory `json:"category,omitempty"`
	StripePriceID string           `gorm:"column:stripe_price_id" json:"stripe_price_id"`
}
