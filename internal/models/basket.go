package models

import "github.com/google/uuid"

// Basket is one user's pending quantity of one product. A row only
// exists while quantity >= 1, and (user, product) is unique so
// concurrent adds cannot split one product across two rows.
type Basket struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_basket_user_product" json:"user_id"`
	User      *User     `json:"user,omitempty"`
	ProductID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_basket_user_product" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
}

// LineSum returns price x quantity for this row. Product must be loaded.
func (b *Basket) LineSum() float64 {
	if b.Product == nil {
		return 0
	}
	return b.Product.Price * float64(b.Quantity)
}

// TotalSum folds the line sums of a basket row set.
func TotalSum(baskets []Basket) float64 {
	var total float64
	for i := range baskets {
		total += baskets[i].LineSum()
	}
	return total
}

// TotalQuantity sums quantities over a basket row set.
func TotalQuantity(baskets []Basket) int {
	var total int
	for i := range baskets {
		total += baskets[i].Quantity
	}
	return total
}
