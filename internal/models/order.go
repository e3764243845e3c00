package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Order status values. A status only moves forward.
const (
	OrderStatusCreated   = 0
	OrderStatusPaid      = 1
	OrderStatusOnWay     = 2
	OrderStatusDelivered = 3
)

// Order is a checkout attempt. BasketHistory is written exactly once,
// when the payment confirmation arrives.
type Order struct {
	BaseModel
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	BasketHistory []byte    `gorm:"type:jsonb" json:"basket_history"`
	Status        int       `json:"status"`
	InitiatorID   uuid.UUID `gorm:"type:uuid;index" json:"initiator_id"`
	Initiator     *User     `json:"initiator,omitempty"`
}

// PurchasedItem is one basket row frozen into an order's history.
type PurchasedItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineSum     float64 `json:"line_sum"`
}

// BasketHistory is the snapshot stored on a paid order.
type BasketHistory struct {
	PurchasedItems []PurchasedItem `json:"purchased_items"`
	TotalSum       float64         `json:"total_sum"`
}

// History decodes the stored basket snapshot.
func (o *Order) History() (BasketHistory, error) {
	var history BasketHistory
	if len(o.BasketHistory) == 0 {
		return history, nil
	}
	err := json.Unmarshal(o.BasketHistory, &history)
	return history, err
}
