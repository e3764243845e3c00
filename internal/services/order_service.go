package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/virtumart/internal/models"
)

// ErrOrderNotFound is returned when a paid transition targets an unknown order.
var ErrOrderNotFound = errors.New("order not found")

// OrderService owns the multi-step order transitions.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// MarkPaid applies the payment confirmation for an order: snapshot the
// initiator's basket into basket_history, delete the basket rows, and set
// the status to PAID. The whole transition runs in one transaction with
// the order row and basket rows locked, and a repeated delivery for an
// already-paid order is a no-op.
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockForUpdate(tx).First(&order, "id = ?", orderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrOrderNotFound
			}
			return err
		}

		if order.Status >= models.OrderStatusPaid {
			// Webhook delivery is at-least-once; the snapshot was
			// already taken and the basket already cleared.
			return nil
		}

		var baskets []models.Basket
		if err := lockForUpdate(tx).Where("user_id = ?", order.InitiatorID).
			Find(&baskets).Error; err != nil {
			return err
		}

		if err := attachProducts(tx, baskets); err != nil {
			return err
		}

		history := models.BasketHistory{
			PurchasedItems: make([]models.PurchasedItem, 0, len(baskets)),
			TotalSum:       models.TotalSum(baskets),
		}
		for i := range baskets {
			b := &baskets[i]
			item := models.PurchasedItem{
				Quantity: b.Quantity,
				LineSum:  b.LineSum(),
			}
			if b.Product != nil {
				item.ProductName = b.Product.Name
				item.UnitPrice = b.Product.Price
			}
			history.PurchasedItems = append(history.PurchasedItems, item)
		}

		payload, err := json.Marshal(history)
		if err != nil {
			return err
		}

		if len(baskets) > 0 {
			if err := tx.Where("user_id = ?", order.InitiatorID).
				Delete(&models.Basket{}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&order).Updates(map[string]interface{}{
			"status":         models.OrderStatusPaid,
			"basket_history": payload,
		}).Error
	})
}

// attachProducts loads the referenced products without relying on Preload
// under a locking clause.
func attachProducts(tx *gorm.DB, baskets []models.Basket) error {
	if len(baskets) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(baskets))
	for i := range baskets {
		ids = append(ids, baskets[i].ProductID)
	}

	var products []models.Product
	if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for i := range baskets {
		baskets[i].Product = byID[baskets[i].ProductID]
	}

	return nil
}

// lockForUpdate adds FOR UPDATE on Postgres. SQLite (used in tests) has no
// row locks and serializes writing transactions instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
