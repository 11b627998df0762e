package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"posgate/internal/models"
)

type OrderStore struct{ db *gorm.DB }

func NewOrderStore(db *gorm.DB) *OrderStore { return &OrderStore{db: db} }

// Create сохраняет заказ вместе с оплатами и присваивает correlation id.
func (s *OrderStore) Create(ctx context.Context, o *models.Order) error {
	if o.CorrelationID == "" {
		o.CorrelationID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = models.OrderStatusNew
	}
	return dbErr(s.db.WithContext(ctx).Create(o).Error)
}

func (s *OrderStore) Get(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&o, id).Error
	if err != nil {
		return nil, dbErr(err)
	}
	return &o, nil
}

// ListByIDs возвращает заказы организации orgID из списка ids, по возрастанию id.
func (s *OrderStore) ListByIDs(ctx context.Context, orgID uint, ids []uint) ([]models.Order, error) {
	out := []models.Order{}
	if len(ids) == 0 {
		return out, nil
	}
	for part := range batches(uniq(ids)) {
		var chunk []models.Order
		err := s.db.WithContext(ctx).
			Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
			Where("organization_id = ? AND id IN ?", orgID, part).
			Order("id").
			Find(&chunk).Error
		if err != nil {
			return nil, dbErr(err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// ReplacePayments заменяет оплаты заказа. Если хоть одна оплата уже
// фискализирована, ничего не меняется и возвращается ErrConflict.
func (s *OrderStore) ReplacePayments(ctx context.Context, orderID uint, payments []models.Payment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Count(&n).Error; err != nil {
			return dbErr(err)
		}
		if n == 0 {
			return ErrNotFound
		}

		var fiscalized int64
		err := tx.Model(&models.Payment{}).
			Where("order_id = ? AND is_fiscalized_externally = ?", orderID, true).
			Count(&fiscalized).Error
		if err != nil {
			return dbErr(err)
		}
		if fiscalized > 0 {
			return ErrConflict
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&models.Payment{}).Error; err != nil {
			return dbErr(err)
		}
		if len(payments) > 0 {
			for i := range payments {
				payments[i].ID = 0
				payments[i].OrderID = orderID
			}
			if err := tx.Create(&payments).Error; err != nil {
				return dbErr(err)
			}
		}
		err = tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", models.OrderStatusUpdated).Error
		return dbErr(err)
	})
}
