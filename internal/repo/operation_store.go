package repo

import (
	"context"

	"gorm.io/gorm"

	"posgate/internal/models"
)

// OperationStore хранит уведомления, отправленные во внешние системы.
type OperationStore struct{ db *gorm.DB }

func NewOperationStore(db *gorm.DB) *OperationStore { return &OperationStore{db: db} }

func (s *OperationStore) Create(ctx context.Context, op *models.Operation) error {
	return dbErr(s.db.WithContext(ctx).Create(op).Error)
}
