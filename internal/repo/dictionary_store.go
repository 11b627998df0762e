package repo

import (
	"context"

	"gorm.io/gorm"

	"posgate/internal/models"
)

// DefaultCorrelation — имя корреляции, если клиент его не указал.
const DefaultCorrelation = "default"

// DictionaryStore обслуживает справочники: типы заказов, скидки,
// типы оплат и причины отмены.
type DictionaryStore struct{ db *gorm.DB }

func NewDictionaryStore(db *gorm.DB) *DictionaryStore { return &DictionaryStore{db: db} }

func (s *DictionaryStore) CreateOrderType(ctx context.Context, ot *models.OrderType) error {
	return dbErr(s.db.WithContext(ctx).Create(ot).Error)
}

func (s *DictionaryStore) OrderTypes(ctx context.Context, orgIDs []uint) ([]models.OrderType, error) {
	out := []models.OrderType{}
	if len(orgIDs) == 0 {
		return out, nil
	}
	if err := s.db.WithContext(ctx).Where("organization_id IN ?", orgIDs).Order("id").Find(&out).Error; err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}

// CreateDiscount сохраняет скидку вместе с категориями.
func (s *DictionaryStore) CreateDiscount(ctx context.Context, d *models.Discount) error {
	return dbErr(s.db.WithContext(ctx).Create(d).Error)
}

func (s *DictionaryStore) Discounts(ctx context.Context, orgIDs []uint) ([]models.Discount, error) {
	out := []models.Discount{}
	if len(orgIDs) == 0 {
		return out, nil
	}
	err := s.db.WithContext(ctx).
		Preload("ProductCategories", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("organization_id IN ?", orgIDs).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}

// CreatePaymentType сохраняет тип оплаты с кампаниями и привязкой к
// терминальным группам tgIDs (они должны быть уже проверены на владение).
func (s *DictionaryStore) CreatePaymentType(ctx context.Context, pt *models.PaymentType, tgIDs []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(tgIDs) > 0 {
			var groups []models.TerminalGroup
			if err := tx.Where("id IN ?", tgIDs).Find(&groups).Error; err != nil {
				return dbErr(err)
			}
			pt.TerminalGroups = groups
		}
		return dbErr(tx.Omit("TerminalGroups.*").Create(pt).Error)
	})
}

func (s *DictionaryStore) PaymentTypes(ctx context.Context, orgIDs []uint) ([]models.PaymentType, error) {
	out := []models.PaymentType{}
	if len(orgIDs) == 0 {
		return out, nil
	}
	err := s.db.WithContext(ctx).
		Preload("Campaigns", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("TerminalGroups", func(db *gorm.DB) *gorm.DB { return db.Order("terminal_groups.id") }).
		Where("organization_id IN ?", orgIDs).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}

// CreateCancelCause кладёт причину отмены в корреляцию name организации,
// создавая корреляцию при необходимости.
func (s *DictionaryStore) CreateCancelCause(ctx context.Context, orgID uint, correlation string, cc *models.CancelCause) error {
	if correlation == "" {
		correlation = DefaultCorrelation
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		corr := models.Correlation{OrganizationID: orgID, Name: correlation}
		if err := tx.Where(&corr).FirstOrCreate(&corr).Error; err != nil {
			return dbErr(err)
		}
		cc.CorrelationID = corr.ID
		return dbErr(tx.Create(cc).Error)
	})
}

// CancelCauses возвращает причины отмены по корреляциям организаций orgIDs.
func (s *DictionaryStore) CancelCauses(ctx context.Context, orgIDs []uint) ([]models.CancelCause, error) {
	out := []models.CancelCause{}
	if len(orgIDs) == 0 {
		return out, nil
	}
	corr := s.db.Model(&models.Correlation{}).Select("id").Where("organization_id IN ?", orgIDs)
	if err := s.db.WithContext(ctx).Where("correlation_id IN (?)", corr).Order("id").Find(&out).Error; err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}
