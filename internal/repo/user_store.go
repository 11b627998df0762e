package repo

import (
	"context"

	"gorm.io/gorm"

	"posgate/internal/models"
)

// UserStore — хранилище учётных записей.
type UserStore struct{ db *gorm.DB }

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{db: db} }

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.User{}).Where("username = ?", u.Username)
		if u.Email != nil {
			q = q.Or("email = ?", *u.Email)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return dbErr(err)
		}
		if n > 0 {
			return ErrDuplicate
		}
		return dbErr(tx.Create(u).Error)
	})
}

func (s *UserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, dbErr(err)
	}
	return &u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, dbErr(err)
	}
	return &u, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id uint, digest string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("hashed_password", digest)
	if res.Error != nil {
		return dbErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCascade удаляет пользователя и всё, чем он владеет, в одной транзакции.
func (s *UserStore) DeleteCascade(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return dbErr(err)
		}
		if n == 0 {
			return ErrNotFound
		}

		var orgIDs []uint
		if err := tx.Model(&models.Organization{}).Where("owner_id = ?", id).Pluck("id", &orgIDs).Error; err != nil {
			return dbErr(err)
		}
		if len(orgIDs) > 0 {
			if err := deleteOrganizations(tx, orgIDs); err != nil {
				return err
			}
		}

		if err := tx.Where("owner_id = ?", id).Delete(&models.Operation{}).Error; err != nil {
			return dbErr(err)
		}
		return dbErr(tx.Delete(&models.User{}, id).Error)
	})
}

// deleteOrganizations сносит организации вместе с вложенными ресурсами;
// дети удаляются раньше родителей.
func deleteOrganizations(tx *gorm.DB, orgIDs []uint) error {
	var orderIDs, ptIDs, tgIDs, discountIDs, corrIDs []uint
	plucks := []struct {
		model any
		dst   *[]uint
	}{
		{&models.Order{}, &orderIDs},
		{&models.PaymentType{}, &ptIDs},
		{&models.TerminalGroup{}, &tgIDs},
		{&models.Discount{}, &discountIDs},
		{&models.Correlation{}, &corrIDs},
	}
	for _, p := range plucks {
		if err := tx.Model(p.model).Where("organization_id IN ?", orgIDs).Pluck("id", p.dst).Error; err != nil {
			return dbErr(err)
		}
	}

	steps := []struct {
		model any
		col   string
		ids   []uint
	}{
		{&models.Payment{}, "order_id", orderIDs},
		{&models.Order{}, "id", orderIDs},
		{&models.MarketingCampaign{}, "payment_type_id", ptIDs},
		{&models.ProductCategoryDiscount{}, "discount_id", discountIDs},
		{&models.Discount{}, "id", discountIDs},
		{&models.CancelCause{}, "correlation_id", corrIDs},
		{&models.Correlation{}, "id", corrIDs},
		{&models.OrderType{}, "organization_id", orgIDs},
	}
	for _, st := range steps {
		if len(st.ids) == 0 {
			continue
		}
		if err := tx.Where(st.col+" IN ?", st.ids).Delete(st.model).Error; err != nil {
			return dbErr(err)
		}
	}

	if len(ptIDs) > 0 || len(tgIDs) > 0 {
		if err := tx.Exec("DELETE FROM payment_type_terminal_groups WHERE payment_type_id IN ? OR terminal_group_id IN ?",
			orNull(ptIDs), orNull(tgIDs)).Error; err != nil {
			return dbErr(err)
		}
	}
	if len(ptIDs) > 0 {
		if err := tx.Where("id IN ?", ptIDs).Delete(&models.PaymentType{}).Error; err != nil {
			return dbErr(err)
		}
	}
	if len(tgIDs) > 0 {
		if err := tx.Where("id IN ?", tgIDs).Delete(&models.TerminalGroup{}).Error; err != nil {
			return dbErr(err)
		}
	}
	return dbErr(tx.Where("id IN ?", orgIDs).Delete(&models.Organization{}).Error)
}

// orNull нужен, чтобы "IN ?" с пустым срезом не ломал запрос.
func orNull(ids []uint) []uint {
	if len(ids) == 0 {
		return []uint{0}
	}
	return ids
}
