package repo

import (
	"context"

	"gorm.io/gorm"

	"posgate/internal/models"
)

type OrganizationStore struct{ db *gorm.DB }

func NewOrganizationStore(db *gorm.DB) *OrganizationStore { return &OrganizationStore{db: db} }

func (s *OrganizationStore) Create(ctx context.Context, o *models.Organization) error {
	return dbErr(s.db.WithContext(ctx).Create(o).Error)
}

// ListByIDs возвращает организации из ids; ids должны быть уже отфильтрованы
// по владельцу.
func (s *OrganizationStore) ListByIDs(ctx context.Context, ids []uint, includeDisabled bool) ([]models.Organization, error) {
	out := []models.Organization{}
	if len(ids) == 0 {
		return out, nil
	}
	for part := range batches(uniq(ids)) {
		q := s.db.WithContext(ctx).Where("id IN ?", part)
		if !includeDisabled {
			q = q.Where("is_disabled = ?", false)
		}
		var chunk []models.Organization
		if err := q.Order("id").Find(&chunk).Error; err != nil {
			return nil, dbErr(err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}
