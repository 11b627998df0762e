package repo

import (
	"context"

	"gorm.io/gorm"

	"posgate/internal/models"
)

type TerminalGroupStore struct{ db *gorm.DB }

func NewTerminalGroupStore(db *gorm.DB) *TerminalGroupStore { return &TerminalGroupStore{db: db} }

func (s *TerminalGroupStore) Create(ctx context.Context, tg *models.TerminalGroup) error {
	return dbErr(s.db.WithContext(ctx).Create(tg).Error)
}

func (s *TerminalGroupStore) ListByOrganizations(ctx context.Context, orgIDs []uint) ([]models.TerminalGroup, error) {
	out := []models.TerminalGroup{}
	if len(orgIDs) == 0 {
		return out, nil
	}
	if err := s.db.WithContext(ctx).Where("organization_id IN ?", orgIDs).Order("id").Find(&out).Error; err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}

func (s *TerminalGroupStore) ListByIDs(ctx context.Context, ids []uint) ([]models.TerminalGroup, error) {
	out := []models.TerminalGroup{}
	if len(ids) == 0 {
		return out, nil
	}
	for part := range batches(uniq(ids)) {
		var chunk []models.TerminalGroup
		if err := s.db.WithContext(ctx).Where("id IN ?", part).Order("id").Find(&chunk).Error; err != nil {
			return nil, dbErr(err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// GetInOrganization возвращает ErrNotFound, если группа не из этой организации.
func (s *TerminalGroupStore) GetInOrganization(ctx context.Context, id, orgID uint) (*models.TerminalGroup, error) {
	var tg models.TerminalGroup
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&tg).Error
	if err != nil {
		return nil, dbErr(err)
	}
	return &tg, nil
}
