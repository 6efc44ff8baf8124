package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/types"
)

type CampTemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.CampTemplate) ([]*types.CampTemplate, error)
	GetByID(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID) (*types.CampTemplate, error)
	ListByAcademy(ctx context.Context, tx *gorm.DB, academyID uuid.UUID) ([]*types.CampTemplate, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID, updates map[string]interface{}) error
	CreateSlotTemplates(ctx context.Context, tx *gorm.DB, rows []*types.CampSlotTemplate) ([]*types.CampSlotTemplate, error)
	ListSlotTemplates(ctx context.Context, tx *gorm.DB, academyID, templateID uuid.UUID) ([]*types.CampSlotTemplate, error)
}

type campTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCampTemplateRepo(db *gorm.DB, baseLog *logger.Logger) CampTemplateRepo {
	return &campTemplateRepo{db: db, log: baseLog.With("repo", "CampTemplateRepo")}
}

func (r *campTemplateRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CampTemplate) ([]*types.CampTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.CampTemplate{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *campTemplateRepo) GetByID(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID) (*types.CampTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.CampTemplate
	err := transaction.WithContext(ctx).
		Where("academy_id = ? AND id = ?", academyID, id).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *campTemplateRepo) ListByAcademy(ctx context.Context, tx *gorm.DB, academyID uuid.UUID) ([]*types.CampTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CampTemplate
	if err := transaction.WithContext(ctx).
		Where("academy_id = ?", academyID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *campTemplateRepo) UpdateFields(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.CampTemplate{}).
		Where("academy_id = ? AND id = ?", academyID, id).
		Updates(updates).Error
}

func (r *campTemplateRepo) CreateSlotTemplates(ctx context.Context, tx *gorm.DB, rows []*types.CampSlotTemplate) ([]*types.CampSlotTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.CampSlotTemplate{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *campTemplateRepo) ListSlotTemplates(ctx context.Context, tx *gorm.DB, academyID, templateID uuid.UUID) ([]*types.CampSlotTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CampSlotTemplate
	if err := transaction.WithContext(ctx).
		Where("academy_id = ? AND camp_template_id = ?", academyID, templateID).
		Order("display_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
