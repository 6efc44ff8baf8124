package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/types"
)

type BlockSetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.BlockSet) ([]*types.BlockSet, error)
	GetByID(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID) (*types.BlockSet, error)
	GetTemplateLink(ctx context.Context, tx *gorm.DB, academyID, templateID uuid.UUID) (*types.TemplateBlockSet, error)
	CreateTemplateLink(ctx context.Context, tx *gorm.DB, row *types.TemplateBlockSet) error
}

type blockSetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBlockSetRepo(db *gorm.DB, baseLog *logger.Logger) BlockSetRepo {
	return &blockSetRepo{db: db, log: baseLog.With("repo", "BlockSetRepo")}
}

func (r *blockSetRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.BlockSet) ([]*types.BlockSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.BlockSet{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *blockSetRepo) GetByID(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID) (*types.BlockSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.BlockSet
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

func (r *blockSetRepo) GetTemplateLink(ctx context.Context, tx *gorm.DB, academyID, templateID uuid.UUID) (*types.TemplateBlockSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.TemplateBlockSet
	err := transaction.WithContext(ctx).
		Where("academy_id = ? AND camp_template_id = ?", academyID, templateID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *blockSetRepo) CreateTemplateLink(ctx context.Context, tx *gorm.DB, row *types.TemplateBlockSet) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}
