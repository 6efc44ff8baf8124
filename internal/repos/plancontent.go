package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/types"
)

type PlanContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.PlanContent) ([]*types.PlanContent, error)
	ListByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.PlanContent, error)
	CountByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (int64, error)
	UpdateRangeByMasterContent(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, contentType string, masterContentID uuid.UUID, startRange, endRange int) (int64, error)
	FullDeleteByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error
}

type planContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanContentRepo(db *gorm.DB, baseLog *logger.Logger) PlanContentRepo {
	return &planContentRepo{db: db, log: baseLog.With("repo", "PlanContentRepo")}
}

func (r *planContentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PlanContent) ([]*types.PlanContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.PlanContent{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *planContentRepo) ListByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.PlanContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PlanContent
	if err := transaction.WithContext(ctx).
		Where("plan_group_id = ?", groupID).
		Order("display_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planContentRepo) CountByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.PlanContent{}).
		Where("plan_group_id = ?", groupID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *planContentRepo) UpdateRangeByMasterContent(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, contentType string, masterContentID uuid.UUID, startRange, endRange int) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.PlanContent{}).
		Where("plan_group_id = ? AND content_type = ? AND master_content_id = ?", groupID, contentType, masterContentID).
		Updates(map[string]interface{}{"start_range": startRange, "end_range": endRange})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *planContentRepo) FullDeleteByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(groupIDs) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).
		Where("plan_group_id IN ?", groupIDs).
		Delete(&types.PlanContent{}).Error; err != nil {
		return err
	}
	return nil
}
