package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/types"
)

type PlanExclusionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.PlanExclusion) ([]*types.PlanExclusion, error)
	ListByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.PlanExclusion, error)
	FullDeleteByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error
}

type planExclusionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanExclusionRepo(db *gorm.DB, baseLog *logger.Logger) PlanExclusionRepo {
	return &planExclusionRepo{db: db, log: baseLog.With("repo", "PlanExclusionRepo")}
}

func (r *planExclusionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PlanExclusion) ([]*types.PlanExclusion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.PlanExclusion{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *planExclusionRepo) ListByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.PlanExclusion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PlanExclusion
	if err := transaction.WithContext(ctx).
		Where("plan_group_id = ?", groupID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planExclusionRepo) FullDeleteByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(groupIDs) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).
		Where("plan_group_id IN ?", groupIDs).
		Delete(&types.PlanExclusion{}).Error; err != nil {
		return err
	}
	return nil
}
