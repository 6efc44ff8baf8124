package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/types"
)

type StudentPlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.StudentPlan) ([]*types.StudentPlan, error)
	CountByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (int64, error)
	CountByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	FullDeleteByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error
}

type studentPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudentPlanRepo {
	return &studentPlanRepo{db: db, log: baseLog.With("repo", "StudentPlanRepo")}
}

func (r *studentPlanRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.StudentPlan) ([]*types.StudentPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.StudentPlan{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *studentPlanRepo) CountByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.StudentPlan{}).
		Where("plan_group_id = ?", groupID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByGroupIDs batches the plan-existence guard for bulk status changes
// into one query instead of N.
func (r *studentPlanRepo) CountByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	counts := make(map[uuid.UUID]int64, len(groupIDs))
	if len(groupIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PlanGroupID uuid.UUID
		Total       int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.StudentPlan{}).
		Select("plan_group_id, count(*) as total").
		Where("plan_group_id IN ?", groupIDs).
		Group("plan_group_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PlanGroupID] = row.Total
	}
	return counts, nil
}

func (r *studentPlanRepo) FullDeleteByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(groupIDs) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).
		Where("plan_group_id IN ?", groupIDs).
		Delete(&types.StudentPlan{}).Error; err != nil {
		return err
	}
	return nil
}
