package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/types"
)

type AcademyScheduleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.AcademySchedule) ([]*types.AcademySchedule, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID) ([]*types.AcademySchedule, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type academyScheduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAcademyScheduleRepo(db *gorm.DB, baseLog *logger.Logger) AcademyScheduleRepo {
	return &academyScheduleRepo{db: db, log: baseLog.With("repo", "AcademyScheduleRepo")}
}

func (r *academyScheduleRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.AcademySchedule) ([]*types.AcademySchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.AcademySchedule{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *academyScheduleRepo) ListByStudent(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID) ([]*types.AcademySchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.AcademySchedule
	if err := transaction.WithContext(ctx).
		Where("academy_id = ? AND student_id = ?", academyID, studentID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *academyScheduleRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.AcademySchedule{}).Error; err != nil {
		return err
	}
	return nil
}
