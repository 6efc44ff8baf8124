package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/types"
)

type PlanGroupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.PlanGroup) ([]*types.PlanGroup, error)
	GetByID(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID) (*types.PlanGroup, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, academyID uuid.UUID, ids []uuid.UUID) ([]*types.PlanGroup, error)
	GetByInvitationID(ctx context.Context, tx *gorm.DB, academyID, invitationID uuid.UUID) (*types.PlanGroup, error)
	ListByTemplateAndStudent(ctx context.Context, tx *gorm.DB, academyID, templateID, studentID uuid.UUID) ([]*types.PlanGroup, error)
	ListActiveByStudent(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID) ([]*types.PlanGroup, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID, updates map[string]interface{}) error
	UpdateStatusByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, status string) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type planGroupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanGroupRepo(db *gorm.DB, baseLog *logger.Logger) PlanGroupRepo {
	return &planGroupRepo{db: db, log: baseLog.With("repo", "PlanGroupRepo")}
}

func (r *planGroupRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PlanGroup) ([]*types.PlanGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.PlanGroup{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *planGroupRepo) GetByID(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID) (*types.PlanGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.PlanGroup
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

func (r *planGroupRepo) GetByIDs(ctx context.Context, tx *gorm.DB, academyID uuid.UUID, ids []uuid.UUID) ([]*types.PlanGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PlanGroup
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("academy_id = ? AND id IN ?", academyID, ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planGroupRepo) GetByInvitationID(ctx context.Context, tx *gorm.DB, academyID, invitationID uuid.UUID) (*types.PlanGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.PlanGroup
	err := transaction.WithContext(ctx).
		Where("academy_id = ? AND camp_invitation_id = ?", academyID, invitationID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *planGroupRepo) ListByTemplateAndStudent(ctx context.Context, tx *gorm.DB, academyID, templateID, studentID uuid.UUID) ([]*types.PlanGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PlanGroup
	if err := transaction.WithContext(ctx).
		Where("academy_id = ? AND camp_template_id = ? AND student_id = ?", academyID, templateID, studentID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListActiveByStudent returns every active group for the student. Callers
// filter by derived plan mode in memory because camp membership can come from
// either plan_type or a non-null template reference.
func (r *planGroupRepo) ListActiveByStudent(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID) ([]*types.PlanGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PlanGroup
	if err := transaction.WithContext(ctx).
		Where("academy_id = ? AND student_id = ? AND status = ?",
			academyID, studentID, types.PlanGroupStatusActive).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planGroupRepo) UpdateFields(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.PlanGroup{}).
		Where("academy_id = ? AND id = ?", academyID, id).
		Updates(updates).Error
}

func (r *planGroupRepo) UpdateStatusByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.PlanGroup{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}

func (r *planGroupRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&types.PlanGroup{}).Error; err != nil {
		return err
	}
	return nil
}
