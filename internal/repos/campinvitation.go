package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/types"
)

type CampInvitationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.CampInvitation) ([]*types.CampInvitation, error)
	GetByID(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID) (*types.CampInvitation, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID) ([]*types.CampInvitation, error)
	ListByTemplate(ctx context.Context, tx *gorm.DB, academyID, templateID uuid.UUID) ([]*types.CampInvitation, error)
	ListExpiredPending(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.CampInvitation, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type campInvitationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCampInvitationRepo(db *gorm.DB, baseLog *logger.Logger) CampInvitationRepo {
	return &campInvitationRepo{db: db, log: baseLog.With("repo", "CampInvitationRepo")}
}

func (r *campInvitationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CampInvitation) ([]*types.CampInvitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.CampInvitation{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *campInvitationRepo) GetByID(ctx context.Context, tx *gorm.DB, academyID, id uuid.UUID) (*types.CampInvitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.CampInvitation
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

func (r *campInvitationRepo) ListByStudent(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID) ([]*types.CampInvitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CampInvitation
	if err := transaction.WithContext(ctx).
		Where("academy_id = ? AND student_id = ?", academyID, studentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *campInvitationRepo) ListByTemplate(ctx context.Context, tx *gorm.DB, academyID, templateID uuid.UUID) ([]*types.CampInvitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CampInvitation
	if err := transaction.WithContext(ctx).
		Where("academy_id = ? AND camp_template_id = ?", academyID, templateID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *campInvitationRepo) ListExpiredPending(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.CampInvitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CampInvitation
	if err := transaction.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", types.InvitationStatusPending, now).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *campInvitationRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.CampInvitation{}).
		Where("id = ?", id).
		Updates(updates).Error
}
