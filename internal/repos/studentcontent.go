package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/types"
)

// StudentContentRepo reads the student-owned book/lecture tables the content
// resolver validates ownership against. Every query is scoped to
// (academy_id, student_id).
type StudentContentRepo interface {
	GetBooksByIDs(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, ids []uuid.UUID) ([]*types.StudentBook, error)
	GetBooksByMasterIDs(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, masterIDs []uuid.UUID) ([]*types.StudentBook, error)
	ListBookDetails(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) ([]*types.StudentBookDetail, error)
	GetLecturesByIDs(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, ids []uuid.UUID) ([]*types.StudentLecture, error)
	GetLecturesByMasterIDs(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, masterIDs []uuid.UUID) ([]*types.StudentLecture, error)
	ListLectureDetails(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) ([]*types.StudentLectureDetail, error)
}

type studentContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentContentRepo(db *gorm.DB, baseLog *logger.Logger) StudentContentRepo {
	return &studentContentRepo{db: db, log: baseLog.With("repo", "StudentContentRepo")}
}

func (r *studentContentRepo) GetBooksByIDs(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, ids []uuid.UUID) ([]*types.StudentBook, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StudentBook
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("academy_id = ? AND student_id = ? AND id IN ?", academyID, studentID, ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentContentRepo) GetBooksByMasterIDs(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, masterIDs []uuid.UUID) ([]*types.StudentBook, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StudentBook
	if len(masterIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("academy_id = ? AND student_id = ? AND master_book_id IN ?", academyID, studentID, masterIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentContentRepo) ListBookDetails(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) ([]*types.StudentBookDetail, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StudentBookDetail
	if err := transaction.WithContext(ctx).
		Where("student_book_id = ?", bookID).
		Order("seq_no ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentContentRepo) GetLecturesByIDs(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, ids []uuid.UUID) ([]*types.StudentLecture, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StudentLecture
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("academy_id = ? AND student_id = ? AND id IN ?", academyID, studentID, ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentContentRepo) GetLecturesByMasterIDs(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, masterIDs []uuid.UUID) ([]*types.StudentLecture, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StudentLecture
	if len(masterIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("academy_id = ? AND student_id = ? AND master_lecture_id IN ?", academyID, studentID, masterIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentContentRepo) ListLectureDetails(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) ([]*types.StudentLectureDetail, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StudentLectureDetail
	if err := transaction.WithContext(ctx).
		Where("student_lecture_id = ?", lectureID).
		Order("seq_no ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
