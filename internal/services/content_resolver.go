package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/repos"
	"github.com/planmate/planmate-backend/internal/types"
)

const MaxContentsPerGroup = 9

// ContentProvenance records which entry point is inserting content. It is
// passed down explicitly from the caller, never inferred from the data shape,
// because the same row means different things on different paths.
type ContentProvenance string

const (
	ProvenanceStudent  ContentProvenance = "student"
	ProvenanceAdmin    ContentProvenance = "admin"
	ProvenanceAuto     ContentProvenance = "auto"
	ProvenanceTemplate ContentProvenance = "template"
)

// ContentResolver validates requested study items against the student's own
// book and lecture tables before they are allowed into a plan group.
type ContentResolver interface {
	Resolve(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, requested []WizardContent, provenance ContentProvenance) ([]*types.PlanContent, error)
	EnsureCap(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, incoming int) error
}

type contentResolver struct {
	contents       repos.PlanContentRepo
	studentContent repos.StudentContentRepo
	log            *logger.Logger
}

func NewContentResolver(contents repos.PlanContentRepo, studentContent repos.StudentContentRepo, baseLog *logger.Logger) ContentResolver {
	return &contentResolver{
		contents:       contents,
		studentContent: studentContent,
		log:            baseLog.With("service", "ContentResolver"),
	}
}

// Resolve drops every requested item the student does not own, backfills
// master ids from the owned rows, and resolves an initial range when the
// request does not carry one. Unowned references are excluded silently; a
// stale id must never surface as an error.
func (s *contentResolver) Resolve(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, requested []WizardContent, provenance ContentProvenance) ([]*types.PlanContent, error) {
	if len(requested) == 0 {
		return []*types.PlanContent{}, nil
	}

	books, lectures, err := s.lookupOwned(ctx, tx, academyID, studentID, requested)
	if err != nil {
		return nil, apierr.Database("failed to load student content for ownership check", err)
	}

	resolved := make([]*types.PlanContent, 0, len(requested))
	for i, item := range requested {
		row := &types.PlanContent{
			AcademyID:       academyID,
			ContentType:     item.ContentType,
			ContentID:       item.ContentID,
			MasterContentID: item.MasterContentID,
			StartRange:      item.StartRange,
			EndRange:        item.EndRange,
			DisplayOrder:    item.DisplayOrder,
		}
		if row.DisplayOrder == 0 {
			row.DisplayOrder = i
		}

		switch item.ContentType {
		case types.ContentTypeBook:
			book := matchBook(books, item)
			if book == nil {
				s.log.Debug("dropping unowned book", "student_id", studentID, "content_id", item.ContentID)
				continue
			}
			row.ContentID = book.ID
			if row.MasterContentID == nil {
				row.MasterContentID = book.MasterBookID
			}
			if row.StartRange <= 0 || row.EndRange <= 0 {
				row.StartRange, row.EndRange = s.bookRange(ctx, tx, book)
			}
		case types.ContentTypeLecture:
			lecture := matchLecture(lectures, item)
			if lecture == nil {
				s.log.Debug("dropping unowned lecture", "student_id", studentID, "content_id", item.ContentID)
				continue
			}
			row.ContentID = lecture.ID
			if row.MasterContentID == nil {
				row.MasterContentID = lecture.MasterLectureID
			}
			if row.StartRange <= 0 || row.EndRange <= 0 {
				row.StartRange, row.EndRange = s.lectureRange(ctx, tx, lecture)
			}
		case types.ContentTypeCustom:
			if row.StartRange <= 0 || row.EndRange <= 0 {
				row.StartRange, row.EndRange = 1, 100
			}
		default:
			s.log.Debug("dropping content with unknown type", "content_type", item.ContentType)
			continue
		}

		applyProvenance(row, provenance)
		resolved = append(resolved, row)
	}
	return resolved, nil
}

// EnsureCap enforces the per-group content ceiling against existing plus
// incoming rows, leaving existing content untouched on rejection.
func (s *contentResolver) EnsureCap(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, incoming int) error {
	existing, err := s.contents.CountByGroupID(ctx, tx, groupID)
	if err != nil {
		return apierr.Database("failed to count plan contents", err)
	}
	if existing+int64(incoming) > MaxContentsPerGroup {
		return apierr.Validation("content limit exceeded: group has %d items and %d more were requested, but the maximum is %d",
			existing, incoming, MaxContentsPerGroup)
	}
	return nil
}

func (s *contentResolver) lookupOwned(ctx context.Context, tx *gorm.DB, academyID, studentID uuid.UUID, requested []WizardContent) ([]*types.StudentBook, []*types.StudentLecture, error) {
	var bookIDs, bookMasterIDs, lectureIDs, lectureMasterIDs []uuid.UUID
	for _, item := range requested {
		switch item.ContentType {
		case types.ContentTypeBook:
			bookIDs = append(bookIDs, item.ContentID)
			if item.MasterContentID != nil {
				bookMasterIDs = append(bookMasterIDs, *item.MasterContentID)
			}
		case types.ContentTypeLecture:
			lectureIDs = append(lectureIDs, item.ContentID)
			if item.MasterContentID != nil {
				lectureMasterIDs = append(lectureMasterIDs, *item.MasterContentID)
			}
		}
	}

	books, err := s.studentContent.GetBooksByIDs(ctx, tx, academyID, studentID, bookIDs)
	if err != nil {
		return nil, nil, err
	}
	byMaster, err := s.studentContent.GetBooksByMasterIDs(ctx, tx, academyID, studentID, bookMasterIDs)
	if err != nil {
		return nil, nil, err
	}
	books = append(books, byMaster...)

	lectures, err := s.studentContent.GetLecturesByIDs(ctx, tx, academyID, studentID, lectureIDs)
	if err != nil {
		return nil, nil, err
	}
	lecturesByMaster, err := s.studentContent.GetLecturesByMasterIDs(ctx, tx, academyID, studentID, lectureMasterIDs)
	if err != nil {
		return nil, nil, err
	}
	lectures = append(lectures, lecturesByMaster...)

	return books, lectures, nil
}

func matchBook(owned []*types.StudentBook, item WizardContent) *types.StudentBook {
	for _, book := range owned {
		if book.ID == item.ContentID {
			return book
		}
	}
	if item.MasterContentID != nil {
		for _, book := range owned {
			if book.MasterBookID != nil && *book.MasterBookID == *item.MasterContentID {
				return book
			}
		}
	}
	return nil
}

func matchLecture(owned []*types.StudentLecture, item WizardContent) *types.StudentLecture {
	for _, lecture := range owned {
		if lecture.ID == item.ContentID {
			return lecture
		}
	}
	if item.MasterContentID != nil {
		for _, lecture := range owned {
			if lecture.MasterLectureID != nil && *lecture.MasterLectureID == *item.MasterContentID {
				return lecture
			}
		}
	}
	return nil
}

func (s *contentResolver) bookRange(ctx context.Context, tx *gorm.DB, book *types.StudentBook) (int, int) {
	details, err := s.studentContent.ListBookDetails(ctx, tx, book.ID)
	if err != nil || len(details) == 0 || book.TotalPages <= 0 {
		return 1, 100
	}
	return details[0].StartPage, book.TotalPages
}

func (s *contentResolver) lectureRange(ctx context.Context, tx *gorm.DB, lecture *types.StudentLecture) (int, int) {
	details, err := s.studentContent.ListLectureDetails(ctx, tx, lecture.ID)
	if err != nil || len(details) == 0 || lecture.TotalEpisodes <= 0 {
		return 1, 100
	}
	return details[0].SeqNo, lecture.TotalEpisodes
}

// applyProvenance sets the recommendation pair as a unit. The admin bulk path
// is always forced to a manual admin push so it can never masquerade as an
// automatic system recommendation.
func applyProvenance(row *types.PlanContent, provenance ContentProvenance) {
	switch provenance {
	case ProvenanceAdmin:
		row.IsAutoRecommended = false
		source := types.RecommendationSourceAdmin
		row.RecommendationSource = &source
	case ProvenanceAuto:
		row.IsAutoRecommended = true
		source := types.RecommendationSourceAuto
		row.RecommendationSource = &source
	case ProvenanceTemplate:
		row.IsAutoRecommended = true
		source := types.RecommendationSourceTemplate
		row.RecommendationSource = &source
	default:
		row.IsAutoRecommended = false
		row.RecommendationSource = nil
	}
}
