package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/types"
)

func newResolverFixture() (*fakeContentRepo, *fakeStudentContentRepo, ContentResolver) {
	contents := newFakeContentRepo()
	studentContent := newFakeStudentContentRepo()
	resolver := NewContentResolver(contents, studentContent, testLogger())
	return contents, studentContent, resolver
}

func TestResolveDropsUnownedContentSilently(t *testing.T) {
	academyID, studentID := uuid.New(), uuid.New()
	_, studentContent, resolver := newResolverFixture()

	owned := &types.StudentBook{ID: uuid.New(), AcademyID: academyID, StudentID: studentID, TotalPages: 200}
	studentContent.books = append(studentContent.books, owned)
	studentContent.bookDetails[owned.ID] = []*types.StudentBookDetail{{SeqNo: 1, StartPage: 1, EndPage: 20}}

	requested := []WizardContent{
		{ContentType: types.ContentTypeBook, ContentID: owned.ID},
		{ContentType: types.ContentTypeBook, ContentID: uuid.New()},
	}

	resolved, err := resolver.Resolve(context.Background(), nil, academyID, studentID, requested, ProvenanceStudent)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("resolved count: want=1 got=%d", len(resolved))
	}
	if resolved[0].ContentID != owned.ID {
		t.Fatalf("content id: want=%s got=%s", owned.ID, resolved[0].ContentID)
	}
}

func TestResolveMatchesByMasterIDAndRewritesContentID(t *testing.T) {
	academyID, studentID := uuid.New(), uuid.New()
	_, studentContent, resolver := newResolverFixture()

	masterID := uuid.New()
	owned := &types.StudentBook{ID: uuid.New(), AcademyID: academyID, StudentID: studentID, MasterBookID: &masterID, TotalPages: 150}
	studentContent.books = append(studentContent.books, owned)
	studentContent.bookDetails[owned.ID] = []*types.StudentBookDetail{{SeqNo: 1, StartPage: 5, EndPage: 30}}

	// The caller holds a stale per-student id but the right master id.
	requested := []WizardContent{
		{ContentType: types.ContentTypeBook, ContentID: uuid.New(), MasterContentID: &masterID},
	}

	resolved, err := resolver.Resolve(context.Background(), nil, academyID, studentID, requested, ProvenanceStudent)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("resolved count: want=1 got=%d", len(resolved))
	}
	if resolved[0].ContentID != owned.ID {
		t.Fatalf("content id must be rewritten to the owned row: want=%s got=%s", owned.ID, resolved[0].ContentID)
	}
	if resolved[0].MasterContentID == nil || *resolved[0].MasterContentID != masterID {
		t.Fatalf("master content id: want=%s got=%v", masterID, resolved[0].MasterContentID)
	}
}

func TestResolveBackfillsMasterIDFromOwnedRow(t *testing.T) {
	academyID, studentID := uuid.New(), uuid.New()
	_, studentContent, resolver := newResolverFixture()

	masterID := uuid.New()
	owned := &types.StudentLecture{ID: uuid.New(), AcademyID: academyID, StudentID: studentID, MasterLectureID: &masterID, TotalEpisodes: 24}
	studentContent.lectures = append(studentContent.lectures, owned)
	studentContent.lectureDetails[owned.ID] = []*types.StudentLectureDetail{{SeqNo: 1}}

	requested := []WizardContent{
		{ContentType: types.ContentTypeLecture, ContentID: owned.ID},
	}

	resolved, err := resolver.Resolve(context.Background(), nil, academyID, studentID, requested, ProvenanceStudent)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("resolved count: want=1 got=%d", len(resolved))
	}
	if resolved[0].MasterContentID == nil || *resolved[0].MasterContentID != masterID {
		t.Fatalf("master id should be backfilled from the owned row: got=%v", resolved[0].MasterContentID)
	}
	if resolved[0].StartRange != 1 || resolved[0].EndRange != 24 {
		t.Fatalf("lecture range: want=[1,24] got=[%d,%d]", resolved[0].StartRange, resolved[0].EndRange)
	}
}

func TestResolveFallsBackToDefaultRange(t *testing.T) {
	academyID, studentID := uuid.New(), uuid.New()
	_, studentContent, resolver := newResolverFixture()

	// Owned book with no detail rows: the default range applies.
	owned := &types.StudentBook{ID: uuid.New(), AcademyID: academyID, StudentID: studentID, TotalPages: 300}
	studentContent.books = append(studentContent.books, owned)

	requested := []WizardContent{
		{ContentType: types.ContentTypeBook, ContentID: owned.ID},
		{ContentType: types.ContentTypeCustom, ContentID: uuid.New()},
	}

	resolved, err := resolver.Resolve(context.Background(), nil, academyID, studentID, requested, ProvenanceStudent)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("resolved count: want=2 got=%d", len(resolved))
	}
	for _, row := range resolved {
		if row.StartRange != 1 || row.EndRange != 100 {
			t.Fatalf("fallback range: want=[1,100] got=[%d,%d] for %s", row.StartRange, row.EndRange, row.ContentType)
		}
	}
}

func TestResolveKeepsExplicitRange(t *testing.T) {
	academyID, studentID := uuid.New(), uuid.New()
	_, studentContent, resolver := newResolverFixture()

	owned := &types.StudentBook{ID: uuid.New(), AcademyID: academyID, StudentID: studentID, TotalPages: 300}
	studentContent.books = append(studentContent.books, owned)

	requested := []WizardContent{
		{ContentType: types.ContentTypeBook, ContentID: owned.ID, StartRange: 10, EndRange: 40},
	}

	resolved, err := resolver.Resolve(context.Background(), nil, academyID, studentID, requested, ProvenanceStudent)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved[0].StartRange != 10 || resolved[0].EndRange != 40 {
		t.Fatalf("explicit range must survive: got=[%d,%d]", resolved[0].StartRange, resolved[0].EndRange)
	}
}

func TestResolveAppliesProvenance(t *testing.T) {
	academyID, studentID := uuid.New(), uuid.New()
	_, _, resolver := newResolverFixture()

	requested := []WizardContent{
		{ContentType: types.ContentTypeCustom, ContentID: uuid.New()},
	}

	cases := []struct {
		provenance ContentProvenance
		wantAuto   bool
		wantSource *string
	}{
		{ProvenanceStudent, false, nil},
		{ProvenanceAdmin, false, strPtr(types.RecommendationSourceAdmin)},
		{ProvenanceAuto, true, strPtr(types.RecommendationSourceAuto)},
		{ProvenanceTemplate, true, strPtr(types.RecommendationSourceTemplate)},
	}
	for _, tc := range cases {
		resolved, err := resolver.Resolve(context.Background(), nil, academyID, studentID, requested, tc.provenance)
		if err != nil {
			t.Fatalf("resolve failed for %s: %v", tc.provenance, err)
		}
		row := resolved[0]
		if row.IsAutoRecommended != tc.wantAuto {
			t.Fatalf("%s: is_auto_recommended want=%v got=%v", tc.provenance, tc.wantAuto, row.IsAutoRecommended)
		}
		if tc.wantSource == nil {
			if row.RecommendationSource != nil {
				t.Fatalf("%s: recommendation_source want=nil got=%v", tc.provenance, *row.RecommendationSource)
			}
		} else if row.RecommendationSource == nil || *row.RecommendationSource != *tc.wantSource {
			t.Fatalf("%s: recommendation_source want=%s got=%v", tc.provenance, *tc.wantSource, row.RecommendationSource)
		}
	}
}

func TestEnsureCapCountsExistingAndIncoming(t *testing.T) {
	contents, _, resolver := newResolverFixture()
	groupID := uuid.New()
	for i := 0; i < 7; i++ {
		contents.rows = append(contents.rows, &types.PlanContent{ID: uuid.New(), PlanGroupID: groupID})
	}

	if err := resolver.EnsureCap(context.Background(), nil, groupID, 2); err != nil {
		t.Fatalf("7 existing + 2 incoming should fit: %v", err)
	}

	err := resolver.EnsureCap(context.Background(), nil, groupID, 3)
	if err == nil {
		t.Fatal("7 existing + 3 incoming must exceed the cap")
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Code != apierr.CodeValidation {
		t.Fatalf("error code: want=%s got=%v", apierr.CodeValidation, err)
	}
}
