package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/types"
)

func TestSyncWizardDataToCreationDataParsesDates(t *testing.T) {
	wizard := WizardData{
		PeriodStart: strPtr("2026-01-05"),
		PeriodEnd:   strPtr("2026-01-30"),
		Exclusions: []WizardExclusion{
			{ExclusionDate: "2026-01-10", ExclusionType: ExclusionTypePersonal},
		},
	}

	creation, err := SyncWizardDataToCreationData(wizard)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if creation.PeriodStart == nil || !creation.PeriodStart.Equal(mustDate("2026-01-05")) {
		t.Fatalf("period start: want=2026-01-05 got=%v", creation.PeriodStart)
	}
	if creation.PeriodEnd == nil || !creation.PeriodEnd.Equal(mustDate("2026-01-30")) {
		t.Fatalf("period end: want=2026-01-30 got=%v", creation.PeriodEnd)
	}
	if len(creation.Exclusions) != 1 {
		t.Fatalf("exclusion count: want=1 got=%d", len(creation.Exclusions))
	}
	if creation.Exclusions[0].Source != types.ExclusionSourceStudent {
		t.Fatalf("default source: want=%s got=%s", types.ExclusionSourceStudent, creation.Exclusions[0].Source)
	}
}

func TestSyncWizardDataToCreationDataRejectsBadDate(t *testing.T) {
	wizard := WizardData{PeriodStart: strPtr("05/01/2026")}

	_, err := SyncWizardDataToCreationData(wizard)
	if err == nil {
		t.Fatal("expected a validation error for a malformed date")
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Code != apierr.CodeValidation {
		t.Fatalf("error code: want=%s got=%v", apierr.CodeValidation, err)
	}
}

func TestSyncWizardDataToCreationDataDefaultsDirectiveToOmit(t *testing.T) {
	creation, err := SyncWizardDataToCreationData(WizardData{})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if creation.Contents.Mode != DirectiveOmit {
		t.Fatalf("directive mode: want=%s got=%s", DirectiveOmit, creation.Contents.Mode)
	}
	if creation.Exclusions == nil || creation.AcademySchedules == nil || creation.SchedulerOptions == nil {
		t.Fatal("collections must never come out nil")
	}
}

func TestSyncWizardDataToCreationDataKeepsDirectiveMeaning(t *testing.T) {
	clear, err := SyncWizardDataToCreationData(WizardData{Contents: ClearContents()})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if clear.Contents.Mode != DirectiveClear {
		t.Fatalf("clear mode: want=%s got=%s", DirectiveClear, clear.Contents.Mode)
	}

	replaceEmpty, err := SyncWizardDataToCreationData(WizardData{Contents: ReplaceContents(nil)})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if replaceEmpty.Contents.Mode != DirectiveReplace {
		t.Fatalf("replace mode: want=%s got=%s", DirectiveReplace, replaceEmpty.Contents.Mode)
	}
	if replaceEmpty.Contents.Values == nil {
		t.Fatal("replace with no values must still carry an empty list")
	}
}

func TestWizardRoundTripPreservesData(t *testing.T) {
	reason := "family trip"
	contentID := uuid.New()
	wizard := WizardData{
		PeriodStart:      strPtr("2026-02-01"),
		PeriodEnd:        strPtr("2026-02-28"),
		SchedulerOptions: map[string]interface{}{"dailyStudyMinutes": 120.0},
		Exclusions: []WizardExclusion{
			{ExclusionDate: "2026-02-10", ExclusionType: ExclusionTypeVacation, Reason: &reason, Source: types.ExclusionSourceStudent},
		},
		AcademySchedules: []WizardSchedule{
			{DayOfWeek: 1, StartTime: "16:00", EndTime: "18:00", Source: types.ExclusionSourceStudent},
		},
		Contents: ReplaceContents([]WizardContent{
			{ContentType: types.ContentTypeBook, ContentID: contentID, StartRange: 1, EndRange: 50},
		}),
	}

	creation, err := SyncWizardDataToCreationData(wizard)
	if err != nil {
		t.Fatalf("forward sync failed: %v", err)
	}
	back := SyncCreationDataToWizardData(creation)

	if back.PeriodStart == nil || *back.PeriodStart != "2026-02-01" {
		t.Fatalf("period start: want=2026-02-01 got=%v", back.PeriodStart)
	}
	if back.PeriodEnd == nil || *back.PeriodEnd != "2026-02-28" {
		t.Fatalf("period end: want=2026-02-28 got=%v", back.PeriodEnd)
	}
	if got := back.SchedulerOptions["dailyStudyMinutes"]; got != 120.0 {
		t.Fatalf("scheduler option: want=120 got=%v", got)
	}
	if len(back.Exclusions) != 1 || back.Exclusions[0].ExclusionDate != "2026-02-10" {
		t.Fatalf("exclusions did not round trip: %+v", back.Exclusions)
	}
	if back.Exclusions[0].Reason == nil || *back.Exclusions[0].Reason != reason {
		t.Fatalf("exclusion reason did not round trip: %+v", back.Exclusions[0])
	}
	if len(back.AcademySchedules) != 1 || back.AcademySchedules[0].StartTime != "16:00" {
		t.Fatalf("schedules did not round trip: %+v", back.AcademySchedules)
	}
	if back.Contents.Mode != DirectiveReplace || len(back.Contents.Values) != 1 {
		t.Fatalf("content directive did not round trip: %+v", back.Contents)
	}
	if back.Contents.Values[0].ContentID != contentID {
		t.Fatalf("content id: want=%s got=%s", contentID, back.Contents.Values[0].ContentID)
	}
	if back.FieldLocks == nil {
		t.Fatal("field locks should rehydrate to an empty map")
	}
}
