package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/types"
)

const wizardDateLayout = "2006-01-02"

// DirectiveMode makes the caller's intent for a collection field explicit on
// partial updates. Omit preserves whatever is stored, Clear deletes it,
// Replace swaps it for the supplied values. Array emptiness never carries
// meaning on its own.
type DirectiveMode string

const (
	DirectiveOmit    DirectiveMode = "omit"
	DirectiveClear   DirectiveMode = "clear"
	DirectiveReplace DirectiveMode = "replace"
)

type ContentDirective struct {
	Mode   DirectiveMode   `json:"mode"`
	Values []WizardContent `json:"values,omitempty"`
}

func OmitContents() ContentDirective  { return ContentDirective{Mode: DirectiveOmit} }
func ClearContents() ContentDirective { return ContentDirective{Mode: DirectiveClear} }

func ReplaceContents(values []WizardContent) ContentDirective {
	if values == nil {
		values = []WizardContent{}
	}
	return ContentDirective{Mode: DirectiveReplace, Values: values}
}

// WizardContent is one study item as the wizard form submits it.
type WizardContent struct {
	ContentType     string     `json:"content_type"`
	ContentID       uuid.UUID  `json:"content_id"`
	MasterContentID *uuid.UUID `json:"master_content_id,omitempty"`
	StartRange      int        `json:"start_range"`
	EndRange        int        `json:"end_range"`
	DisplayOrder    int        `json:"display_order"`
}

type WizardExclusion struct {
	ExclusionDate string  `json:"exclusion_date"`
	ExclusionType string  `json:"exclusion_type"`
	Reason        *string `json:"reason,omitempty"`
	Source        string  `json:"source,omitempty"`
	IsLocked      bool    `json:"is_locked,omitempty"`
}

type WizardSchedule struct {
	DayOfWeek   int     `json:"day_of_week"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	AcademyName *string `json:"academy_name,omitempty"`
	Subject     *string `json:"subject,omitempty"`
	Source      string  `json:"source,omitempty"`
	IsLocked    bool    `json:"is_locked,omitempty"`
}

// WizardData is the editable form model the wizard steps exchange. FieldLocks
// annotates which scalar fields the template froze; it exists for the UI only
// and never reaches storage.
type WizardData struct {
	PeriodStart      *string                `json:"period_start,omitempty"`
	PeriodEnd        *string                `json:"period_end,omitempty"`
	SchedulerOptions map[string]interface{} `json:"scheduler_options,omitempty"`
	Exclusions       []WizardExclusion      `json:"exclusions,omitempty"`
	AcademySchedules []WizardSchedule       `json:"academy_schedules,omitempty"`
	Contents         ContentDirective       `json:"contents"`
	FieldLocks       map[string]bool        `json:"field_locks,omitempty"`
}

// CreationData is the normalized shape the persistence path consumes. Dates
// are parsed, collections are never nil, and the content directive is carried
// through unchanged so callers can still distinguish omit from clear.
type CreationData struct {
	PeriodStart      *time.Time
	PeriodEnd        *time.Time
	SchedulerOptions map[string]interface{}
	Exclusions       []types.PlanExclusion
	AcademySchedules []types.AcademySchedule
	Contents         ContentDirective
}

// SyncWizardDataToCreationData flattens the wizard form into the persistence
// shape. Absent exclusion/schedule arrays become empty collections; the
// content directive keeps its tri-state meaning.
func SyncWizardDataToCreationData(wizard WizardData) (CreationData, error) {
	creation := CreationData{
		SchedulerOptions: map[string]interface{}{},
		Exclusions:       []types.PlanExclusion{},
		AcademySchedules: []types.AcademySchedule{},
		Contents:         wizard.Contents,
	}
	if creation.Contents.Mode == "" {
		creation.Contents.Mode = DirectiveOmit
	}
	if creation.Contents.Mode == DirectiveReplace && creation.Contents.Values == nil {
		creation.Contents.Values = []WizardContent{}
	}

	if wizard.PeriodStart != nil {
		parsed, err := time.Parse(wizardDateLayout, *wizard.PeriodStart)
		if err != nil {
			return CreationData{}, apierr.Validation("invalid period_start %q: expected YYYY-MM-DD", *wizard.PeriodStart)
		}
		creation.PeriodStart = &parsed
	}
	if wizard.PeriodEnd != nil {
		parsed, err := time.Parse(wizardDateLayout, *wizard.PeriodEnd)
		if err != nil {
			return CreationData{}, apierr.Validation("invalid period_end %q: expected YYYY-MM-DD", *wizard.PeriodEnd)
		}
		creation.PeriodEnd = &parsed
	}
	for key, value := range wizard.SchedulerOptions {
		creation.SchedulerOptions[key] = value
	}

	for _, excl := range wizard.Exclusions {
		date, err := time.Parse(wizardDateLayout, excl.ExclusionDate)
		if err != nil {
			return CreationData{}, apierr.Validation("invalid exclusion_date %q: expected YYYY-MM-DD", excl.ExclusionDate)
		}
		source := excl.Source
		if source == "" {
			source = types.ExclusionSourceStudent
		}
		creation.Exclusions = append(creation.Exclusions, types.PlanExclusion{
			ExclusionDate: date,
			ExclusionType: excl.ExclusionType,
			Reason:        excl.Reason,
			Source:        source,
			IsLocked:      excl.IsLocked,
		})
	}

	for _, sched := range wizard.AcademySchedules {
		source := sched.Source
		if source == "" {
			source = types.ExclusionSourceStudent
		}
		creation.AcademySchedules = append(creation.AcademySchedules, types.AcademySchedule{
			DayOfWeek:   sched.DayOfWeek,
			StartTime:   sched.StartTime,
			EndTime:     sched.EndTime,
			AcademyName: sched.AcademyName,
			Subject:     sched.Subject,
			Source:      source,
			IsLocked:    sched.IsLocked,
		})
	}

	return creation, nil
}

// SyncCreationDataToWizardData rehydrates a wizard view from stored rows.
// Audit columns on the row types have no wizard counterpart and are dropped;
// FieldLocks comes back empty because storage never kept it.
func SyncCreationDataToWizardData(creation CreationData) WizardData {
	wizard := WizardData{
		SchedulerOptions: map[string]interface{}{},
		Exclusions:       []WizardExclusion{},
		AcademySchedules: []WizardSchedule{},
		Contents:         creation.Contents,
		FieldLocks:       map[string]bool{},
	}
	if wizard.Contents.Mode == "" {
		wizard.Contents.Mode = DirectiveOmit
	}

	if creation.PeriodStart != nil {
		formatted := creation.PeriodStart.Format(wizardDateLayout)
		wizard.PeriodStart = &formatted
	}
	if creation.PeriodEnd != nil {
		formatted := creation.PeriodEnd.Format(wizardDateLayout)
		wizard.PeriodEnd = &formatted
	}
	for key, value := range creation.SchedulerOptions {
		wizard.SchedulerOptions[key] = value
	}

	for _, excl := range creation.Exclusions {
		wizard.Exclusions = append(wizard.Exclusions, WizardExclusion{
			ExclusionDate: excl.ExclusionDate.Format(wizardDateLayout),
			ExclusionType: excl.ExclusionType,
			Reason:        excl.Reason,
			Source:        excl.Source,
			IsLocked:      excl.IsLocked,
		})
	}

	for _, sched := range creation.AcademySchedules {
		wizard.AcademySchedules = append(wizard.AcademySchedules, WizardSchedule{
			DayOfWeek:   sched.DayOfWeek,
			StartTime:   sched.StartTime,
			EndTime:     sched.EndTime,
			AcademyName: sched.AcademyName,
			Subject:     sched.Subject,
			Source:      sched.Source,
			IsLocked:    sched.IsLocked,
		})
	}

	return wizard
}
