package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/planmate/planmate-backend/internal/apierr"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/repos"
	"github.com/planmate/planmate-backend/internal/types"
)

// SchedulerOptionTemplateBlockSet is the schedulerOptions key carrying the
// template's resolved block set id. Camp groups never own a student block set
// through the group's own block_set_id column.
const SchedulerOptionTemplateBlockSet = "templateBlockSetId"

// ParticipationService is the workflow entry point for a student acting on a
// camp invitation.
type ParticipationService interface {
	AcceptInvitation(ctx context.Context, academyID, studentID, invitationID uuid.UUID, wizard WizardData) (*types.PlanGroup, error)
	EditParticipation(ctx context.Context, academyID, studentID, invitationID uuid.UUID) (*types.PlanGroup, error)
	DeclineInvitation(ctx context.Context, academyID, studentID, invitationID uuid.UUID) error
	CancelParticipation(ctx context.Context, academyID, studentID, invitationID uuid.UUID) error
}

type participationService struct {
	invitations repos.CampInvitationRepo
	templates   repos.CampTemplateRepo
	blockSets   repos.BlockSetRepo
	groups      repos.PlanGroupRepo
	contents    repos.PlanContentRepo
	exclusions  repos.PlanExclusionRepo
	schedules   repos.AcademyScheduleRepo
	plans       repos.StudentPlanRepo
	resolver    ContentResolver
	notifier    Notifier
	log         *logger.Logger
}

func NewParticipationService(
	invitations repos.CampInvitationRepo,
	templates repos.CampTemplateRepo,
	blockSets repos.BlockSetRepo,
	groups repos.PlanGroupRepo,
	contents repos.PlanContentRepo,
	exclusions repos.PlanExclusionRepo,
	schedules repos.AcademyScheduleRepo,
	plans repos.StudentPlanRepo,
	resolver ContentResolver,
	notifier Notifier,
	baseLog *logger.Logger,
) ParticipationService {
	return &participationService{
		invitations: invitations,
		templates:   templates,
		blockSets:   blockSets,
		groups:      groups,
		contents:    contents,
		exclusions:  exclusions,
		schedules:   schedules,
		plans:       plans,
		resolver:    resolver,
		notifier:    notifier,
		log:         baseLog.With("service", "ParticipationService"),
	}
}

// AcceptInvitation merges the template with the student's wizard submission
// and persists the resulting plan group. Persistence runs as ordered writes
// with compensating deletes, so a late failure leaves no new rows and the
// invitation still pending.
func (s *participationService) AcceptInvitation(ctx context.Context, academyID, studentID, invitationID uuid.UUID, wizard WizardData) (*types.PlanGroup, error) {
	invitation, err := s.invitations.GetByID(ctx, nil, academyID, invitationID)
	if err != nil {
		return nil, apierr.Database("failed to load invitation", err)
	}
	if invitation == nil {
		return nil, apierr.NotFound("invitation %s not found", invitationID)
	}
	if invitation.StudentID != studentID {
		return nil, apierr.Forbidden("invitation %s does not belong to this student", invitationID)
	}
	switch invitation.Status {
	case types.InvitationStatusPending:
	case types.InvitationStatusAccepted:
		return nil, apierr.Duplicate("invitation %s was already accepted", invitationID)
	default:
		return nil, apierr.Validation("invitation %s is %s and can no longer be accepted", invitationID, invitation.Status)
	}
	if invitation.ExpiresAt != nil && invitation.ExpiresAt.Before(time.Now()) {
		return nil, apierr.Validation("invitation %s expired at %s", invitationID, invitation.ExpiresAt.Format(time.RFC3339))
	}

	template, err := s.templates.GetByID(ctx, nil, academyID, invitation.CampTemplateID)
	if err != nil {
		return nil, apierr.Database("failed to load camp template", err)
	}
	if template == nil {
		return nil, apierr.NotFound("camp template %s not found", invitation.CampTemplateID)
	}

	existing, err := s.groups.GetByInvitationID(ctx, nil, academyID, invitationID)
	if err != nil {
		return nil, apierr.Database("failed to check for an existing plan group", err)
	}
	if existing != nil && existing.Status != types.PlanGroupStatusDraft {
		return nil, apierr.Duplicate("invitation %s was already processed, please refresh", invitationID)
	}

	if err := s.cleanupStaleGroups(ctx, academyID, template.ID, studentID, existing); err != nil {
		return nil, err
	}

	merged, err := s.mergeTemplateAndWizard(template, wizard)
	if err != nil {
		return nil, err
	}

	if err := s.resolveTemplateBlockSet(ctx, academyID, template, merged.SchedulerOptions); err != nil {
		return nil, err
	}

	resolvedContents, replaceContents, err := s.resolveAcceptContents(ctx, academyID, studentID, template, merged.Contents, existing)
	if err != nil {
		return nil, err
	}
	if len(resolvedContents) > MaxContentsPerGroup {
		return nil, apierr.Validation("content limit exceeded: %d items requested, but the maximum is %d",
			len(resolvedContents), MaxContentsPerGroup)
	}

	group, err := s.persistAcceptance(ctx, academyID, studentID, invitation, template, merged, resolvedContents, replaceContents, existing)
	if err != nil {
		return nil, err
	}

	go s.notify(NotificationEvent{
		Type:         "camp.invitation.accepted",
		AcademyID:    academyID,
		StudentID:    studentID,
		InvitationID: &invitation.ID,
		TemplateID:   &template.ID,
	})

	return group, nil
}

// EditParticipation reopens an accepted invitation for re-submission. Legal
// only while no concrete plans exist; demotes the group to draft and the
// invitation back to pending.
func (s *participationService) EditParticipation(ctx context.Context, academyID, studentID, invitationID uuid.UUID) (*types.PlanGroup, error) {
	invitation, group, err := s.loadAcceptedPair(ctx, academyID, studentID, invitationID)
	if err != nil {
		return nil, err
	}
	planCount, err := s.plans.CountByGroupID(ctx, nil, group.ID)
	if err != nil {
		return nil, apierr.Database("failed to count generated plans", err)
	}
	if planCount > 0 {
		return nil, apierr.Validation("participation can no longer be edited: %d plans were already generated", planCount)
	}

	previousStatus := group.Status
	steps := []SagaStep{
		{
			Name: "demote-group-to-draft",
			Run: func(ctx context.Context) error {
				return s.groups.UpdateFields(ctx, nil, academyID, group.ID, map[string]interface{}{"status": types.PlanGroupStatusDraft})
			},
			Compensate: func(ctx context.Context) error {
				return s.groups.UpdateFields(ctx, nil, academyID, group.ID, map[string]interface{}{"status": previousStatus})
			},
		},
		{
			Name: "revert-invitation-to-pending",
			Run: func(ctx context.Context) error {
				return s.invitations.UpdateFields(ctx, nil, invitation.ID, map[string]interface{}{"status": types.InvitationStatusPending})
			},
		},
	}
	if err := RunSaga(ctx, s.log, steps); err != nil {
		return nil, apierr.Database("failed to reopen participation", err)
	}
	group.Status = types.PlanGroupStatusDraft
	s.log.Info("participation reopened for editing", "invitation_id", invitationID, "group_id", group.ID)
	return group, nil
}

// DeclineInvitation is terminal. Any draft group produced by an earlier
// acceptance attempt is cascade-deleted first.
func (s *participationService) DeclineInvitation(ctx context.Context, academyID, studentID, invitationID uuid.UUID) error {
	invitation, err := s.invitations.GetByID(ctx, nil, academyID, invitationID)
	if err != nil {
		return apierr.Database("failed to load invitation", err)
	}
	if invitation == nil {
		return apierr.NotFound("invitation %s not found", invitationID)
	}
	if invitation.StudentID != studentID {
		return apierr.Forbidden("invitation %s does not belong to this student", invitationID)
	}
	if invitation.Status != types.InvitationStatusPending {
		return apierr.Validation("invitation %s is %s and can no longer be declined", invitationID, invitation.Status)
	}

	group, err := s.groups.GetByInvitationID(ctx, nil, academyID, invitationID)
	if err != nil {
		return apierr.Database("failed to check for an existing plan group", err)
	}
	if group != nil {
		if group.Status != types.PlanGroupStatusDraft {
			return apierr.Validation("invitation %s has a %s plan group and cannot be declined", invitationID, group.Status)
		}
		if err := s.cascadeDeleteGroups(ctx, []uuid.UUID{group.ID}); err != nil {
			return err
		}
	}

	if err := s.invitations.UpdateFields(ctx, nil, invitation.ID, map[string]interface{}{"status": types.InvitationStatusDeclined}); err != nil {
		return apierr.Database("failed to decline invitation", err)
	}
	s.log.Info("invitation declined", "invitation_id", invitationID, "student_id", studentID)
	return nil
}

// CancelParticipation undoes an acceptance while the group is still draft or
// saved and no plans exist. The invitation flip runs first so a failed group
// deletion can restore it.
func (s *participationService) CancelParticipation(ctx context.Context, academyID, studentID, invitationID uuid.UUID) error {
	invitation, group, err := s.loadAcceptedPair(ctx, academyID, studentID, invitationID)
	if err != nil {
		return err
	}
	if group.Status != types.PlanGroupStatusDraft && group.Status != types.PlanGroupStatusSaved {
		return apierr.Validation("participation cannot be cancelled while the plan group is %s", group.Status)
	}
	planCount, err := s.plans.CountByGroupID(ctx, nil, group.ID)
	if err != nil {
		return apierr.Database("failed to count generated plans", err)
	}
	if planCount > 0 {
		return apierr.Validation("participation cannot be cancelled: %d plans were already generated", planCount)
	}

	steps := []SagaStep{
		{
			Name: "mark-invitation-cancelled",
			Run: func(ctx context.Context) error {
				return s.invitations.UpdateFields(ctx, nil, invitation.ID, map[string]interface{}{"status": types.InvitationStatusCancelled})
			},
			Compensate: func(ctx context.Context) error {
				return s.invitations.UpdateFields(ctx, nil, invitation.ID, map[string]interface{}{"status": types.InvitationStatusAccepted})
			},
		},
		{
			Name: "delete-plan-group",
			Run: func(ctx context.Context) error {
				return s.cascadeDeleteGroups(ctx, []uuid.UUID{group.ID})
			},
		},
	}
	if err := RunSaga(ctx, s.log, steps); err != nil {
		return apierr.Database("failed to cancel participation", err)
	}
	s.log.Info("participation cancelled", "invitation_id", invitationID, "group_id", group.ID)
	return nil
}

func (s *participationService) loadAcceptedPair(ctx context.Context, academyID, studentID, invitationID uuid.UUID) (*types.CampInvitation, *types.PlanGroup, error) {
	invitation, err := s.invitations.GetByID(ctx, nil, academyID, invitationID)
	if err != nil {
		return nil, nil, apierr.Database("failed to load invitation", err)
	}
	if invitation == nil {
		return nil, nil, apierr.NotFound("invitation %s not found", invitationID)
	}
	if invitation.StudentID != studentID {
		return nil, nil, apierr.Forbidden("invitation %s does not belong to this student", invitationID)
	}
	if invitation.Status != types.InvitationStatusAccepted {
		return nil, nil, apierr.Validation("invitation %s is %s, expected accepted", invitationID, invitation.Status)
	}
	group, err := s.groups.GetByInvitationID(ctx, nil, academyID, invitationID)
	if err != nil {
		return nil, nil, apierr.Database("failed to load plan group", err)
	}
	if group == nil {
		return nil, nil, apierr.NotFound("no plan group exists for invitation %s", invitationID)
	}
	return invitation, group, nil
}

// cleanupStaleGroups removes groups a different invitation for the same
// (template, student) left behind, so old history cannot shadow this attempt.
func (s *participationService) cleanupStaleGroups(ctx context.Context, academyID, templateID, studentID uuid.UUID, current *types.PlanGroup) error {
	others, err := s.groups.ListByTemplateAndStudent(ctx, nil, academyID, templateID, studentID)
	if err != nil {
		return apierr.Database("failed to list earlier plan groups", err)
	}
	var stale []uuid.UUID
	for _, other := range others {
		if current != nil && other.ID == current.ID {
			continue
		}
		stale = append(stale, other.ID)
	}
	if len(stale) == 0 {
		return nil
	}
	s.log.Info("removing stale plan groups before acceptance", "template_id", templateID, "student_id", studentID, "count", len(stale))
	return s.cascadeDeleteGroups(ctx, stale)
}

func (s *participationService) cascadeDeleteGroups(ctx context.Context, groupIDs []uuid.UUID) error {
	if err := s.plans.FullDeleteByGroupIDs(ctx, nil, groupIDs); err != nil {
		return apierr.Database("failed to delete plans of removed groups", err)
	}
	if err := s.contents.FullDeleteByGroupIDs(ctx, nil, groupIDs); err != nil {
		return apierr.Database("failed to delete contents of removed groups", err)
	}
	if err := s.exclusions.FullDeleteByGroupIDs(ctx, nil, groupIDs); err != nil {
		return apierr.Database("failed to delete exclusions of removed groups", err)
	}
	if err := s.groups.FullDeleteByIDs(ctx, nil, groupIDs); err != nil {
		return apierr.Database("failed to delete plan groups", err)
	}
	return nil
}

// mergeTemplateAndWizard applies the three field-level merge policies: the
// student's scalar wins when present, exclusions go through the priority
// merge, and template schedules are kept with student ones appended only when
// their tuple is new.
func (s *participationService) mergeTemplateAndWizard(template *types.CampTemplate, wizard WizardData) (CreationData, error) {
	templateWizard, err := templateWizardData(template)
	if err != nil {
		return CreationData{}, err
	}
	templateCreation, err := SyncWizardDataToCreationData(templateWizard)
	if err != nil {
		return CreationData{}, apierr.Validation("camp template %s carries invalid template data: %v", template.ID, err)
	}
	studentCreation, err := SyncWizardDataToCreationData(wizard)
	if err != nil {
		return CreationData{}, err
	}

	merged := CreationData{
		SchedulerOptions: map[string]interface{}{},
		Contents:         studentCreation.Contents,
	}

	merged.PeriodStart = studentCreation.PeriodStart
	if merged.PeriodStart == nil {
		merged.PeriodStart = templateCreation.PeriodStart
	}
	if merged.PeriodStart == nil {
		merged.PeriodStart = template.CampStartDate
	}
	merged.PeriodEnd = studentCreation.PeriodEnd
	if merged.PeriodEnd == nil {
		merged.PeriodEnd = templateCreation.PeriodEnd
	}
	if merged.PeriodEnd == nil {
		merged.PeriodEnd = template.CampEndDate
	}
	if merged.PeriodStart == nil || merged.PeriodEnd == nil {
		return CreationData{}, apierr.Validation("camp period is not specified by the template or the submission")
	}
	if merged.PeriodEnd.Before(*merged.PeriodStart) {
		return CreationData{}, apierr.Validation("camp period ends before it starts")
	}

	for key, value := range templateCreation.SchedulerOptions {
		merged.SchedulerOptions[key] = value
	}
	for key, value := range studentCreation.SchedulerOptions {
		merged.SchedulerOptions[key] = value
	}

	for i := range templateCreation.Exclusions {
		templateCreation.Exclusions[i].Source = types.ExclusionSourceTemplate
		templateCreation.Exclusions[i].IsLocked = true
	}
	merged.Exclusions = MergeExclusions(templateCreation.Exclusions, studentCreation.Exclusions)

	seen := make(map[string]bool, len(templateCreation.AcademySchedules))
	for _, sched := range templateCreation.AcademySchedules {
		entry := sched
		entry.Source = types.ExclusionSourceTemplate
		entry.IsLocked = true
		merged.AcademySchedules = append(merged.AcademySchedules, entry)
		seen[entry.TupleKey()] = true
	}
	for _, sched := range studentCreation.AcademySchedules {
		if seen[sched.TupleKey()] {
			continue
		}
		seen[sched.TupleKey()] = true
		merged.AcademySchedules = append(merged.AcademySchedules, sched)
	}

	return merged, nil
}

func templateWizardData(template *types.CampTemplate) (WizardData, error) {
	var wizard WizardData
	if len(template.TemplateData) == 0 {
		return wizard, nil
	}
	if err := json.Unmarshal(template.TemplateData, &wizard); err != nil {
		return wizard, apierr.Validation("camp template %s carries malformed template data", template.ID)
	}
	return wizard, nil
}

// resolveTemplateBlockSet stores the template's effective block set id inside
// schedulerOptions. The link table wins; the template's inline column is the
// legacy fallback.
func (s *participationService) resolveTemplateBlockSet(ctx context.Context, academyID uuid.UUID, template *types.CampTemplate, options map[string]interface{}) error {
	link, err := s.blockSets.GetTemplateLink(ctx, nil, academyID, template.ID)
	if err != nil {
		return apierr.Database("failed to resolve template block set", err)
	}
	switch {
	case link != nil:
		options[SchedulerOptionTemplateBlockSet] = link.BlockSetID.String()
	case template.BlockSetID != nil:
		options[SchedulerOptionTemplateBlockSet] = template.BlockSetID.String()
	}
	return nil
}

// resolveAcceptContents turns the tri-state directive into the rows to
// persist. replaceContents reports whether the group's stored rows should be
// swapped for the returned set; when false an existing draft keeps its rows.
func (s *participationService) resolveAcceptContents(ctx context.Context, academyID, studentID uuid.UUID, template *types.CampTemplate, directive ContentDirective, existing *types.PlanGroup) ([]*types.PlanContent, bool, error) {
	switch directive.Mode {
	case DirectiveReplace:
		resolved, err := s.resolver.Resolve(ctx, nil, academyID, studentID, directive.Values, ProvenanceStudent)
		if err != nil {
			return nil, false, err
		}
		return resolved, true, nil
	case DirectiveClear:
		return []*types.PlanContent{}, true, nil
	default:
		if existing != nil {
			return []*types.PlanContent{}, false, nil
		}
		templateWizard, err := templateWizardData(template)
		if err != nil {
			return nil, false, err
		}
		resolved, err := s.resolver.Resolve(ctx, nil, academyID, studentID, templateWizard.Contents.Values, ProvenanceTemplate)
		if err != nil {
			return nil, false, err
		}
		return resolved, true, nil
	}
}

// persistAcceptance runs the ordered-write saga: group row, exclusion set,
// academy-schedule delta, content set, then the two status flips. A failure
// anywhere unwinds everything already written.
func (s *participationService) persistAcceptance(
	ctx context.Context,
	academyID, studentID uuid.UUID,
	invitation *types.CampInvitation,
	template *types.CampTemplate,
	merged CreationData,
	resolvedContents []*types.PlanContent,
	replaceContents bool,
	existing *types.PlanGroup,
) (*types.PlanGroup, error) {
	optionsJSON, err := json.Marshal(merged.SchedulerOptions)
	if err != nil {
		return nil, apierr.Validation("scheduler options are not serializable: %v", err)
	}

	group := existing
	created := existing == nil
	previousFields := map[string]interface{}{}
	if !created {
		previousFields = map[string]interface{}{
			"period_start":      existing.PeriodStart,
			"period_end":        existing.PeriodEnd,
			"scheduler_options": existing.SchedulerOptions,
		}
	}

	var scheduleDeltaIDs []uuid.UUID

	steps := []SagaStep{
		{
			Name: "persist-group",
			Run: func(ctx context.Context) error {
				if created {
					templateID := template.ID
					invitationID := invitation.ID
					group = &types.PlanGroup{
						AcademyID:        academyID,
						StudentID:        studentID,
						PlanType:         types.PlanTypeCamp,
						CampTemplateID:   &templateID,
						CampInvitationID: &invitationID,
						Status:           types.PlanGroupStatusDraft,
						PeriodStart:      *merged.PeriodStart,
						PeriodEnd:        *merged.PeriodEnd,
						SchedulerOptions: datatypes.JSON(optionsJSON),
					}
					_, err := s.groups.Create(ctx, nil, []*types.PlanGroup{group})
					return err
				}
				return s.groups.UpdateFields(ctx, nil, academyID, group.ID, map[string]interface{}{
					"period_start":      *merged.PeriodStart,
					"period_end":        *merged.PeriodEnd,
					"scheduler_options": datatypes.JSON(optionsJSON),
				})
			},
			Compensate: func(ctx context.Context) error {
				if created {
					return s.cascadeDeleteGroups(ctx, []uuid.UUID{group.ID})
				}
				return s.groups.UpdateFields(ctx, nil, academyID, group.ID, previousFields)
			},
		},
		{
			Name: "replace-exclusions",
			Run: func(ctx context.Context) error {
				if err := s.exclusions.FullDeleteByGroupIDs(ctx, nil, []uuid.UUID{group.ID}); err != nil {
					return err
				}
				rows := make([]*types.PlanExclusion, 0, len(merged.Exclusions))
				for i := range merged.Exclusions {
					excl := merged.Exclusions[i]
					excl.AcademyID = academyID
					excl.PlanGroupID = group.ID
					rows = append(rows, &excl)
				}
				_, err := s.exclusions.Create(ctx, nil, rows)
				return err
			},
			Compensate: func(ctx context.Context) error {
				return s.exclusions.FullDeleteByGroupIDs(ctx, nil, []uuid.UUID{group.ID})
			},
		},
		{
			Name: "insert-schedule-delta",
			Run: func(ctx context.Context) error {
				stored, err := s.schedules.ListByStudent(ctx, nil, academyID, studentID)
				if err != nil {
					return err
				}
				have := make(map[string]bool, len(stored))
				for _, sched := range stored {
					have[sched.TupleKey()] = true
				}
				var delta []*types.AcademySchedule
				for i := range merged.AcademySchedules {
					sched := merged.AcademySchedules[i]
					if have[sched.TupleKey()] {
						continue
					}
					sched.AcademyID = academyID
					sched.StudentID = studentID
					delta = append(delta, &sched)
				}
				inserted, err := s.schedules.Create(ctx, nil, delta)
				if err != nil {
					return err
				}
				for _, sched := range inserted {
					scheduleDeltaIDs = append(scheduleDeltaIDs, sched.ID)
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.schedules.FullDeleteByIDs(ctx, nil, scheduleDeltaIDs)
			},
		},
		{
			Name: "replace-contents",
			Run: func(ctx context.Context) error {
				if !replaceContents {
					return nil
				}
				if err := s.contents.FullDeleteByGroupIDs(ctx, nil, []uuid.UUID{group.ID}); err != nil {
					return err
				}
				for _, row := range resolvedContents {
					row.PlanGroupID = group.ID
				}
				_, err := s.contents.Create(ctx, nil, resolvedContents)
				return err
			},
			Compensate: func(ctx context.Context) error {
				if !replaceContents {
					return nil
				}
				return s.contents.FullDeleteByGroupIDs(ctx, nil, []uuid.UUID{group.ID})
			},
		},
		{
			Name: "mark-group-saved",
			Run: func(ctx context.Context) error {
				return s.groups.UpdateFields(ctx, nil, academyID, group.ID, map[string]interface{}{"status": types.PlanGroupStatusSaved})
			},
			Compensate: func(ctx context.Context) error {
				return s.groups.UpdateFields(ctx, nil, academyID, group.ID, map[string]interface{}{"status": types.PlanGroupStatusDraft})
			},
		},
		{
			Name: "mark-invitation-accepted",
			Run: func(ctx context.Context) error {
				return s.invitations.UpdateFields(ctx, nil, invitation.ID, map[string]interface{}{"status": types.InvitationStatusAccepted})
			},
		},
	}

	if err := RunSaga(ctx, s.log, steps); err != nil {
		if apierr.IsUniqueViolation(err) {
			return nil, apierr.Duplicate("invitation %s was already processed, please refresh", invitation.ID)
		}
		var apiErr *apierr.Error
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		return nil, apierr.Database("failed to persist camp participation", err)
	}

	group.Status = types.PlanGroupStatusSaved
	s.log.Info("camp invitation accepted",
		"invitation_id", invitation.ID, "group_id", group.ID,
		"created", created, "contents", len(resolvedContents), "exclusions", len(merged.Exclusions))
	return group, nil
}

// notify publishes a staff notification with its own deadline, detached from
// the request lifecycle. Failures are logged and dropped.
func (s *participationService) notify(event NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.notifier.Publish(ctx, event); err != nil {
		s.log.Warn("notification delivery failed", "type", event.Type, "invitation_id", event.InvitationID, "error", err)
	}
}
